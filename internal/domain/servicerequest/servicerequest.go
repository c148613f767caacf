package servicerequest

import (
	"fmt"
	"strings"
	"time"

	"github.com/fixmysite/portal/internal/shared/biztime"
)

// Feature is an add-on picked in the quote calculator.
type Feature struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type ServiceRequest struct {
	id                 uint
	userID             uint
	clientName         string
	clientEmail        string
	websiteURL         string
	platformType       string
	serviceType        string
	problemDescription string
	urgencyLevel       string
	budgetRange        string
	estimatedQuote     *float64
	additionalFeatures []Feature
	status             Status
	discordNotified    bool
	createdAt          time.Time
}

// Intake carries the client-supplied fields of a new request.
type Intake struct {
	WebsiteURL         string
	PlatformType       string
	ServiceType        string
	ProblemDescription string
	UrgencyLevel       string
	EstimatedQuote     *float64
	AdditionalFeatures []Feature
}

func NewServiceRequest(userID uint, clientName, clientEmail string, in Intake) (*ServiceRequest, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	serviceType := strings.TrimSpace(in.ServiceType)
	if len(serviceType) < 2 || len(serviceType) > 100 {
		return nil, fmt.Errorf("service type must be between 2 and 100 characters")
	}
	problem := strings.TrimSpace(in.ProblemDescription)
	if len(problem) < 3 || len(problem) > 5000 {
		return nil, fmt.Errorf("problem description must be between 3 and 5000 characters")
	}

	features := in.AdditionalFeatures
	if features == nil {
		features = []Feature{}
	}

	return &ServiceRequest{
		userID:             userID,
		clientName:         clientName,
		clientEmail:        clientEmail,
		websiteURL:         in.WebsiteURL,
		platformType:       in.PlatformType,
		serviceType:        serviceType,
		problemDescription: problem,
		urgencyLevel:       in.UrgencyLevel,
		estimatedQuote:     in.EstimatedQuote,
		additionalFeatures: features,
		status:             StatusNew,
		createdAt:          biztime.NowUTC(),
	}, nil
}

// ReconstructParams mirrors a persisted row.
type ReconstructParams struct {
	ID                 uint
	UserID             uint
	ClientName         string
	ClientEmail        string
	WebsiteURL         string
	PlatformType       string
	ServiceType        string
	ProblemDescription string
	UrgencyLevel       string
	BudgetRange        string
	EstimatedQuote     *float64
	AdditionalFeatures []Feature
	Status             Status
	DiscordNotified    bool
	CreatedAt          time.Time
}

func ReconstructServiceRequest(p ReconstructParams) (*ServiceRequest, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("service request ID cannot be zero")
	}
	status := p.Status
	if !status.IsValid() {
		status = StatusNew
	}
	features := p.AdditionalFeatures
	if features == nil {
		features = []Feature{}
	}

	return &ServiceRequest{
		id:                 p.ID,
		userID:             p.UserID,
		clientName:         p.ClientName,
		clientEmail:        p.ClientEmail,
		websiteURL:         p.WebsiteURL,
		platformType:       p.PlatformType,
		serviceType:        p.ServiceType,
		problemDescription: p.ProblemDescription,
		urgencyLevel:       p.UrgencyLevel,
		budgetRange:        p.BudgetRange,
		estimatedQuote:     p.EstimatedQuote,
		additionalFeatures: features,
		status:             status,
		discordNotified:    p.DiscordNotified,
		createdAt:          p.CreatedAt,
	}, nil
}

func (s *ServiceRequest) ID() uint                   { return s.id }
func (s *ServiceRequest) UserID() uint               { return s.userID }
func (s *ServiceRequest) ClientName() string         { return s.clientName }
func (s *ServiceRequest) ClientEmail() string        { return s.clientEmail }
func (s *ServiceRequest) WebsiteURL() string         { return s.websiteURL }
func (s *ServiceRequest) PlatformType() string       { return s.platformType }
func (s *ServiceRequest) ServiceType() string        { return s.serviceType }
func (s *ServiceRequest) ProblemDescription() string { return s.problemDescription }
func (s *ServiceRequest) UrgencyLevel() string       { return s.urgencyLevel }
func (s *ServiceRequest) BudgetRange() string        { return s.budgetRange }
func (s *ServiceRequest) EstimatedQuote() *float64   { return s.estimatedQuote }
func (s *ServiceRequest) Status() Status             { return s.status }
func (s *ServiceRequest) DiscordNotified() bool      { return s.discordNotified }
func (s *ServiceRequest) CreatedAt() time.Time       { return s.createdAt }

func (s *ServiceRequest) AdditionalFeatures() []Feature {
	out := make([]Feature, len(s.additionalFeatures))
	copy(out, s.additionalFeatures)
	return out
}

func (s *ServiceRequest) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("service request ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("service request ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *ServiceRequest) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid service request status: %s", status)
	}
	s.status = status
	return nil
}
