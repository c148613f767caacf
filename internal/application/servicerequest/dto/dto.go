package dto

import (
	"time"

	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
)

type CreateServiceRequestRequest struct {
	WebsiteURL         string                   `json:"website_url" binding:"omitempty,max=2048"`
	PlatformType       string                   `json:"platform_type" binding:"omitempty,max=100"`
	ServiceType        string                   `json:"service_type" binding:"required,min=2,max=100"`
	ProblemDescription string                   `json:"problem_description" binding:"required,min=3,max=5000"`
	UrgencyLevel       string                   `json:"urgency_level" binding:"omitempty,max=50"`
	EstimatedQuote     *float64                 `json:"estimated_quote" binding:"omitempty,gte=0"`
	AdditionalFeatures []servicerequest.Feature `json:"additional_features"`
}

type CreateServiceRequestResponse struct {
	ServiceRequestID uint `json:"serviceRequestId"`
	TicketID         uint `json:"ticketId"`
}

// ServiceRequestDTO is one row of the client's request list, joined with its
// live ticket when there is one.
type ServiceRequestDTO struct {
	ID                 uint                     `json:"id"`
	WebsiteURL         string                   `json:"website_url"`
	PlatformType       string                   `json:"platform_type"`
	ServiceType        string                   `json:"service_type"`
	ProblemDescription string                   `json:"problem_description"`
	UrgencyLevel       string                   `json:"urgency_level"`
	EstimatedQuote     *float64                 `json:"estimated_quote"`
	AdditionalFeatures []servicerequest.Feature `json:"additional_features"`
	Status             string                   `json:"status"`
	CreatedAt          time.Time                `json:"created_at"`
	TicketID           *uint                    `json:"ticket_id"`
	TicketStatus       *string                  `json:"ticket_status"`
	DiscordChannelID   *string                  `json:"discord_channel_id"`
}

type ActiveServiceRequestDTO struct {
	ID           uint      `json:"id"`
	ServiceType  string    `json:"service_type"`
	PlatformType string    `json:"platform_type"`
	UrgencyLevel string    `json:"urgency_level"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminServiceRequestDTO is the support-side view used by chat commands.
type AdminServiceRequestDTO struct {
	ID                 uint
	UserID             uint
	ClientName         string
	ClientEmail        string
	WebsiteURL         string
	PlatformType       string
	ServiceType        string
	ProblemDescription string
	UrgencyLevel       string
	EstimatedQuote     *float64
	AdditionalFeatures []servicerequest.Feature
	Status             string
	CreatedAt          time.Time
}

func ToServiceRequestDTO(sr *servicerequest.ServiceRequest, t *ticket.Ticket) ServiceRequestDTO {
	d := ServiceRequestDTO{
		ID:                 sr.ID(),
		WebsiteURL:         sr.WebsiteURL(),
		PlatformType:       sr.PlatformType(),
		ServiceType:        sr.ServiceType(),
		ProblemDescription: sr.ProblemDescription(),
		UrgencyLevel:       sr.UrgencyLevel(),
		EstimatedQuote:     sr.EstimatedQuote(),
		AdditionalFeatures: sr.AdditionalFeatures(),
		Status:             sr.Status().String(),
		CreatedAt:          sr.CreatedAt(),
	}
	if t != nil {
		id, status := t.ID(), t.Status().String()
		d.TicketID = &id
		d.TicketStatus = &status
		if t.HasChannel() {
			ch := t.ChannelID()
			d.DiscordChannelID = &ch
		}
	}
	return d
}

func ToActiveServiceRequestDTO(sr *servicerequest.ServiceRequest) ActiveServiceRequestDTO {
	return ActiveServiceRequestDTO{
		ID:           sr.ID(),
		ServiceType:  sr.ServiceType(),
		PlatformType: sr.PlatformType(),
		UrgencyLevel: sr.UrgencyLevel(),
		CreatedAt:    sr.CreatedAt(),
	}
}

func ToAdminServiceRequestDTO(sr *servicerequest.ServiceRequest) *AdminServiceRequestDTO {
	return &AdminServiceRequestDTO{
		ID:                 sr.ID(),
		UserID:             sr.UserID(),
		ClientName:         sr.ClientName(),
		ClientEmail:        sr.ClientEmail(),
		WebsiteURL:         sr.WebsiteURL(),
		PlatformType:       sr.PlatformType(),
		ServiceType:        sr.ServiceType(),
		ProblemDescription: sr.ProblemDescription(),
		UrgencyLevel:       sr.UrgencyLevel(),
		EstimatedQuote:     sr.EstimatedQuote(),
		AdditionalFeatures: sr.AdditionalFeatures(),
		Status:             sr.Status().String(),
		CreatedAt:          sr.CreatedAt(),
	}
}
