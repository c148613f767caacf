package mappers

import (
	"fmt"

	"gorm.io/datatypes"

	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
)

type ServiceRequestMapper interface {
	ToModel(sr *servicerequest.ServiceRequest) *models.ServiceRequestModel
	ToDomain(model *models.ServiceRequestModel) (*servicerequest.ServiceRequest, error)
	ToDomainList(list []models.ServiceRequestModel) ([]*servicerequest.ServiceRequest, error)
}

type ServiceRequestMapperImpl struct{}

func NewServiceRequestMapper() ServiceRequestMapper {
	return &ServiceRequestMapperImpl{}
}

func (m *ServiceRequestMapperImpl) ToModel(sr *servicerequest.ServiceRequest) *models.ServiceRequestModel {
	features := sr.AdditionalFeatures()
	rows := make([]models.FeatureModel, 0, len(features))
	for _, f := range features {
		rows = append(rows, models.FeatureModel{ID: f.ID, Name: f.Name, Price: f.Price})
	}

	return &models.ServiceRequestModel{
		ID:                 sr.ID(),
		UserID:             sr.UserID(),
		ClientName:         sr.ClientName(),
		ClientEmail:        sr.ClientEmail(),
		WebsiteURL:         sr.WebsiteURL(),
		PlatformType:       sr.PlatformType(),
		ServiceType:        sr.ServiceType(),
		ProblemDescription: sr.ProblemDescription(),
		UrgencyLevel:       sr.UrgencyLevel(),
		BudgetRange:        sr.BudgetRange(),
		EstimatedQuote:     sr.EstimatedQuote(),
		AdditionalFeatures: datatypes.NewJSONSlice(rows),
		Status:             sr.Status().String(),
		DiscordNotified:    sr.DiscordNotified(),
		CreatedAt:          sr.CreatedAt(),
	}
}

func (m *ServiceRequestMapperImpl) ToDomain(model *models.ServiceRequestModel) (*servicerequest.ServiceRequest, error) {
	if model == nil {
		return nil, nil
	}

	features := make([]servicerequest.Feature, 0, len(model.AdditionalFeatures))
	for _, f := range model.AdditionalFeatures {
		features = append(features, servicerequest.Feature{ID: f.ID, Name: f.Name, Price: f.Price})
	}

	sr, err := servicerequest.ReconstructServiceRequest(servicerequest.ReconstructParams{
		ID:                 model.ID,
		UserID:             model.UserID,
		ClientName:         model.ClientName,
		ClientEmail:        model.ClientEmail,
		WebsiteURL:         model.WebsiteURL,
		PlatformType:       model.PlatformType,
		ServiceType:        model.ServiceType,
		ProblemDescription: model.ProblemDescription,
		UrgencyLevel:       model.UrgencyLevel,
		BudgetRange:        model.BudgetRange,
		EstimatedQuote:     model.EstimatedQuote,
		AdditionalFeatures: features,
		Status:             servicerequest.Status(model.Status),
		DiscordNotified:    model.DiscordNotified,
		CreatedAt:          model.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct service request %d: %w", model.ID, err)
	}
	return sr, nil
}

func (m *ServiceRequestMapperImpl) ToDomainList(list []models.ServiceRequestModel) ([]*servicerequest.ServiceRequest, error) {
	out := make([]*servicerequest.ServiceRequest, 0, len(list))
	for i := range list {
		sr, err := m.ToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, nil
}
