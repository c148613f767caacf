package mappers

import (
	"fmt"

	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
)

type CredentialMapper interface {
	ToModel(c *credential.Credential) *models.CredentialModel
	ToDomain(model *models.CredentialModel) (*credential.Credential, error)
	ToDomainList(list []models.CredentialModel) ([]*credential.Credential, error)
}

type CredentialMapperImpl struct{}

func NewCredentialMapper() CredentialMapper {
	return &CredentialMapperImpl{}
}

func (m *CredentialMapperImpl) ToModel(c *credential.Credential) *models.CredentialModel {
	return &models.CredentialModel{
		ID:               c.ID(),
		ServiceRequestID: c.ServiceRequestID(),
		UserID:           c.UserID(),
		Label:            c.Label(),
		Username:         c.Username(),
		PasswordEnc:      c.Ciphertext(),
		IV:               c.IV(),
		LastAccessedAt:   c.LastAccessedAt(),
		CreatedAt:        c.CreatedAt(),
	}
}

func (m *CredentialMapperImpl) ToDomain(model *models.CredentialModel) (*credential.Credential, error) {
	if model == nil {
		return nil, nil
	}
	c, err := credential.ReconstructCredential(
		model.ID,
		model.ServiceRequestID,
		model.UserID,
		model.Label,
		model.Username,
		model.PasswordEnc,
		model.IV,
		model.LastAccessedAt,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct credential %d: %w", model.ID, err)
	}
	return c, nil
}

func (m *CredentialMapperImpl) ToDomainList(list []models.CredentialModel) ([]*credential.Credential, error) {
	out := make([]*credential.Credential, 0, len(list))
	for i := range list {
		c, err := m.ToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
