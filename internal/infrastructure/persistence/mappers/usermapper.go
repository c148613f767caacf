package mappers

import (
	"fmt"

	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
)

// UserMapper is read-only; the portal never writes users.
type UserMapper interface {
	ToDomain(model *models.UserModel) (*user.User, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToDomain(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}
	u, err := user.ReconstructUser(
		model.ID,
		model.Name,
		model.Email,
		model.Password,
		model.PhoneNumber,
		model.WebsiteURL,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user %d: %w", model.ID, err)
	}
	return u, nil
}
