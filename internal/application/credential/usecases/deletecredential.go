package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

var errCredentialNotOwned = errors.NewNotFoundError("Credential not found or access denied.")

type DeleteCredentialUseCase struct {
	credentialRepo credential.Repository
	logger         logger.Interface
}

func NewDeleteCredentialUseCase(credentialRepo credential.Repository, logger logger.Interface) *DeleteCredentialUseCase {
	return &DeleteCredentialUseCase{
		credentialRepo: credentialRepo,
		logger:         logger,
	}
}

func (uc *DeleteCredentialUseCase) Execute(ctx context.Context, userID, credentialID uint) error {
	removed, err := uc.credentialRepo.DeleteOwned(ctx, credentialID, userID)
	if err != nil {
		uc.logger.Errorw("failed to delete credential", "credential_id", credentialID, "error", err)
		return errors.NewInternalError("Failed to delete credential.")
	}
	if !removed {
		return errCredentialNotOwned
	}
	uc.logger.Infow("credential deleted", "credential_id", credentialID, "user_id", userID)
	return nil
}
