package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/application/credential/dto"
	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/user"
	"github.com/fixmysite/portal/internal/shared/biztime"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

var errCredentialNotForTicket = errors.NewNotFoundError("Credential not found for this ticket.")

type RevealCredentialUseCase struct {
	credentialRepo credential.Repository
	userRepo       user.Repository
	sealer         Sealer
	logger         logger.Interface
}

func NewRevealCredentialUseCase(
	credentialRepo credential.Repository,
	userRepo user.Repository,
	sealer Sealer,
	logger logger.Interface,
) *RevealCredentialUseCase {
	return &RevealCredentialUseCase{
		credentialRepo: credentialRepo,
		userRepo:       userRepo,
		sealer:         sealer,
		logger:         logger,
	}
}

// Execute decrypts one of the user's credentials after re-checking their
// account password.
func (uc *RevealCredentialUseCase) Execute(ctx context.Context, userID, credentialID uint, password string) (*dto.RevealCredentialResponse, error) {
	owner, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to load user", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to reveal credential.")
	}
	if owner == nil || !owner.VerifyPassword(password) {
		uc.logger.Warnw("credential reveal rejected", "user_id", userID, "credential_id", credentialID)
		return nil, credential.ErrInvalidPassword
	}

	c, err := uc.credentialRepo.GetByID(ctx, credentialID)
	if err != nil {
		uc.logger.Errorw("failed to load credential", "credential_id", credentialID, "error", err)
		return nil, errors.NewInternalError("Failed to reveal credential.")
	}
	if c == nil || c.UserID() != userID {
		return nil, credential.ErrCredentialNotFound
	}

	secret, err := uc.open(ctx, c)
	if err != nil {
		return nil, errors.NewInternalError("Failed to reveal credential.")
	}
	return &dto.RevealCredentialResponse{Password: secret}, nil
}

// ExecuteForRequest reveals a credential inside the support channel of the
// request it belongs to.
func (uc *RevealCredentialUseCase) ExecuteForRequest(ctx context.Context, serviceRequestID, credentialID uint) (*dto.RevealedCredential, error) {
	c, err := uc.credentialRepo.GetByID(ctx, credentialID)
	if err != nil {
		uc.logger.Errorw("failed to load credential", "credential_id", credentialID, "error", err)
		return nil, errors.NewInternalError("Failed to reveal credential.")
	}
	if c == nil || c.ServiceRequestID() != serviceRequestID {
		return nil, errCredentialNotForTicket
	}

	secret, err := uc.open(ctx, c)
	if err != nil {
		return nil, errors.NewInternalError("Failed to reveal credential.")
	}
	return &dto.RevealedCredential{ID: c.ID(), Name: c.DisplayName(), Secret: secret}, nil
}

func (uc *RevealCredentialUseCase) open(ctx context.Context, c *credential.Credential) (string, error) {
	secret, err := uc.sealer.Open(c.Ciphertext(), c.IV())
	if err != nil {
		uc.logger.Errorw("failed to decrypt credential", "credential_id", c.ID(), "error", err)
		return "", err
	}
	if err := uc.credentialRepo.TouchAccessed(ctx, c.ID(), biztime.NowUTC()); err != nil {
		uc.logger.Warnw("failed to record credential access", "credential_id", c.ID(), "error", err)
	}
	uc.logger.Infow("credential revealed", "credential_id", c.ID(), "service_request_id", c.ServiceRequestID())
	return secret, nil
}
