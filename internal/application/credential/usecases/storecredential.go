package usecases

import (
	"context"
	"strings"

	"github.com/fixmysite/portal/internal/application/credential/dto"
	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type StoreCredentialUseCase struct {
	credentialRepo credential.Repository
	requestRepo    servicerequest.Repository
	sealer         Sealer
	logger         logger.Interface
}

func NewStoreCredentialUseCase(
	credentialRepo credential.Repository,
	requestRepo servicerequest.Repository,
	sealer Sealer,
	logger logger.Interface,
) *StoreCredentialUseCase {
	return &StoreCredentialUseCase{
		credentialRepo: credentialRepo,
		requestRepo:    requestRepo,
		sealer:         sealer,
		logger:         logger,
	}
}

// Execute stores a secret submitted by the client for one of their requests.
func (uc *StoreCredentialUseCase) Execute(ctx context.Context, userID uint, req dto.CreateCredentialRequest) (*dto.CredentialDTO, error) {
	hasLogin := strings.TrimSpace(req.Username) != "" && req.Password != ""
	hasText := strings.TrimSpace(req.Label) != "" && req.Text != ""
	if !hasLogin && !hasText {
		return nil, credential.ErrMissingSecret
	}

	sr, err := uc.requestRepo.GetByID(ctx, req.ServiceRequestID)
	if err != nil {
		uc.logger.Errorw("failed to load service request", "service_request_id", req.ServiceRequestID, "error", err)
		return nil, errors.NewInternalError("Failed to save credentials.")
	}
	if sr == nil || sr.UserID() != userID {
		return nil, errors.NewNotFoundError("Service request not found or access denied.")
	}

	secret := req.Text
	if secret == "" {
		secret = req.Password
	}

	c, err := uc.store(ctx, req.ServiceRequestID, userID, req.Label, req.Username, secret)
	if err != nil {
		return nil, errors.NewInternalError("Failed to save credentials.")
	}
	out := dto.ToCredentialDTO(c)
	return &out, nil
}

// ExecuteForRequest stores a labelled secret posted from the support channel
// of a ticket. ownerID is the ticket owner.
func (uc *StoreCredentialUseCase) ExecuteForRequest(ctx context.Context, serviceRequestID, ownerID uint, label, secret string) (*dto.CredentialDTO, error) {
	if strings.TrimSpace(label) == "" || secret == "" {
		return nil, credential.ErrMissingSecret
	}
	c, err := uc.store(ctx, serviceRequestID, ownerID, label, "", secret)
	if err != nil {
		return nil, errors.NewInternalError("Failed to store credential. Contact support.")
	}
	out := dto.ToCredentialDTO(c)
	return &out, nil
}

func (uc *StoreCredentialUseCase) store(ctx context.Context, serviceRequestID, userID uint, label, username, secret string) (*credential.Credential, error) {
	ciphertext, iv, err := uc.sealer.Seal(secret)
	if err != nil {
		uc.logger.Errorw("failed to encrypt credential", "service_request_id", serviceRequestID, "error", err)
		return nil, err
	}

	c, err := credential.NewCredential(serviceRequestID, userID, label, username, ciphertext, iv)
	if err != nil {
		uc.logger.Errorw("invalid credential", "service_request_id", serviceRequestID, "error", err)
		return nil, err
	}
	if err := uc.credentialRepo.Create(ctx, c); err != nil {
		uc.logger.Errorw("failed to save credential", "service_request_id", serviceRequestID, "error", err)
		return nil, err
	}

	uc.logger.Infow("credential stored", "credential_id", c.ID(), "service_request_id", serviceRequestID)
	return c, nil
}
