package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/application/credential/dto"
	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type ListCredentialsUseCase struct {
	credentialRepo credential.Repository
	logger         logger.Interface
}

func NewListCredentialsUseCase(credentialRepo credential.Repository, logger logger.Interface) *ListCredentialsUseCase {
	return &ListCredentialsUseCase{
		credentialRepo: credentialRepo,
		logger:         logger,
	}
}

func (uc *ListCredentialsUseCase) Execute(ctx context.Context, userID uint) ([]dto.CredentialDTO, error) {
	list, err := uc.credentialRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list credentials", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to fetch credentials.")
	}
	return dto.ToCredentialDTOs(list), nil
}

func (uc *ListCredentialsUseCase) ExecuteForRequest(ctx context.Context, serviceRequestID uint) ([]dto.CredentialDTO, error) {
	list, err := uc.credentialRepo.ListByServiceRequest(ctx, serviceRequestID)
	if err != nil {
		uc.logger.Errorw("failed to list credentials", "service_request_id", serviceRequestID, "error", err)
		return nil, errors.NewInternalError("Failed to list credentials.")
	}
	return dto.ToCredentialDTOs(list), nil
}
