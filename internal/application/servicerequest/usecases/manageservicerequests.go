package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/application/servicerequest/dto"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

const supportListLimit = 10

// ManageServiceRequestsUseCase backs the support team's requests commands.
type ManageServiceRequestsUseCase struct {
	requestRepo servicerequest.Repository
	logger      logger.Interface
}

func NewManageServiceRequestsUseCase(requestRepo servicerequest.Repository, logger logger.Interface) *ManageServiceRequestsUseCase {
	return &ManageServiceRequestsUseCase{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// List returns the newest requests, optionally filtered by status. An empty
// status means all.
func (uc *ManageServiceRequestsUseCase) List(ctx context.Context, status string) ([]*dto.AdminServiceRequestDTO, error) {
	filter := servicerequest.ListFilter{Limit: supportListLimit}
	if status != "" {
		st, err := servicerequest.NewStatus(status)
		if err != nil {
			return nil, servicerequest.ErrInvalidStatus
		}
		filter.Status = &st
	}

	requests, err := uc.requestRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list service requests", "status", status, "error", err)
		return nil, errors.NewInternalError("Failed to fetch service requests.")
	}

	out := make([]*dto.AdminServiceRequestDTO, 0, len(requests))
	for _, sr := range requests {
		out = append(out, dto.ToAdminServiceRequestDTO(sr))
	}
	return out, nil
}

func (uc *ManageServiceRequestsUseCase) Get(ctx context.Context, id uint) (*dto.AdminServiceRequestDTO, error) {
	sr, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to load service request", "service_request_id", id, "error", err)
		return nil, errors.NewInternalError("Failed to fetch service request.")
	}
	if sr == nil {
		return nil, servicerequest.ErrServiceRequestNotFound
	}
	return dto.ToAdminServiceRequestDTO(sr), nil
}

func (uc *ManageServiceRequestsUseCase) UpdateStatus(ctx context.Context, id uint, status string) (*dto.AdminServiceRequestDTO, error) {
	st, err := servicerequest.NewStatus(status)
	if err != nil {
		return nil, servicerequest.ErrInvalidStatus
	}

	sr, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Errorw("failed to load service request", "service_request_id", id, "error", err)
		return nil, errors.NewInternalError("Failed to update service request.")
	}
	if sr == nil {
		return nil, servicerequest.ErrServiceRequestNotFound
	}
	if err := sr.ChangeStatus(st); err != nil {
		return nil, servicerequest.ErrInvalidStatus
	}

	if err := uc.requestRepo.UpdateStatus(ctx, id, st); err != nil {
		uc.logger.Errorw("failed to update service request status", "service_request_id", id, "status", st, "error", err)
		return nil, errors.NewInternalError("Failed to update service request.")
	}

	uc.logger.Infow("service request status updated", "service_request_id", id, "status", st)
	return dto.ToAdminServiceRequestDTO(sr), nil
}
