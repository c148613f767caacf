package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/application/servicerequest/dto"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type ListServiceRequestsUseCase struct {
	requestRepo servicerequest.Repository
	ticketRepo  ticket.Repository
	logger      logger.Interface
}

func NewListServiceRequestsUseCase(requestRepo servicerequest.Repository, ticketRepo ticket.Repository, logger logger.Interface) *ListServiceRequestsUseCase {
	return &ListServiceRequestsUseCase{
		requestRepo: requestRepo,
		ticketRepo:  ticketRepo,
		logger:      logger,
	}
}

// Execute returns the user's requests newest first with their live ticket.
func (uc *ListServiceRequestsUseCase) Execute(ctx context.Context, userID uint) ([]dto.ServiceRequestDTO, error) {
	requests, err := uc.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list service requests", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to fetch service requests.")
	}
	if len(requests) == 0 {
		return []dto.ServiceRequestDTO{}, nil
	}

	ids := make([]uint, 0, len(requests))
	for _, sr := range requests {
		ids = append(ids, sr.ID())
	}
	tickets, err := uc.ticketRepo.ListActiveByServiceRequestIDs(ctx, ids)
	if err != nil {
		uc.logger.Errorw("failed to list tickets for service requests", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to fetch service requests.")
	}
	byRequest := make(map[uint]*ticket.Ticket, len(tickets))
	for _, t := range tickets {
		if _, seen := byRequest[t.ServiceRequestID()]; !seen {
			byRequest[t.ServiceRequestID()] = t
		}
	}

	out := make([]dto.ServiceRequestDTO, 0, len(requests))
	for _, sr := range requests {
		out = append(out, dto.ToServiceRequestDTO(sr, byRequest[sr.ID()]))
	}
	return out, nil
}

// ExecuteActive lists the user's requests that are not resolved yet.
func (uc *ListServiceRequestsUseCase) ExecuteActive(ctx context.Context, userID uint) ([]dto.ActiveServiceRequestDTO, error) {
	requests, err := uc.requestRepo.ListByUser(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to list service requests", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to fetch active service requests.")
	}

	out := make([]dto.ActiveServiceRequestDTO, 0, len(requests))
	for _, sr := range requests {
		if sr.Status() == servicerequest.StatusResolved {
			continue
		}
		out = append(out, dto.ToActiveServiceRequestDTO(sr))
	}
	return out, nil
}
