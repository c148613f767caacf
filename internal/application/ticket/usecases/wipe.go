package usecases

import (
	"context"

	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/errors"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type WipeResult struct {
	Deleted         int64
	ChannelsDeleted int
}

type WipeTicketsUseCase struct {
	cascade   *Cascade
	publisher Publisher
	logger    logger.Interface
}

func NewWipeTicketsUseCase(cascade *Cascade, publisher Publisher, logger logger.Interface) *WipeTicketsUseCase {
	return &WipeTicketsUseCase{
		cascade:   cascade,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute deletes every ticket channel (best effort) and then every ticket and
// message. Service requests survive with status reset to new.
func (uc *WipeTicketsUseCase) Execute(ctx context.Context) (*WipeResult, error) {
	channels := uc.cascade.DeleteAllChannels(ctx)

	deleted, err := uc.cascade.DeleteAllTickets(ctx)
	if err != nil {
		uc.logger.Errorw("failed to wipe tickets", "error", err)
		return nil, errors.NewInternalError("failed to wipe tickets")
	}

	uc.publisher.PublishGlobal(ticket.EventTicketsWiped, ticket.WipedPayload{Count: deleted})
	uc.logger.Infow("all tickets and messages wiped", "tickets", deleted, "channels_deleted", channels)
	return &WipeResult{Deleted: deleted, ChannelsDeleted: channels}, nil
}

type WipeServiceRequestsUseCase struct {
	cascade     *Cascade
	requestRepo servicerequest.Repository
	publisher   Publisher
	logger      logger.Interface
}

func NewWipeServiceRequestsUseCase(
	cascade *Cascade,
	requestRepo servicerequest.Repository,
	publisher Publisher,
	logger logger.Interface,
) *WipeServiceRequestsUseCase {
	return &WipeServiceRequestsUseCase{
		cascade:     cascade,
		requestRepo: requestRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute deletes every service request with its tickets, messages and
// credentials. An empty table is a successful no-op.
func (uc *WipeServiceRequestsUseCase) Execute(ctx context.Context) (*WipeResult, error) {
	channels := uc.cascade.DeleteAllChannels(ctx)

	ids, err := uc.requestRepo.ListIDs(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list service requests", "error", err)
		return nil, errors.NewInternalError("failed to wipe service requests")
	}

	if len(ids) > 0 {
		if err := uc.cascade.DeleteTrees(ctx, nil, ids); err != nil {
			uc.logger.Errorw("failed to wipe service requests", "error", err)
			return nil, errors.NewInternalError("failed to wipe service requests")
		}
	}

	uc.publisher.PublishGlobal(ticket.EventServiceRequestsWiped, ticket.WipedPayload{Count: int64(len(ids))})
	uc.logger.Infow("all service requests wiped", "service_requests", len(ids), "channels_deleted", channels)
	return &WipeResult{Deleted: int64(len(ids)), ChannelsDeleted: channels}, nil
}
