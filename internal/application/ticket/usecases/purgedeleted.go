package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/biztime"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type PurgeDeletedTicketsUseCase struct {
	ticketRepo ticket.Repository
	cascade    *Cascade
	retention  time.Duration
	logger     logger.Interface
}

func NewPurgeDeletedTicketsUseCase(
	ticketRepo ticket.Repository,
	cascade *Cascade,
	retentionDays int,
	logger logger.Interface,
) *PurgeDeletedTicketsUseCase {
	return &PurgeDeletedTicketsUseCase{
		ticketRepo: ticketRepo,
		cascade:    cascade,
		retention:  time.Duration(retentionDays) * 24 * time.Hour,
		logger:     logger,
	}
}

// Execute hard-deletes tickets soft-deleted before the retention window. One
// failing ticket does not stop the rest.
func (uc *PurgeDeletedTicketsUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := biztime.NowUTC().Add(-uc.retention)
	expired, err := uc.ticketRepo.ListSoftDeletedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired tickets: %w", err)
	}

	purged := 0
	for _, t := range expired {
		uc.cascade.DeleteChannel(ctx, t.ID(), t.ChannelID())

		var requestIDs []uint
		if t.ServiceRequestID() != 0 {
			requestIDs = []uint{t.ServiceRequestID()}
		}
		if err := uc.cascade.DeleteTrees(ctx, []uint{t.ID()}, requestIDs); err != nil {
			uc.logger.Errorw("failed to purge ticket", "ticket_id", t.ID(), "error", err)
			continue
		}
		purged++
	}

	if purged > 0 {
		uc.logger.Infow("purged soft-deleted tickets", "count", purged, "cutoff", cutoff)
	}
	return purged, nil
}
