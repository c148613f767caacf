package usecases

import (
	"context"
	"fmt"

	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/shared/logger"
)

// Cascade owns every multi-row deletion of tickets and service requests.
// Hard delete, the bulk wipes and the retention purge all go through it so
// the deletion order and transaction boundary live in one place.
type Cascade struct {
	tx             TxRunner
	ticketRepo     ticket.Repository
	messageRepo    ticket.MessageRepository
	credentialRepo credential.Repository
	requestRepo    servicerequest.Repository
	chat           ChatProvider
	cfg            BridgeConfig
	logger         logger.Interface
}

func NewCascade(
	tx TxRunner,
	ticketRepo ticket.Repository,
	messageRepo ticket.MessageRepository,
	credentialRepo credential.Repository,
	requestRepo servicerequest.Repository,
	chat ChatProvider,
	cfg BridgeConfig,
	logger logger.Interface,
) *Cascade {
	return &Cascade{
		tx:             tx,
		ticketRepo:     ticketRepo,
		messageRepo:    messageRepo,
		credentialRepo: credentialRepo,
		requestRepo:    requestRepo,
		chat:           chat,
		cfg:            cfg.withDefaults(),
		logger:         logger,
	}
}

// DeleteTrees removes the given service requests with their credentials and
// every ticket linked to them, plus any extra ticketIDs, together with all
// their messages. It runs as one transaction.
func (c *Cascade) DeleteTrees(ctx context.Context, ticketIDs, serviceRequestIDs []uint) error {
	return c.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		linked, err := c.ticketRepo.ListIDsByServiceRequestIDs(ctx, serviceRequestIDs)
		if err != nil {
			return fmt.Errorf("failed to list linked tickets: %w", err)
		}
		ticketIDs = mergeIDs(ticketIDs, linked)

		if err := c.messageRepo.DeleteByTicketIDs(ctx, ticketIDs); err != nil {
			return fmt.Errorf("failed to delete ticket messages: %w", err)
		}
		if err := c.ticketRepo.DeleteByIDs(ctx, ticketIDs); err != nil {
			return fmt.Errorf("failed to delete tickets: %w", err)
		}
		if err := c.credentialRepo.DeleteByServiceRequestIDs(ctx, serviceRequestIDs); err != nil {
			return fmt.Errorf("failed to delete credentials: %w", err)
		}
		if err := c.requestRepo.DeleteByIDs(ctx, serviceRequestIDs); err != nil {
			return fmt.Errorf("failed to delete service requests: %w", err)
		}
		return nil
	})
}

// DeleteAllTickets removes every message and ticket and puts the affected
// service requests back to new.
func (c *Cascade) DeleteAllTickets(ctx context.Context) (int64, error) {
	var deleted int64
	err := c.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		requestIDs, err := c.ticketRepo.ListServiceRequestIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list service requests with tickets: %w", err)
		}
		if err := c.messageRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to delete ticket messages: %w", err)
		}
		if deleted, err = c.ticketRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to delete tickets: %w", err)
		}
		if err := c.requestRepo.ResetStatus(ctx, requestIDs, servicerequest.StatusNew); err != nil {
			return fmt.Errorf("failed to reset service requests: %w", err)
		}
		return nil
	})
	return deleted, err
}

// DeleteChannel removes one provider channel, logging failure.
func (c *Cascade) DeleteChannel(ctx context.Context, ticketID uint, channelID string) bool {
	if channelID == "" {
		return false
	}
	dctx, cancel := context.WithTimeout(ctx, c.cfg.ProviderTimeout)
	defer cancel()

	if err := c.chat.DeleteChannel(dctx, channelID); err != nil {
		c.logger.Warnw("could not delete provider channel", "ticket_id", ticketID, "channel_id", channelID, "error", err)
		return false
	}
	c.logger.Infow("deleted provider channel", "ticket_id", ticketID, "channel_id", channelID)
	return true
}

// DeleteAllChannels waits briefly for the provider and then removes every
// ticket channel it can. It returns how many were deleted.
func (c *Cascade) DeleteAllChannels(ctx context.Context) int {
	refs, err := c.ticketRepo.ListChannels(ctx)
	if err != nil {
		c.logger.Warnw("provider cleanup skipped, cannot list channels", "error", err)
		return 0
	}
	if len(refs) == 0 {
		return 0
	}
	if !c.chat.WaitReady(ctx, c.cfg.ReadyTimeout) {
		c.logger.Warnw("chat provider not ready, continuing without it", "timeout", c.cfg.ReadyTimeout)
	}

	deleted := 0
	for _, ref := range refs {
		if c.DeleteChannel(ctx, ref.TicketID, ref.ChannelID) {
			deleted++
		}
	}
	return deleted
}

func mergeIDs(a, b []uint) []uint {
	seen := make(map[uint]struct{}, len(a)+len(b))
	out := make([]uint, 0, len(a)+len(b))
	for _, id := range append(append([]uint{}, a...), b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
