package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/domain/ticket"
	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/mappers"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
	"github.com/fixmysite/portal/internal/shared/db"
	"github.com/fixmysite/portal/internal/shared/logger"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewTicketRepository(db *gorm.DB, logger logger.Interface) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return t.SetID(model.ID)
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) GetByChannelID(ctx context.Context, channelID string) (*ticket.Ticket, error) {
	if channelID == "" {
		return nil, nil
	}

	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("discord_channel_id = ?", channelID).
		Order("id DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket by channel: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) ListActiveByServiceRequestIDs(ctx context.Context, serviceRequestIDs []uint) ([]*ticket.Ticket, error) {
	if len(serviceRequestIDs) == 0 {
		return []*ticket.Ticket{}, nil
	}

	var list []models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("service_request_id IN ? AND deleted = ?", serviceRequestIDs, false).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets by service request: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *TicketRepository) ListIDsByServiceRequestIDs(ctx context.Context, serviceRequestIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(serviceRequestIDs) == 0 {
		return ids, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.TicketModel{}).
		Where("service_request_id IN ?", serviceRequestIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket ids: %w", err)
	}
	return ids, nil
}

func (r *TicketRepository) ListSoftDeletedBefore(ctx context.Context, cutoff time.Time) ([]*ticket.Ticket, error) {
	var list []models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("deleted = ? AND deleted_at IS NOT NULL AND deleted_at < ?", true, cutoff).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list soft-deleted tickets: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *TicketRepository) ListChannels(ctx context.Context) ([]ticket.ChannelRef, error) {
	var rows []struct {
		ID               uint
		DiscordChannelID string
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Model(&models.TicketModel{}).
		Select("id, discord_channel_id").
		Where("discord_channel_id IS NOT NULL AND discord_channel_id <> ''").
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket channels: %w", err)
	}

	refs := make([]ticket.ChannelRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, ticket.ChannelRef{TicketID: row.ID, ChannelID: row.DiscordChannelID})
	}
	return refs, nil
}

func (r *TicketRepository) ListServiceRequestIDs(ctx context.Context) ([]uint, error) {
	ids := []uint{}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Model(&models.TicketModel{}).
		Distinct("service_request_id").
		Pluck("service_request_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket service requests: %w", err)
	}
	return ids, nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id uint, status vo.TicketStatus) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", id).
		Update("status", status.String()).Error; err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	return nil
}

func (r *TicketRepository) SetChannelID(ctx context.Context, id uint, channelID string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", id).
		Update("discord_channel_id", channelID).Error; err != nil {
		return fmt.Errorf("failed to set ticket channel: %w", err)
	}
	return nil
}

func (r *TicketRepository) MarkDeleted(ctx context.Context, id uint, at time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.TicketModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"deleted": true, "deleted_at": at}).Error; err != nil {
		return fmt.Errorf("failed to mark ticket deleted: %w", err)
	}
	return nil
}

// AdvanceReadCursor runs as two conditional updates so concurrent
// acknowledgements can only move the cursor forward.
func (r *TicketRepository) AdvanceReadCursor(ctx context.Context, id uint, lastMessageID uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.TicketModel{}).
			Where("id = ? AND client_last_read_message_id < ?", id, lastMessageID).
			Update("client_last_read_message_id", lastMessageID).Error; err != nil {
			return fmt.Errorf("failed to advance read cursor: %w", err)
		}

		if err := tx.
			Model(&models.TicketModel{}).
			Where("id = ? AND notified_unread_message_id IS NOT NULL AND notified_unread_message_id <= client_last_read_message_id", id).
			Update("notified_unread_message_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear notified marker: %w", err)
		}
		return nil
	})
}

// ClaimUnreadNotification is a compare-and-set on the notified marker. Of any
// number of concurrent callers for the same unread batch, one wins.
func (r *TicketRepository) ClaimUnreadNotification(ctx context.Context, id uint, messageID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND client_last_read_message_id < ?", id, messageID).
		Where("(notified_unread_message_id IS NULL OR notified_unread_message_id <= client_last_read_message_id)").
		Update("notified_unread_message_id", messageID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim unread notification: %w", result.Error)
	}

	claimed := result.RowsAffected == 1
	if claimed {
		r.logger.Debugw("unread notification claimed", "ticket_id", id, "message_id", messageID)
	}
	return claimed, nil
}

func (r *TicketRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("id IN ?", ids).Delete(&models.TicketModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete tickets: %w", err)
	}
	return nil
}

func (r *TicketRepository) DeleteAll(ctx context.Context) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Where("1 = 1").Delete(&models.TicketModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete all tickets: %w", result.Error)
	}
	return result.RowsAffected, nil
}

var _ ticket.Repository = (*TicketRepository)(nil)
