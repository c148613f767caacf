package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/domain/ticket"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/mappers"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
	"github.com/fixmysite/portal/internal/shared/db"
)

type TicketMessageRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketMessageRepository(db *gorm.DB) *TicketMessageRepository {
	return &TicketMessageRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketMessageRepository) Create(ctx context.Context, m *ticket.Message) error {
	model := r.mapper.MessageToModel(m)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket message: %w", err)
	}

	return m.SetID(model.ID)
}

func (r *TicketMessageRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.Message, error) {
	var list []models.TicketMessageModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket messages: %w", err)
	}

	return r.mapper.MessagesToDomain(list)
}

func (r *TicketMessageRepository) DeleteByTicketIDs(ctx context.Context, ticketIDs []uint) error {
	if len(ticketIDs) == 0 {
		return nil
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("ticket_id IN ?", ticketIDs).Delete(&models.TicketMessageModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete ticket messages: %w", err)
	}
	return nil
}

func (r *TicketMessageRepository) DeleteAll(ctx context.Context) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("1 = 1").Delete(&models.TicketMessageModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete all ticket messages: %w", err)
	}
	return nil
}

var _ ticket.MessageRepository = (*TicketMessageRepository)(nil)
