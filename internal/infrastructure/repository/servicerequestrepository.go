package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/mappers"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
	"github.com/fixmysite/portal/internal/shared/db"
)

const maxServiceRequestListLimit = 100

type ServiceRequestRepository struct {
	db     *gorm.DB
	mapper mappers.ServiceRequestMapper
}

func NewServiceRequestRepository(db *gorm.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{
		db:     db,
		mapper: mappers.NewServiceRequestMapper(),
	}
}

func (r *ServiceRequestRepository) Create(ctx context.Context, sr *servicerequest.ServiceRequest) error {
	model := r.mapper.ToModel(sr)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}

	return sr.SetID(model.ID)
}

func (r *ServiceRequestRepository) GetByID(ctx context.Context, id uint) (*servicerequest.ServiceRequest, error) {
	var model models.ServiceRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *ServiceRequestRepository) ListByUser(ctx context.Context, userID uint) ([]*servicerequest.ServiceRequest, error) {
	var list []models.ServiceRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *ServiceRequestRepository) List(ctx context.Context, filter servicerequest.ListFilter) ([]*servicerequest.ServiceRequest, error) {
	var list []models.ServiceRequestModel
	tx := db.GetTxFromContext(ctx, r.db)

	query := tx.Model(&models.ServiceRequestModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxServiceRequestListLimit {
		limit = maxServiceRequestListLimit
	}

	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *ServiceRequestRepository) ListIDs(ctx context.Context) ([]uint, error) {
	ids := []uint{}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.ServiceRequestModel{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list service request ids: %w", err)
	}
	return ids, nil
}

func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id uint, status servicerequest.Status) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.ServiceRequestModel{}).
		Where("id = ?", id).
		Update("status", status.String()).Error; err != nil {
		return fmt.Errorf("failed to update service request status: %w", err)
	}
	return nil
}

func (r *ServiceRequestRepository) MarkDiscordNotified(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.ServiceRequestModel{}).
		Where("id = ?", id).
		Update("discord_notified", true).Error; err != nil {
		return fmt.Errorf("failed to mark service request notified: %w", err)
	}
	return nil
}

func (r *ServiceRequestRepository) ResetStatus(ctx context.Context, ids []uint, status servicerequest.Status) error {
	if len(ids) == 0 {
		return nil
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.ServiceRequestModel{}).
		Where("id IN ?", ids).
		Update("status", status.String()).Error; err != nil {
		return fmt.Errorf("failed to reset service request status: %w", err)
	}
	return nil
}

func (r *ServiceRequestRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("id IN ?", ids).Delete(&models.ServiceRequestModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete service requests: %w", err)
	}
	return nil
}

var _ servicerequest.Repository = (*ServiceRequestRepository)(nil)
