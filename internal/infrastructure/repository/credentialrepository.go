package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/mappers"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
	"github.com/fixmysite/portal/internal/shared/db"
)

type CredentialRepository struct {
	db     *gorm.DB
	mapper mappers.CredentialMapper
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{
		db:     db,
		mapper: mappers.NewCredentialMapper(),
	}
}

func (r *CredentialRepository) Create(ctx context.Context, c *credential.Credential) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	return c.SetID(model.ID)
}

func (r *CredentialRepository) GetByID(ctx context.Context, id uint) (*credential.Credential, error) {
	var model models.CredentialModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *CredentialRepository) ListByUser(ctx context.Context, userID uint) ([]*credential.Credential, error) {
	var list []models.CredentialModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *CredentialRepository) ListByServiceRequest(ctx context.Context, serviceRequestID uint) ([]*credential.Credential, error) {
	var list []models.CredentialModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("service_request_id = ?", serviceRequestID).
		Order("created_at DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *CredentialRepository) TouchAccessed(ctx context.Context, id uint, at time.Time) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Model(&models.CredentialModel{}).
		Where("id = ?", id).
		Update("last_accessed_at", at).Error; err != nil {
		return fmt.Errorf("failed to update credential access time: %w", err)
	}
	return nil
}

func (r *CredentialRepository) DeleteOwned(ctx context.Context, id, userID uint) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.CredentialModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete credential: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *CredentialRepository) DeleteByServiceRequestIDs(ctx context.Context, serviceRequestIDs []uint) error {
	if len(serviceRequestIDs) == 0 {
		return nil
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.
		Where("service_request_id IN ?", serviceRequestIDs).
		Delete(&models.CredentialModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

var _ credential.Repository = (*CredentialRepository)(nil)
