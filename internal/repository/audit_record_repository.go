package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lexpay/internal/model"
)

// AuditRecordRepository defines audit record persistence operations.
type AuditRecordRepository interface {
	Create(ctx context.Context, record *model.AuditRecord) error
	Update(ctx context.Context, record *model.AuditRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AuditRecord, error)
	FindByEntityID(ctx context.Context, entityID uuid.UUID) ([]model.AuditRecord, error)
	ExistsByEntityAndEvent(ctx context.Context, entityID uuid.UUID, eventType model.AuditEventType) (bool, error)
	FindRetryable(ctx context.Context, maxRetries int) ([]model.AuditRecord, error)
}

type auditRecordRepository struct {
	db *gorm.DB
}

// NewAuditRecordRepository creates a new audit record repository.
func NewAuditRecordRepository(db *gorm.DB) AuditRecordRepository {
	return &auditRecordRepository{db: db}
}

// Create creates a new audit record.
func (r *auditRecordRepository) Create(ctx context.Context, record *model.AuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update updates an existing audit record.
func (r *auditRecordRepository) Update(ctx context.Context, record *model.AuditRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// FindByID finds an audit record by ID.
func (r *auditRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AuditRecord, error) {
	var record model.AuditRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByEntityID returns the full audit trail for an entity, oldest first.
func (r *auditRecordRepository) FindByEntityID(ctx context.Context, entityID uuid.UUID) ([]model.AuditRecord, error) {
	var records []model.AuditRecord
	if err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ExistsByEntityAndEvent reports whether an event of the given type has been
// recorded for an entity.
func (r *auditRecordRepository) ExistsByEntityAndEvent(ctx context.Context, entityID uuid.UUID, eventType model.AuditEventType) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.AuditRecord{}).
		Where("entity_id = ? AND event_type = ?", entityID, eventType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindRetryable returns FAILED records still below the retry ceiling,
// oldest first so the longest-stuck events are retried first.
func (r *auditRecordRepository) FindRetryable(ctx context.Context, maxRetries int) ([]model.AuditRecord, error) {
	var records []model.AuditRecord
	if err := r.db.WithContext(ctx).
		Where("status = ? AND retry_count < ?", model.AuditStatusFailed, maxRetries).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
