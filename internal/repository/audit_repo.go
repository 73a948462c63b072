package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/careqhq/careq/internal/domain"
	"github.com/careqhq/careq/internal/service"
)

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) service.AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func (r *auditRepo) List(ctx context.Context, q *service.AuditQuery) ([]*domain.AuditLog, error) {
	tx := r.db.WithContext(ctx).Model(&domain.AuditLog{})

	if q.Action != "" {
		tx = tx.Where("action_type = ?", q.Action)
	}
	if q.Table != "" {
		tx = tx.Where("table_name = ?", q.Table)
	}

	var entries []*domain.AuditLog
	err := tx.
		Order("performed_at DESC").
		Limit(q.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return entries, nil
}
