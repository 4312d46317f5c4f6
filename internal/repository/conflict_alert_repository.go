package repository

import (
	"context"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"gorm.io/gorm"
)

// ConflictAlertReader 利益冲突告警只读接口
//
// 告警是组织级队列，由任意合规人员处理，因此查询不按用户过滤。
type ConflictAlertReader interface {
	FindOpen(ctx context.Context, q *SourceQuery) ([]*model.ConflictAlertModel, error)
	CountOpen(ctx context.Context, orgID string) (int64, error)
}

type conflictAlertRepository struct {
	db *gorm.DB
}

// NewConflictAlertRepository 创建告警仓储
func NewConflictAlertRepository(db *gorm.DB) ConflictAlertReader {
	return &conflictAlertRepository{db: db}
}

func (r *conflictAlertRepository) open(ctx context.Context, orgID string) (*gorm.DB, error) {
	query, err := tenantScope(ctx, r.db, &model.ConflictAlertModel{}, orgID)
	if err != nil {
		return nil, err
	}
	return query.Where("status = ?", model.ConflictAlertStatusOpen), nil
}

// FindOpen 告警没有截止日期，日期范围作用于创建时间
func (r *conflictAlertRepository) FindOpen(ctx context.Context, q *SourceQuery) ([]*model.ConflictAlertModel, error) {
	query, err := r.open(ctx, q.OrganizationID)
	if err != nil {
		return nil, err
	}
	query = applyDateRange(query, "created_at", q)

	var alerts []*model.ConflictAlertModel
	err = query.
		Order("created_at DESC").Order("id ASC").
		Limit(q.limit()).
		Find(&alerts).Error
	return alerts, err
}

// CountOpen 统计组织内待处理告警
func (r *conflictAlertRepository) CountOpen(ctx context.Context, orgID string) (int64, error) {
	query, err := r.open(ctx, orgID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = query.Count(&count).Error
	return count, err
}
