package repository

import (
	"context"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"gorm.io/gorm"
)

// CaseReader 案件只读接口
type CaseReader interface {
	// FindOpenAssigned 查找分配给用户且未关闭的案件
	FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.CaseModel, error)
	CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error)
	// FindUnassignedNew 查找未分配的新建案件（可认领）
	FindUnassignedNew(ctx context.Context, orgID string, limit int) ([]*model.CaseModel, error)
	CountUnassignedNew(ctx context.Context, orgID string) (int64, error)
}

// caseRepository 案件仓储实现
type caseRepository struct {
	db *gorm.DB
}

// NewCaseRepository 创建案件仓储
func NewCaseRepository(db *gorm.DB) CaseReader {
	return &caseRepository{db: db}
}

func (r *caseRepository) openAssigned(ctx context.Context, orgID, userID string) (*gorm.DB, error) {
	query, err := tenantScope(ctx, r.db, &model.CaseModel{}, orgID)
	if err != nil {
		return nil, err
	}
	return query.
		Where("assigned_to_id = ?", userID).
		Where("status <> ?", model.CaseStatusClosed), nil
}

func (r *caseRepository) unassignedNew(ctx context.Context, orgID string) (*gorm.DB, error) {
	query, err := tenantScope(ctx, r.db, &model.CaseModel{}, orgID)
	if err != nil {
		return nil, err
	}
	return query.
		Where("assigned_to_id IS NULL").
		Where("status = ?", model.CaseStatusNew), nil
}

// FindOpenAssigned 案件没有截止日期，日期范围作用于创建时间
func (r *caseRepository) FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.CaseModel, error) {
	query, err := r.openAssigned(ctx, q.OrganizationID, q.UserID)
	if err != nil {
		return nil, err
	}
	query = applyDateRange(query, "created_at", q)

	var cases []*model.CaseModel
	err = query.Preload("Category").
		Order("created_at DESC").Order("id ASC").
		Limit(q.limit()).
		Find(&cases).Error
	return cases, err
}

// CountOpenAssigned 统计分配给用户且未关闭的案件
func (r *caseRepository) CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error) {
	query, err := r.openAssigned(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = query.Count(&count).Error
	return count, err
}

// FindUnassignedNew 查找可认领案件
func (r *caseRepository) FindUnassignedNew(ctx context.Context, orgID string, limit int) ([]*model.CaseModel, error) {
	query, err := r.unassignedNew(ctx, orgID)
	if err != nil {
		return nil, err
	}
	var cases []*model.CaseModel
	err = query.Preload("Category").
		Order("created_at ASC").Order("id ASC").
		Limit(clampLimit(limit)).
		Find(&cases).Error
	return cases, err
}

// CountUnassignedNew 统计可认领案件
func (r *caseRepository) CountUnassignedNew(ctx context.Context, orgID string) (int64, error) {
	query, err := r.unassignedNew(ctx, orgID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = query.Count(&count).Error
	return count, err
}
