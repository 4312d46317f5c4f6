package repository

import (
	"context"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"gorm.io/gorm"
)

// InvestigationReader 调查只读接口
type InvestigationReader interface {
	FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.InvestigationModel, error)
	CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error)
}

type investigationRepository struct {
	db *gorm.DB
}

// NewInvestigationRepository 创建调查仓储
func NewInvestigationRepository(db *gorm.DB) InvestigationReader {
	return &investigationRepository{db: db}
}

func (r *investigationRepository) openAssigned(ctx context.Context, orgID, userID string) (*gorm.DB, error) {
	query, err := tenantScope(ctx, r.db, &model.InvestigationModel{}, orgID)
	if err != nil {
		return nil, err
	}
	return query.
		Where("primary_investigator_id = ?", userID).
		Where("status <> ?", model.InvestigationStatusClosed), nil
}

// FindOpenAssigned 查找用户作为主调查人且未关闭的调查
func (r *investigationRepository) FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.InvestigationModel, error) {
	query, err := r.openAssigned(ctx, q.OrganizationID, q.UserID)
	if err != nil {
		return nil, err
	}
	query = applyDateRange(query, "due_date", q)

	var investigations []*model.InvestigationModel
	err = orderByDueDate(query.Preload("Case")).
		Limit(q.limit()).
		Find(&investigations).Error
	return investigations, err
}

// CountOpenAssigned 统计用户未关闭的调查
func (r *investigationRepository) CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error) {
	query, err := r.openAssigned(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = query.Count(&count).Error
	return count, err
}
