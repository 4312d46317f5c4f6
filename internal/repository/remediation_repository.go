package repository

import (
	"context"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"gorm.io/gorm"
)

// RemediationStepReader 整改步骤只读接口
type RemediationStepReader interface {
	FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.RemediationStepModel, error)
	CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error)
}

type remediationStepRepository struct {
	db *gorm.DB
}

// NewRemediationStepRepository 创建整改步骤仓储
func NewRemediationStepRepository(db *gorm.DB) RemediationStepReader {
	return &remediationStepRepository{db: db}
}

func (r *remediationStepRepository) openAssigned(ctx context.Context, orgID, userID string) (*gorm.DB, error) {
	query, err := tenantScope(ctx, r.db, &model.RemediationStepModel{}, orgID)
	if err != nil {
		return nil, err
	}
	return query.
		Where("assignee_user_id = ?", userID).
		Where("status NOT IN ?", []string{
			model.RemediationStepStatusCompleted,
			model.RemediationStepStatusSkipped,
		}), nil
}

// FindOpenAssigned 查找分配给用户且未完成、未跳过的整改步骤
func (r *remediationStepRepository) FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.RemediationStepModel, error) {
	query, err := r.openAssigned(ctx, q.OrganizationID, q.UserID)
	if err != nil {
		return nil, err
	}
	query = applyDateRange(query, "due_date", q)

	var steps []*model.RemediationStepModel
	err = orderByDueDate(query.Preload("Plan").Preload("Plan.Case")).
		Limit(q.limit()).
		Find(&steps).Error
	return steps, err
}

// CountOpenAssigned 统计用户未完成的整改步骤
func (r *remediationStepRepository) CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error) {
	query, err := r.openAssigned(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = query.Count(&count).Error
	return count, err
}
