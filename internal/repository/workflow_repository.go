package repository

import (
	"context"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"gorm.io/gorm"
)

// WorkflowInstanceReader 审批流程实例只读接口
type WorkflowInstanceReader interface {
	FindActiveAssigned(ctx context.Context, q *SourceQuery) ([]*model.WorkflowInstanceModel, error)
	CountActiveAssigned(ctx context.Context, orgID, userID string) (int64, error)
}

type workflowInstanceRepository struct {
	db *gorm.DB
}

// NewWorkflowInstanceRepository 创建流程实例仓储
func NewWorkflowInstanceRepository(db *gorm.DB) WorkflowInstanceReader {
	return &workflowInstanceRepository{db: db}
}

func (r *workflowInstanceRepository) activeAssigned(ctx context.Context, orgID, userID string) (*gorm.DB, error) {
	query, err := tenantScope(ctx, r.db, &model.WorkflowInstanceModel{}, orgID)
	if err != nil {
		return nil, err
	}
	return query.
		Where("current_assignee_id = ?", userID).
		Where("status = ?", model.WorkflowStatusActive), nil
}

// FindActiveAssigned 查找当前步骤由用户审批的运行中实例
func (r *workflowInstanceRepository) FindActiveAssigned(ctx context.Context, q *SourceQuery) ([]*model.WorkflowInstanceModel, error) {
	query, err := r.activeAssigned(ctx, q.OrganizationID, q.UserID)
	if err != nil {
		return nil, err
	}
	query = applyDateRange(query, "due_date", q)

	var instances []*model.WorkflowInstanceModel
	err = orderByDueDate(query.Preload("Template")).
		Limit(q.limit()).
		Find(&instances).Error
	return instances, err
}

// CountActiveAssigned 统计用户待审批的流程实例
func (r *workflowInstanceRepository) CountActiveAssigned(ctx context.Context, orgID, userID string) (int64, error) {
	query, err := r.activeAssigned(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = query.Count(&count).Error
	return count, err
}
