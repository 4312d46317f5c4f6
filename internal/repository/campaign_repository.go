package repository

import (
	"context"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"gorm.io/gorm"
)

// CampaignAssignmentReader 活动分配只读接口
type CampaignAssignmentReader interface {
	FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.CampaignAssignmentModel, error)
	CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error)
}

type campaignAssignmentRepository struct {
	db *gorm.DB
}

// NewCampaignAssignmentRepository 创建活动分配仓储
func NewCampaignAssignmentRepository(db *gorm.DB) CampaignAssignmentReader {
	return &campaignAssignmentRepository{db: db}
}

func (r *campaignAssignmentRepository) openAssigned(ctx context.Context, orgID, userID string) (*gorm.DB, error) {
	query, err := tenantScope(ctx, r.db, &model.CampaignAssignmentModel{}, orgID)
	if err != nil {
		return nil, err
	}
	return query.
		Where("employee_id = ?", userID).
		Where("status NOT IN ?", []string{
			model.CampaignAssignmentStatusCompleted,
			model.CampaignAssignmentStatusSkipped,
		}), nil
}

// FindOpenAssigned 查找用户未完成的活动应答
func (r *campaignAssignmentRepository) FindOpenAssigned(ctx context.Context, q *SourceQuery) ([]*model.CampaignAssignmentModel, error) {
	query, err := r.openAssigned(ctx, q.OrganizationID, q.UserID)
	if err != nil {
		return nil, err
	}
	query = applyDateRange(query, "due_date", q)

	var assignments []*model.CampaignAssignmentModel
	err = orderByDueDate(query.Preload("Campaign")).
		Limit(q.limit()).
		Find(&assignments).Error
	return assignments, err
}

// CountOpenAssigned 统计用户未完成的活动应答
func (r *campaignAssignmentRepository) CountOpenAssigned(ctx context.Context, orgID, userID string) (int64, error) {
	query, err := r.openAssigned(ctx, orgID, userID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = query.Count(&count).Error
	return count, err
}
