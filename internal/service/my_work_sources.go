package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/repository"
)

// terminalAware 能判断自身是否处于终态的源记录
type terminalAware interface {
	IsTerminal() bool
}

// toTasks 转换一批源记录。读取层已排除终态，这里再次检查，出现即视为数据源故障。
func toTasks[T terminalAware](records []T, convert func(T) *UnifiedTask) ([]*UnifiedTask, error) {
	tasks := make([]*UnifiedTask, 0, len(records))
	for _, record := range records {
		task := convert(record)
		if record.IsTerminal() {
			return nil, fmt.Errorf("%w: %s %s", ErrTerminalStateLeak, task.EntityType, task.EntityID)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// buildFetchers 按固定顺序注册已配置的数据源
func (s *MyWorkAggregator) buildFetchers() []sourceFetcher {
	var fetchers []sourceFetcher

	if r := s.sources.Cases; r != nil {
		fetchers = append(fetchers, sourceFetcher{
			taskType: TaskTypeCaseAssignment,
			name:     "case",
			fetch: func(ctx context.Context, q *repository.SourceQuery, now time.Time) ([]*UnifiedTask, error) {
				records, err := r.FindOpenAssigned(ctx, q)
				if err != nil {
					return nil, err
				}
				return toTasks(records, func(c *model.CaseModel) *UnifiedTask {
					return CaseToTask(c, q.OrganizationID, now)
				})
			},
			count: r.CountOpenAssigned,
		})
	}

	if r := s.sources.Investigations; r != nil {
		fetchers = append(fetchers, sourceFetcher{
			taskType: TaskTypeInvestigationStep,
			name:     "investigation",
			fetch: func(ctx context.Context, q *repository.SourceQuery, now time.Time) ([]*UnifiedTask, error) {
				records, err := r.FindOpenAssigned(ctx, q)
				if err != nil {
					return nil, err
				}
				return toTasks(records, func(inv *model.InvestigationModel) *UnifiedTask {
					return InvestigationToTask(inv, q.OrganizationID, now)
				})
			},
			count: r.CountOpenAssigned,
		})
	}

	if r := s.sources.Remediation; r != nil {
		fetchers = append(fetchers, sourceFetcher{
			taskType: TaskTypeRemediationTask,
			name:     "remediation",
			fetch: func(ctx context.Context, q *repository.SourceQuery, now time.Time) ([]*UnifiedTask, error) {
				records, err := r.FindOpenAssigned(ctx, q)
				if err != nil {
					return nil, err
				}
				return toTasks(records, func(step *model.RemediationStepModel) *UnifiedTask {
					return RemediationStepToTask(step, q.OrganizationID, now)
				})
			},
			count: r.CountOpenAssigned,
		})
	}

	// 冲突告警是组织级队列，不按用户过滤
	if r := s.sources.ConflictAlerts; r != nil {
		fetchers = append(fetchers, sourceFetcher{
			taskType: TaskTypeDisclosureReview,
			name:     "disclosure_review",
			fetch: func(ctx context.Context, q *repository.SourceQuery, _ time.Time) ([]*UnifiedTask, error) {
				records, err := r.FindOpen(ctx, q)
				if err != nil {
					return nil, err
				}
				return toTasks(records, func(alert *model.ConflictAlertModel) *UnifiedTask {
					return ConflictAlertToTask(alert, q.OrganizationID)
				})
			},
			count: func(ctx context.Context, orgID, _ string) (int64, error) {
				return r.CountOpen(ctx, orgID)
			},
		})
	}

	if r := s.sources.Campaigns; r != nil {
		fetchers = append(fetchers, sourceFetcher{
			taskType: TaskTypeCampaignResponse,
			name:     "campaign_response",
			fetch: func(ctx context.Context, q *repository.SourceQuery, now time.Time) ([]*UnifiedTask, error) {
				records, err := r.FindOpenAssigned(ctx, q)
				if err != nil {
					return nil, err
				}
				return toTasks(records, func(a *model.CampaignAssignmentModel) *UnifiedTask {
					return CampaignAssignmentToTask(a, q.OrganizationID, now)
				})
			},
			count: r.CountOpenAssigned,
		})
	}

	if r := s.sources.Workflows; r != nil {
		fetchers = append(fetchers, sourceFetcher{
			taskType: TaskTypeApprovalRequest,
			name:     "approval",
			fetch: func(ctx context.Context, q *repository.SourceQuery, now time.Time) ([]*UnifiedTask, error) {
				records, err := r.FindActiveAssigned(ctx, q)
				if err != nil {
					return nil, err
				}
				return toTasks(records, func(wi *model.WorkflowInstanceModel) *UnifiedTask {
					return WorkflowInstanceToTask(wi, q.OrganizationID, now)
				})
			},
			count: r.CountActiveAssigned,
		})
	}

	return fetchers
}
