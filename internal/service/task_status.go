package service

import (
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
)

// DetermineTaskStatus 截止日期早于 now 时为 OVERDUE（优先于进行中标记），
// 否则根据进行中标记返回 IN_PROGRESS 或 PENDING
func DetermineTaskStatus(dueDate *time.Time, inProgress bool, now time.Time) TaskStatus {
	if isPastDue(dueDate, now) {
		return TaskStatusOverdue
	}
	if inProgress {
		return TaskStatusInProgress
	}
	return TaskStatusPending
}

// CampaignAssignmentStatus 活动应答：超期且未完成即为 OVERDUE，不看分配状态
func CampaignAssignmentStatus(dueDate *time.Time, assignmentStatus string, now time.Time) TaskStatus {
	if isPastDue(dueDate, now) && assignmentStatus != model.CampaignAssignmentStatusCompleted {
		return TaskStatusOverdue
	}
	if assignmentStatus == model.CampaignAssignmentStatusInProgress {
		return TaskStatusInProgress
	}
	return TaskStatusPending
}

func isPastDue(dueDate *time.Time, now time.Time) bool {
	return dueDate != nil && dueDate.Before(now)
}
