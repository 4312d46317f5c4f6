package service_test

import (
	"testing"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	tasks := []*service.UnifiedTask{
		{ID: "1", Type: service.TaskTypeCaseAssignment, Priority: service.TaskPriorityHigh, Status: service.TaskStatusPending},
		{ID: "2", Type: service.TaskTypeCaseAssignment, Priority: service.TaskPriorityLow, Status: service.TaskStatusInProgress},
		{ID: "3", Type: service.TaskTypeApprovalRequest, Priority: service.TaskPriorityHigh, Status: service.TaskStatusOverdue},
		{ID: "4", Type: service.TaskTypeRemediationTask, Priority: service.TaskPriorityMedium, Status: service.TaskStatusOverdue},
	}

	assert.Len(t, service.ApplyFilters(tasks, nil), 4)
	assert.Len(t, service.ApplyFilters(tasks, &service.TaskFilters{}), 4)

	// 同一维度内为 OR
	got := service.ApplyFilters(tasks, &service.TaskFilters{
		Priorities: []service.TaskPriority{service.TaskPriorityHigh, service.TaskPriorityMedium},
	})
	assert.Equal(t, []string{"1", "3", "4"}, ids(got))

	// 维度之间为 AND
	got = service.ApplyFilters(tasks, &service.TaskFilters{
		Types:    []service.TaskType{service.TaskTypeCaseAssignment, service.TaskTypeApprovalRequest},
		Statuses: []service.TaskStatus{service.TaskStatusOverdue},
	})
	assert.Equal(t, []string{"3"}, ids(got))
}
