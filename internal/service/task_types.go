package service

import (
	"time"
)

// TaskType 统一任务类型，决定由哪个数据源和转换函数产生
type TaskType string

const (
	TaskTypeCaseAssignment    TaskType = "CASE_ASSIGNMENT"
	TaskTypeInvestigationStep TaskType = "INVESTIGATION_STEP"
	TaskTypeRemediationTask   TaskType = "REMEDIATION_TASK"
	TaskTypeDisclosureReview  TaskType = "DISCLOSURE_REVIEW"
	TaskTypeCampaignResponse  TaskType = "CAMPAIGN_RESPONSE"
	TaskTypeApprovalRequest   TaskType = "APPROVAL_REQUEST"
	TaskTypeProjectTask       TaskType = "PROJECT_TASK"
)

// AllTaskTypes 全部任务类型，顺序固定
var AllTaskTypes = []TaskType{
	TaskTypeCaseAssignment,
	TaskTypeInvestigationStep,
	TaskTypeRemediationTask,
	TaskTypeDisclosureReview,
	TaskTypeCampaignResponse,
	TaskTypeApprovalRequest,
	TaskTypeProjectTask,
}

// Valid 是否为已知类型
func (t TaskType) Valid() bool {
	for _, known := range AllTaskTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TaskPriority 归一化后的优先级
type TaskPriority string

const (
	TaskPriorityCritical TaskPriority = "CRITICAL"
	TaskPriorityHigh     TaskPriority = "HIGH"
	TaskPriorityMedium   TaskPriority = "MEDIUM"
	TaskPriorityLow      TaskPriority = "LOW"
)

// Weight 排序权重，越大越紧急
func (p TaskPriority) Weight() int {
	switch p {
	case TaskPriorityCritical:
		return 4
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid 是否为已知优先级
func (p TaskPriority) Valid() bool {
	return p.Weight() > 0
}

// TaskStatus 统一任务状态，总是推导得出，不直接使用数据源的状态
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusOverdue    TaskStatus = "OVERDUE"
)

// Valid 是否为已知状态
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusOverdue:
		return true
	}
	return false
}

// SortBy 排序策略
type SortBy string

const (
	SortByPriorityDueDate SortBy = "priority_due_date"
	SortByDueDate         SortBy = "due_date"
	SortByCreatedAt       SortBy = "created_at"
)

// Valid 是否为已知排序策略
func (s SortBy) Valid() bool {
	switch s {
	case SortByPriorityDueDate, SortByDueDate, SortByCreatedAt:
		return true
	}
	return false
}

// UnifiedTask 统一任务，每次请求从数据源实时构造，不持久化
type UnifiedTask struct {
	ID             string                 `json:"id"` // {type}-{sourceId}
	Type           TaskType               `json:"type"`
	EntityType     string                 `json:"entityType"`
	EntityID       string                 `json:"entityId"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	URL            string                 `json:"url"`
	DueDate        *time.Time             `json:"dueDate"`
	Priority       TaskPriority           `json:"priority"`
	Status         TaskStatus             `json:"status"`
	AssignedAt     time.Time              `json:"assignedAt"`
	AssigneeID     string                 `json:"assigneeId,omitempty"` // 组织级任务为空
	CreatedAt      time.Time              `json:"createdAt"`
	Metadata       map[string]interface{} `json:"metadata"`
	OrganizationID string                 `json:"organizationId"`
}

// TaskFilters 任务过滤条件，同一维度内为 OR，维度之间为 AND
type TaskFilters struct {
	Types        []TaskType
	Priorities   []TaskPriority
	Statuses     []TaskStatus
	DueDateStart *time.Time
	DueDateEnd   *time.Time
}

// includesType 类型过滤为空时包含所有类型
func (f *TaskFilters) includesType(t TaskType) bool {
	if f == nil || len(f.Types) == 0 {
		return true
	}
	for _, want := range f.Types {
		if want == t {
			return true
		}
	}
	return false
}

// MyTasksParams 我的任务查询参数
type MyTasksParams struct {
	OrganizationID string
	UserID         string
	Filters        *TaskFilters
	SortBy         SortBy
	Limit          int
	Offset         int
}

// MyTasksResult 我的任务查询结果
type MyTasksResult struct {
	Tasks   []*UnifiedTask `json:"tasks"`
	Total   int64          `json:"total"`
	HasMore bool           `json:"hasMore"`
}

// AvailableTasksParams 可认领任务查询参数
type AvailableTasksParams struct {
	OrganizationID string
	UserID         string
	UserRole       string
	UserRegion     string
	Limit          int
}

// AvailableTasksResult 可认领任务查询结果
type AvailableTasksResult struct {
	Tasks []*UnifiedTask `json:"tasks"`
	Total int64          `json:"total"`
}

// TaskCountsByType 按类型统计的任务数，总是包含全部类型
type TaskCountsByType map[TaskType]int64

func newTaskCounts() TaskCountsByType {
	counts := make(TaskCountsByType, len(AllTaskTypes))
	for _, t := range AllTaskTypes {
		counts[t] = 0
	}
	return counts
}

// Total 全部类型合计
func (c TaskCountsByType) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}
