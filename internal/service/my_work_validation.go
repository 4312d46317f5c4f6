package service

import (
	"fmt"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/utils"
)

// normalizeMyTasksParams 校验参数并填充默认值，返回副本，不修改调用方的参数
func normalizeMyTasksParams(params *MyTasksParams, limits MyWorkLimits) (*MyTasksParams, error) {
	if params == nil {
		return nil, invalidQuery("EMPTY_PARAMS", "query parameters are required")
	}
	if err := validateIdentity(params.OrganizationID, params.UserID); err != nil {
		return nil, err
	}

	normalized := *params
	if err := validateFilters(normalized.Filters); err != nil {
		return nil, err
	}

	if normalized.SortBy == "" {
		normalized.SortBy = SortByPriorityDueDate
	}
	if !normalized.SortBy.Valid() {
		return nil, invalidQuery("INVALID_SORT", fmt.Sprintf("unknown sortBy %q", normalized.SortBy))
	}

	limit, err := normalizeLimit(normalized.Limit, limits)
	if err != nil {
		return nil, err
	}
	normalized.Limit = limit

	if normalized.Offset < 0 {
		return nil, invalidQuery("INVALID_OFFSET", "offset cannot be negative")
	}
	return &normalized, nil
}

// normalizeAvailableTasksParams 校验可认领任务参数
func normalizeAvailableTasksParams(params *AvailableTasksParams, limits MyWorkLimits) (*AvailableTasksParams, error) {
	if params == nil {
		return nil, invalidQuery("EMPTY_PARAMS", "query parameters are required")
	}
	if err := validateIdentity(params.OrganizationID, params.UserID); err != nil {
		return nil, err
	}

	normalized := *params
	limit, err := normalizeLimit(normalized.Limit, limits)
	if err != nil {
		return nil, err
	}
	normalized.Limit = limit
	return &normalized, nil
}

func validateFilters(filters *TaskFilters) error {
	if filters == nil {
		return nil
	}
	for _, t := range filters.Types {
		if !t.Valid() {
			return invalidQuery("INVALID_TYPE", fmt.Sprintf("unknown task type %q", t))
		}
	}
	for _, p := range filters.Priorities {
		if !p.Valid() {
			return invalidQuery("INVALID_PRIORITY", fmt.Sprintf("unknown priority %q", p))
		}
	}
	for _, st := range filters.Statuses {
		if !st.Valid() {
			return invalidQuery("INVALID_STATUS", fmt.Sprintf("unknown status %q", st))
		}
	}
	if filters.DueDateStart != nil && filters.DueDateEnd != nil &&
		filters.DueDateStart.After(*filters.DueDateEnd) {
		return invalidQuery("INVALID_DATE_RANGE", "dueDateStart must not be after dueDateEnd")
	}
	return nil
}

// normalizeLimit 0 取默认值，超过上限时截断
func normalizeLimit(limit int, limits MyWorkLimits) (int, error) {
	switch {
	case limit < 0:
		return 0, invalidQuery("INVALID_LIMIT", "limit cannot be negative")
	case limit == 0:
		return limits.DefaultPageSize, nil
	case limit > limits.MaxPageSize:
		return limits.MaxPageSize, nil
	default:
		return limit, nil
	}
}

func validateIdentity(orgID, userID string) error {
	if err := utils.ValidateID("organizationId", orgID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	if err := utils.ValidateID("userId", userID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return nil
}
