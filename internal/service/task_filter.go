package service

// ApplyFilters 按类型、优先级、状态过滤。每个非空维度是包含列表。
//
// 类型过滤在数据源层已经做过一次，这里再做一次不影响结果。
func ApplyFilters(tasks []*UnifiedTask, filters *TaskFilters) []*UnifiedTask {
	if filters == nil {
		return tasks
	}

	filtered := make([]*UnifiedTask, 0, len(tasks))
	for _, task := range tasks {
		if !filters.includesType(task.Type) {
			continue
		}
		if len(filters.Priorities) > 0 && !containsPriority(filters.Priorities, task.Priority) {
			continue
		}
		if len(filters.Statuses) > 0 && !containsStatus(filters.Statuses, task.Status) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

func containsPriority(list []TaskPriority, p TaskPriority) bool {
	for _, item := range list {
		if item == p {
			return true
		}
	}
	return false
}

func containsStatus(list []TaskStatus, s TaskStatus) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
