package service

import (
	"math"
	"sort"
	"time"
)

// SortTasks 按排序策略原地排序，未知策略按 priority_due_date 处理
func SortTasks(tasks []*UnifiedTask, sortBy SortBy, now time.Time) {
	var less func(a, b *UnifiedTask) bool
	switch sortBy {
	case SortByDueDate:
		less = lessByDueDate
	case SortByCreatedAt:
		less = lessByCreatedAt
	default:
		less = func(a, b *UnifiedTask) bool {
			return lessByPriorityDueDate(a, b, now)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}

// UrgencyScore 距截止时间（毫秒）除以优先级权重，越小越靠前；没有截止日期为 +Inf
func UrgencyScore(task *UnifiedTask, now time.Time) float64 {
	if task.DueDate == nil {
		return math.Inf(1)
	}
	weight := task.Priority.Weight()
	if weight == 0 {
		weight = TaskPriorityMedium.Weight()
	}
	untilDue := float64(task.DueDate.Sub(now).Milliseconds())
	return untilDue / float64(weight)
}

// lessByPriorityDueDate 默认策略:
//  1. 已超期的排在所有未超期之前
//  2. 超期任务按截止日期升序（超期最久的在前）
//  3. 未超期任务按紧急度分数升序
//  4. 分数相同时优先级高的在前，再按 ID 升序
func lessByPriorityDueDate(a, b *UnifiedTask, now time.Time) bool {
	aOverdue, bOverdue := isPastDue(a.DueDate, now), isPastDue(b.DueDate, now)
	if aOverdue != bOverdue {
		return aOverdue
	}
	if aOverdue {
		if !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}
		return lessByTieBreak(a, b)
	}

	aScore, bScore := UrgencyScore(a, now), UrgencyScore(b, now)
	if aScore != bScore {
		return aScore < bScore
	}
	return lessByTieBreak(a, b)
}

func lessByTieBreak(a, b *UnifiedTask) bool {
	if aw, bw := a.Priority.Weight(), b.Priority.Weight(); aw != bw {
		return aw > bw
	}
	return a.ID < b.ID
}

// lessByDueDate 截止日期升序，空值排在最后
func lessByDueDate(a, b *UnifiedTask) bool {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return a.ID < b.ID
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	case !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	default:
		return a.ID < b.ID
	}
}

// lessByCreatedAt 最新创建的在前
func lessByCreatedAt(a, b *UnifiedTask) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// paginate 切出当前页，offset 超出范围时返回空页
func paginate(tasks []*UnifiedTask, limit, offset int) []*UnifiedTask {
	if offset >= len(tasks) {
		return []*UnifiedTask{}
	}
	end := offset + limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[offset:end]
}
