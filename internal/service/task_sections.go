package service

import "time"

// SectionKey 按截止时间分组的键
type SectionKey string

const (
	SectionOverdue     SectionKey = "OVERDUE"
	SectionDueToday    SectionKey = "DUE_TODAY"
	SectionDueThisWeek SectionKey = "DUE_THIS_WEEK"
	SectionLater       SectionKey = "LATER"
	SectionNoDueDate   SectionKey = "NO_DUE_DATE"
)

var sectionOrder = []struct {
	key   SectionKey
	title string
}{
	{SectionOverdue, "Overdue"},
	{SectionDueToday, "Due today"},
	{SectionDueThisWeek, "Due this week"},
	{SectionLater, "Later"},
	{SectionNoDueDate, "No due date"},
}

// TaskSection 按截止时间分组，仅用于展示，不存储
type TaskSection struct {
	Key   SectionKey     `json:"key"`
	Title string         `json:"title"`
	Count int            `json:"count"`
	Tasks []*UnifiedTask `json:"tasks"`
}

// TaskGroup 按任务类型分组
type TaskGroup struct {
	Type  TaskType       `json:"type"`
	Count int            `json:"count"`
	Tasks []*UnifiedTask `json:"tasks"`
}

// GroupByDueDate 按截止时间分组，保持输入顺序，省略空分组
func GroupByDueDate(tasks []*UnifiedTask, now time.Time) []TaskSection {
	buckets := make(map[SectionKey][]*UnifiedTask)
	for _, task := range tasks {
		key := dueSection(task.DueDate, now)
		buckets[key] = append(buckets[key], task)
	}

	sections := make([]TaskSection, 0, len(buckets))
	for _, s := range sectionOrder {
		if items := buckets[s.key]; len(items) > 0 {
			sections = append(sections, TaskSection{
				Key:   s.key,
				Title: s.title,
				Count: len(items),
				Tasks: items,
			})
		}
	}
	return sections
}

func dueSection(dueDate *time.Time, now time.Time) SectionKey {
	if dueDate == nil {
		return SectionNoDueDate
	}
	if dueDate.Before(now) {
		return SectionOverdue
	}
	y, m, d := now.Date()
	endOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if dueDate.Before(endOfToday) {
		return SectionDueToday
	}
	if dueDate.Before(endOfToday.AddDate(0, 0, 6)) {
		return SectionDueThisWeek
	}
	return SectionLater
}

// GroupByType 按任务类型分组，顺序与 AllTaskTypes 一致，省略空分组
func GroupByType(tasks []*UnifiedTask) []TaskGroup {
	buckets := make(map[TaskType][]*UnifiedTask)
	for _, task := range tasks {
		buckets[task.Type] = append(buckets[task.Type], task)
	}

	groups := make([]TaskGroup, 0, len(buckets))
	for _, t := range AllTaskTypes {
		if items := buckets[t]; len(items) > 0 {
			groups = append(groups, TaskGroup{Type: t, Count: len(items), Tasks: items})
		}
	}
	return groups
}
