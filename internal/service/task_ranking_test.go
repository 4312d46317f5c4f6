package service_test

import (
	"math"
	"testing"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func dueIn(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func task(id string, priority service.TaskPriority, due *time.Time) *service.UnifiedTask {
	return &service.UnifiedTask{
		ID:       id,
		Type:     service.TaskTypeRemediationTask,
		Priority: priority,
		Status:   service.DetermineTaskStatus(due, false, testNow),
		DueDate:  due,
	}
}

func ids(tasks []*service.UnifiedTask) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

const day = 24 * time.Hour

// TestSortTasks_EqualScoreFavoursHigherPriority 分数相同时高优先级在前
func TestSortTasks_EqualScoreFavoursHigherPriority(t *testing.T) {
	a := task("a", service.TaskPriorityLow, dueIn(1*day))
	b := task("b", service.TaskPriorityHigh, dueIn(3*day))

	assert.Equal(t, service.UrgencyScore(a, testNow), service.UrgencyScore(b, testNow))

	tasks := []*service.UnifiedTask{a, b}
	service.SortTasks(tasks, service.SortByPriorityDueDate, testNow)
	assert.Equal(t, []string{"b", "a"}, ids(tasks))
}

// TestSortTasks_PriorityAmplifiesUrgency 高优先级缩短有效剩余时间
func TestSortTasks_PriorityAmplifiesUrgency(t *testing.T) {
	c := task("c", service.TaskPriorityLow, dueIn(2*day))
	d := task("d", service.TaskPriorityHigh, dueIn(3*day))

	tasks := []*service.UnifiedTask{c, d}
	service.SortTasks(tasks, service.SortByPriorityDueDate, testNow)
	assert.Equal(t, []string{"d", "c"}, ids(tasks))
}

// TestSortTasks_OverdueBeforeEverything 超期任务总是排在未超期任务之前
func TestSortTasks_OverdueBeforeEverything(t *testing.T) {
	low := task("low-overdue", service.TaskPriorityLow, dueIn(-time.Hour))
	critical := task("critical-soon", service.TaskPriorityCritical, dueIn(time.Hour))

	tasks := []*service.UnifiedTask{critical, low}
	service.SortTasks(tasks, service.SortByPriorityDueDate, testNow)
	assert.Equal(t, []string{"low-overdue", "critical-soon"}, ids(tasks))
}

func TestSortTasks_OverdueOrderedByDueDate(t *testing.T) {
	tasks := []*service.UnifiedTask{
		task("recent", service.TaskPriorityCritical, dueIn(-time.Hour)),
		task("oldest", service.TaskPriorityLow, dueIn(-3*day)),
		task("middle", service.TaskPriorityMedium, dueIn(-day)),
	}
	service.SortTasks(tasks, service.SortByPriorityDueDate, testNow)
	assert.Equal(t, []string{"oldest", "middle", "recent"}, ids(tasks))
}

func TestSortTasks_NoDueDateLast(t *testing.T) {
	tasks := []*service.UnifiedTask{
		task("none-critical", service.TaskPriorityCritical, nil),
		task("far-low", service.TaskPriorityLow, dueIn(300*day)),
		task("none-low", service.TaskPriorityLow, nil),
	}
	service.SortTasks(tasks, service.SortByPriorityDueDate, testNow)
	assert.Equal(t, []string{"far-low", "none-critical", "none-low"}, ids(tasks))
}

func TestSortTasks_Deterministic(t *testing.T) {
	build := func() []*service.UnifiedTask {
		return []*service.UnifiedTask{
			task("z", service.TaskPriorityMedium, nil),
			task("a", service.TaskPriorityMedium, nil),
			task("m", service.TaskPriorityMedium, dueIn(day)),
			task("b", service.TaskPriorityMedium, dueIn(day)),
		}
	}
	first, second := build(), build()
	second[0], second[3] = second[3], second[0]

	service.SortTasks(first, service.SortByPriorityDueDate, testNow)
	service.SortTasks(second, service.SortByPriorityDueDate, testNow)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, []string{"b", "m", "a", "z"}, ids(first))
}

func TestSortTasks_ByDueDateNullsLast(t *testing.T) {
	tasks := []*service.UnifiedTask{
		task("none", service.TaskPriorityCritical, nil),
		task("later", service.TaskPriorityLow, dueIn(5*day)),
		task("overdue", service.TaskPriorityLow, dueIn(-day)),
		task("soon", service.TaskPriorityLow, dueIn(day)),
	}
	service.SortTasks(tasks, service.SortByDueDate, testNow)
	assert.Equal(t, []string{"overdue", "soon", "later", "none"}, ids(tasks))
}

func TestSortTasks_ByCreatedAtNewestFirst(t *testing.T) {
	mk := func(id string, ago time.Duration) *service.UnifiedTask {
		return &service.UnifiedTask{ID: id, Priority: service.TaskPriorityLow, CreatedAt: testNow.Add(-ago)}
	}
	tasks := []*service.UnifiedTask{mk("old", 3*day), mk("new", time.Hour), mk("mid", day)}
	service.SortTasks(tasks, service.SortByCreatedAt, testNow)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(tasks))
}

func TestUrgencyScore(t *testing.T) {
	assert.True(t, math.IsInf(service.UrgencyScore(task("x", service.TaskPriorityHigh, nil), testNow), 1))

	critical := task("c", service.TaskPriorityCritical, dueIn(4*time.Hour))
	assert.Equal(t, float64(time.Hour.Milliseconds()), service.UrgencyScore(critical, testNow))
}
