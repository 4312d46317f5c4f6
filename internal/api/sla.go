package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SLA 监控的操作
const (
	SLAOperationMyTasks        = "my_tasks"
	SLAOperationAvailableTasks = "available_tasks"
	SLAOperationTaskCounts     = "task_counts"
)

// SLAConfig SLA 配置
type SLAConfig struct {
	MyTasksMaxTime        time.Duration // 我的任务（含分组视图）最大响应时间
	AvailableTasksMaxTime time.Duration // 可认领任务最大响应时间
	TaskCountsMaxTime     time.Duration // 计数最大响应时间
}

// DefaultSLAConfig 返回默认 SLA 配置
func DefaultSLAConfig() *SLAConfig {
	return &SLAConfig{
		MyTasksMaxTime:        1 * time.Second,
		AvailableTasksMaxTime: 500 * time.Millisecond,
		TaskCountsMaxTime:     300 * time.Millisecond,
	}
}

// getOperation 从请求路径获取操作类型
func getOperation(c *gin.Context) string {
	if c.Request.Method != "GET" {
		return "unknown"
	}
	path := c.Request.URL.Path
	switch {
	case strings.HasSuffix(path, "/my-work/tasks"), strings.HasSuffix(path, "/my-work/sections"):
		return SLAOperationMyTasks
	case strings.HasSuffix(path, "/my-work/available"):
		return SLAOperationAvailableTasks
	case strings.HasSuffix(path, "/my-work/counts"):
		return SLAOperationTaskCounts
	}
	return "unknown"
}

// getExpectedDuration 获取期望的响应时间，0 表示不检查
func getExpectedDuration(operation string, config *SLAConfig) time.Duration {
	switch operation {
	case SLAOperationMyTasks:
		return config.MyTasksMaxTime
	case SLAOperationAvailableTasks:
		return config.AvailableTasksMaxTime
	case SLAOperationTaskCounts:
		return config.TaskCountsMaxTime
	default:
		return 0
	}
}

// CheckSLA 检查 SLA
func CheckSLA(operation string, duration time.Duration, config *SLAConfig) bool {
	expected := getExpectedDuration(operation, config)
	return expected == 0 || duration <= expected
}

// SLAViolation SLA 违反记录
type SLAViolation struct {
	Operation      string
	Duration       time.Duration
	Expected       time.Duration
	Timestamp      time.Time
	Path           string
	OrganizationID string
}

// SLAAlertManager SLA 告警管理器
type SLAAlertManager struct {
	violations     map[string][]SLAViolation
	thresholds     map[string]int
	alertCallbacks []func(string, []SLAViolation)
	mu             sync.RWMutex
}

// NewSLAAlertManager 创建 SLA 告警管理器
func NewSLAAlertManager() *SLAAlertManager {
	return &SLAAlertManager{
		violations:     make(map[string][]SLAViolation),
		thresholds:     make(map[string]int),
		alertCallbacks: make([]func(string, []SLAViolation), 0),
	}
}

// RecordViolation 记录 SLA 违反，达到阈值时触发告警并清空该操作的记录
func (m *SLAAlertManager) RecordViolation(operation string, violation SLAViolation) {
	m.mu.Lock()
	m.violations[operation] = append(m.violations[operation], violation)

	var fired []SLAViolation
	threshold := m.thresholds[operation]
	if threshold > 0 && len(m.violations[operation]) >= threshold {
		fired = m.violations[operation]
		m.violations[operation] = nil
	}
	callbacks := m.alertCallbacks
	m.mu.Unlock()

	if fired != nil {
		for _, callback := range callbacks {
			callback(operation, fired)
		}
	}
}

// SetAlertThreshold 设置告警阈值
func (m *SLAAlertManager) SetAlertThreshold(operation string, threshold int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds[operation] = threshold
}

// OnAlert 注册告警回调
func (m *SLAAlertManager) OnAlert(callback func(string, []SLAViolation)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertCallbacks = append(m.alertCallbacks, callback)
}

// GetViolations 获取尚未触发告警的违反记录
func (m *SLAAlertManager) GetViolations(operation string) []SLAViolation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]SLAViolation(nil), m.violations[operation]...)
}

// SLAMonitorMiddlewareWithAlert SLA 监控中间件，alertManager 可以为 nil
func SLAMonitorMiddlewareWithAlert(config *SLAConfig, alertManager *SLAAlertManager) gin.HandlerFunc {
	if config == nil {
		config = DefaultSLAConfig()
	}

	return func(c *gin.Context) {
		start := time.Now()
		operation := getOperation(c)

		// 响应头必须在写入 body 之前设置，所以在 handler 之后只能记录
		c.Next()

		duration := time.Since(start)
		if CheckSLA(operation, duration, config) {
			return
		}

		expected := getExpectedDuration(operation, config)
		if alertManager != nil {
			alertManager.RecordViolation(operation, SLAViolation{
				Operation:      operation,
				Duration:       duration,
				Expected:       expected,
				Timestamp:      time.Now(),
				Path:           c.Request.URL.Path,
				OrganizationID: c.GetString("organization_id"),
			})
		}

		GetLogger().WithFields(logrus.Fields{
			"operation":  operation,
			"duration":   duration.String(),
			"expected":   expected.String(),
			"request_id": c.GetString("request_id"),
		}).Warn("SLA violation")
	}
}
