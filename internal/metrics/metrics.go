package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 工作队列请求数
	myWorkRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "my_work_requests_total",
			Help: "Total number of work queue operations",
		},
		[]string{"operation", "result"}, // my_tasks/available_tasks/task_counts, ok/invalid/error
	)

	// 单个数据源查询耗时
	sourceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "my_work_source_fetch_duration_seconds",
			Help:    "Duration of a single work queue source fetch in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// 数据源查询失败数
	sourceFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "my_work_source_fetch_errors_total",
			Help: "Total number of failed work queue source fetches",
		},
		[]string{"source"},
	)

	// 合并后的任务数
	tasksReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "my_work_tasks_returned",
			Help:    "Number of tasks in the merged work queue before pagination",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(myWorkRequestsTotal)
	prometheus.MustRegister(sourceFetchDuration)
	prometheus.MustRegister(sourceFetchErrorsTotal)
	prometheus.MustRegister(tasksReturned)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)

	// 注册 Go 运行时指标（只注册一次）
	once.Do(func() {
		// 默认 registry 已包含运行时指标时忽略错误
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordMyWorkRequest 记录一次工作队列操作
func RecordMyWorkRequest(operation, result string) {
	myWorkRequestsTotal.WithLabelValues(operation, result).Inc()
}

// RecordSourceFetch 记录一次数据源查询
func RecordSourceFetch(source string, duration float64, err error) {
	sourceFetchDuration.WithLabelValues(source).Observe(duration)
	if err != nil {
		sourceFetchErrorsTotal.WithLabelValues(source).Inc()
	}
}

// RecordTasksReturned 记录合并后的任务数
func RecordTasksReturned(count int) {
	tasksReturned.Observe(float64(count))
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}
