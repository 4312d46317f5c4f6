package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/metrics"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/repository"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPageSize 默认每页任务数
	DefaultPageSize = 50
	// DefaultMaxPageSize 默认每页最大任务数
	DefaultMaxPageSize = 200
)

// 操作名，用于指标和日志
const (
	opMyTasks        = "my_tasks"
	opAvailableTasks = "available_tasks"
	opTaskCounts     = "task_counts"
)

var tracer = otel.Tracer("github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service")

// MyWorkService 统一工作队列服务接口
type MyWorkService interface {
	GetMyTasks(ctx context.Context, params *MyTasksParams) (*MyTasksResult, error)
	GetAvailableTasks(ctx context.Context, params *AvailableTasksParams) (*AvailableTasksResult, error)
	GetTaskCounts(ctx context.Context, orgID, userID string) (TaskCountsByType, error)
}

// MyWorkSources 各数据源的只读接口
type MyWorkSources struct {
	Cases          repository.CaseReader
	Investigations repository.InvestigationReader
	Remediation    repository.RemediationStepReader
	ConflictAlerts repository.ConflictAlertReader
	Campaigns      repository.CampaignAssignmentReader
	Workflows      repository.WorkflowInstanceReader
}

// MyWorkLimits 可热更新的限制参数
type MyWorkLimits struct {
	SourceLimit     int           // 单个数据源最多读取的记录数
	DefaultPageSize int           // 默认每页任务数
	MaxPageSize     int           // 每页最大任务数
	FetchTimeout    time.Duration // 整个扇出的超时，0 表示只受调用方上下文约束
}

// DefaultMyWorkLimits 返回默认限制
func DefaultMyWorkLimits() MyWorkLimits {
	return MyWorkLimits{
		SourceLimit:     repository.DefaultSourceLimit,
		DefaultPageSize: DefaultPageSize,
		MaxPageSize:     DefaultMaxPageSize,
		FetchTimeout:    10 * time.Second,
	}
}

func (l MyWorkLimits) normalized() MyWorkLimits {
	defaults := DefaultMyWorkLimits()
	if l.SourceLimit <= 0 {
		l.SourceLimit = defaults.SourceLimit
	}
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = defaults.DefaultPageSize
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = defaults.MaxPageSize
	}
	if l.DefaultPageSize > l.MaxPageSize {
		l.DefaultPageSize = l.MaxPageSize
	}
	if l.FetchTimeout < 0 {
		l.FetchTimeout = 0
	}
	return l
}

// MyWorkOption 服务选项
type MyWorkOption func(*MyWorkAggregator)

// WithLogger 设置日志记录器
func WithLogger(logger logrus.FieldLogger) MyWorkOption {
	return func(s *MyWorkAggregator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock 设置时钟（测试使用固定时间）
func WithClock(clock func() time.Time) MyWorkOption {
	return func(s *MyWorkAggregator) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLimits 设置限制参数
func WithLimits(limits MyWorkLimits) MyWorkOption {
	return func(s *MyWorkAggregator) {
		s.SetLimits(limits)
	}
}

// sourceFetcher 一个数据源：读取并转换为统一任务，以及计数
type sourceFetcher struct {
	taskType TaskType
	name     string
	fetch    func(ctx context.Context, q *repository.SourceQuery, now time.Time) ([]*UnifiedTask, error)
	count    func(ctx context.Context, orgID, userID string) (int64, error)
}

// MyWorkAggregator 统一工作队列服务实现
type MyWorkAggregator struct {
	sources  MyWorkSources
	fetchers []sourceFetcher
	limits   atomic.Pointer[MyWorkLimits]
	logger   logrus.FieldLogger
	clock    func() time.Time
}

var _ MyWorkService = (*MyWorkAggregator)(nil)

// NewMyWorkService 创建统一工作队列服务
func NewMyWorkService(sources MyWorkSources, opts ...MyWorkOption) *MyWorkAggregator {
	s := &MyWorkAggregator{
		sources: sources,
		logger:  logrus.StandardLogger(),
		clock:   time.Now,
	}
	s.SetLimits(DefaultMyWorkLimits())
	for _, opt := range opts {
		opt(s)
	}
	s.fetchers = s.buildFetchers()
	return s
}

// SetLimits 更新限制参数，配置热更新时调用
func (s *MyWorkAggregator) SetLimits(limits MyWorkLimits) {
	normalized := limits.normalized()
	s.limits.Store(&normalized)
}

// Limits 返回当前限制参数
func (s *MyWorkAggregator) Limits() MyWorkLimits {
	return *s.limits.Load()
}

// GetMyTasks 获取分配给用户的统一任务队列
func (s *MyWorkAggregator) GetMyTasks(ctx context.Context, params *MyTasksParams) (*MyTasksResult, error) {
	limits := s.Limits()
	params, err := normalizeMyTasksParams(params, limits)
	if err != nil {
		metrics.RecordMyWorkRequest(opMyTasks, "invalid")
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "MyWork.GetMyTasks", trace.WithAttributes(
		attribute.String("organization_id", params.OrganizationID),
		attribute.String("sort_by", string(params.SortBy)),
	))
	defer span.End()

	if limits.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limits.FetchTimeout)
		defer cancel()
	}

	now := s.clock()
	query := &repository.SourceQuery{
		OrganizationID: params.OrganizationID,
		UserID:         params.UserID,
		Limit:          limits.SourceLimit,
	}
	if params.Filters != nil {
		query.DueDateStart = params.Filters.DueDateStart
		query.DueDateEnd = params.Filters.DueDateEnd
	}

	// 扇出：每个数据源独立查询，结果写入各自的槽位
	results := make([][]*UnifiedTask, len(s.fetchers))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.fetchers {
		if !params.Filters.includesType(f.taskType) {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			tasks, err := s.runFetch(gctx, f, query, now)
			if err != nil {
				return fmt.Errorf("%s source: %w", f.name, err)
			}
			results[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordMyWorkRequest(opMyTasks, "error")
		s.logger.WithFields(logrus.Fields{
			"organization_id": params.OrganizationID,
			"user_id":         params.UserID,
		}).WithError(err).Error("failed to load work queue")
		return nil, fmt.Errorf("%w: %w", ErrWorkQueueUnavailable, err)
	}

	// 扇入：按数据源固定顺序合并
	merged := make([]*UnifiedTask, 0)
	for _, tasks := range results {
		merged = append(merged, tasks...)
	}
	merged = ApplyFilters(merged, params.Filters)
	SortTasks(merged, params.SortBy, now)

	total := len(merged)
	page := paginate(merged, params.Limit, params.Offset)

	metrics.RecordTasksReturned(total)
	metrics.RecordMyWorkRequest(opMyTasks, "ok")
	span.SetAttributes(attribute.Int("total", total))
	s.logger.WithFields(logrus.Fields{
		"organization_id": params.OrganizationID,
		"user_id":         params.UserID,
		"total":           total,
		"returned":        len(page),
	}).Debug("work queue loaded")

	return &MyTasksResult{
		Tasks:   page,
		Total:   int64(total),
		HasMore: params.Offset+len(page) < total,
	}, nil
}

// runFetch 在子 span 中执行单个数据源查询并记录指标
func (s *MyWorkAggregator) runFetch(ctx context.Context, f sourceFetcher, q *repository.SourceQuery, now time.Time) ([]*UnifiedTask, error) {
	ctx, span := tracer.Start(ctx, "MyWork.fetch", trace.WithAttributes(
		attribute.String("task_type", string(f.taskType)),
	))
	defer span.End()

	start := time.Now()
	tasks, err := f.fetch(ctx, q, now)
	metrics.RecordSourceFetch(f.name, time.Since(start).Seconds(), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("count", len(tasks)))
	return tasks, nil
}

// GetAvailableTasks 获取可认领的任务。目前只有未分配的新建案件，
// 不与其他数据源合并；userRole/userRegion 暂不参与过滤。
func (s *MyWorkAggregator) GetAvailableTasks(ctx context.Context, params *AvailableTasksParams) (*AvailableTasksResult, error) {
	params, err := normalizeAvailableTasksParams(params, s.Limits())
	if err != nil {
		metrics.RecordMyWorkRequest(opAvailableTasks, "invalid")
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "MyWork.GetAvailableTasks")
	defer span.End()

	s.logger.WithFields(logrus.Fields{
		"organization_id": params.OrganizationID,
		"user_role":       params.UserRole,
		"user_region":     params.UserRegion,
	}).Debug("role and region are not applied to available tasks")

	result := &AvailableTasksResult{Tasks: []*UnifiedTask{}}
	if s.sources.Cases == nil {
		return result, nil
	}

	now := s.clock()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.sources.Cases.FindUnassignedNew(gctx, params.OrganizationID, params.Limit)
		if err != nil {
			return err
		}
		result.Tasks, err = toTasks(records, func(c *model.CaseModel) *UnifiedTask {
			return CaseToTask(c, params.OrganizationID, now)
		})
		return err
	})
	g.Go(func() error {
		var err error
		result.Total, err = s.sources.Cases.CountUnassignedNew(gctx, params.OrganizationID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		metrics.RecordMyWorkRequest(opAvailableTasks, "error")
		s.logger.WithField("organization_id", params.OrganizationID).
			WithError(err).Error("failed to load available tasks")
		return nil, fmt.Errorf("%w: %w", ErrWorkQueueUnavailable, err)
	}

	metrics.RecordMyWorkRequest(opAvailableTasks, "ok")
	return result, nil
}

// GetTaskCounts 按类型统计任务数，不构造统一任务
func (s *MyWorkAggregator) GetTaskCounts(ctx context.Context, orgID, userID string) (TaskCountsByType, error) {
	if err := validateIdentity(orgID, userID); err != nil {
		metrics.RecordMyWorkRequest(opTaskCounts, "invalid")
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "MyWork.GetTaskCounts")
	defer span.End()

	values := make([]int64, len(s.fetchers))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.fetchers {
		i, f := i, f
		g.Go(func() error {
			n, err := f.count(gctx, orgID, userID)
			if err != nil {
				return fmt.Errorf("%s source: %w", f.name, err)
			}
			values[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		metrics.RecordMyWorkRequest(opTaskCounts, "error")
		s.logger.WithFields(logrus.Fields{
			"organization_id": orgID,
			"user_id":         userID,
		}).WithError(err).Error("failed to count work queue")
		return nil, fmt.Errorf("%w: %w", ErrWorkQueueUnavailable, err)
	}

	counts := newTaskCounts()
	for i, f := range s.fetchers {
		counts[f.taskType] = values[i]
	}
	metrics.RecordMyWorkRequest(opTaskCounts, "ok")
	return counts, nil
}
