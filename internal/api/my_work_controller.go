package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/auth"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/utils"
)

// MyWorkController 我的工作队列控制器
type MyWorkController struct {
	myWorkService service.MyWorkService
	clock         func() time.Time
}

// NewMyWorkController 创建工作队列控制器，clock 为 nil 时使用 time.Now
func NewMyWorkController(myWorkService service.MyWorkService, clock func() time.Time) *MyWorkController {
	if clock == nil {
		clock = time.Now
	}
	return &MyWorkController{
		myWorkService: myWorkService,
		clock:         clock,
	}
}

// SectionsResponse 分组后的当前页
type SectionsResponse struct {
	GroupBy  string                `json:"groupBy"`
	Sections []service.TaskSection `json:"sections,omitempty"`
	Groups   []service.TaskGroup   `json:"groups,omitempty"`
	Total    int64                 `json:"total"`
	HasMore  bool                  `json:"hasMore"`
}

// CountsResponse 按类型统计
type CountsResponse struct {
	Counts service.TaskCountsByType `json:"counts"`
	Total  int64                    `json:"total"`
}

// Tasks 获取我的任务
// @Summary      获取我的任务
// @Description  合并所有数据源中分配给当前用户的待办，排序并分页
// @Tags         我的工作
// @Produce      json
// @Param        types query string false "任务类型，逗号分隔"
// @Param        priorities query string false "优先级，逗号分隔"
// @Param        statuses query string false "状态，逗号分隔"
// @Param        due_date_start query string false "截止时间起 (RFC3339)"
// @Param        due_date_end query string false "截止时间止 (RFC3339)"
// @Param        sort_by query string false "priority_due_date | due_date | created_at"
// @Param        limit query int false "每页数量"
// @Param        offset query int false "偏移量"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /my-work/tasks [get]
// @Security     BearerAuth
func (c *MyWorkController) Tasks(ctx *gin.Context) {
	result, ok := c.loadMyTasks(ctx)
	if !ok {
		return
	}
	Success(ctx, result)
}

// Sections 获取按截止时间或类型分组的当前页
// @Summary      获取分组后的我的任务
// @Tags         我的工作
// @Produce      json
// @Description  当前页任务按截止时间段或任务类型分组
// @Param        group_by query string false "due | type"
// @Param        types query string false "任务类型，逗号分隔"
// @Param        priorities query string false "优先级，逗号分隔"
// @Param        statuses query string false "状态，逗号分隔"
// @Param        sort_by query string false "priority_due_date | due_date | created_at"
// @Param        limit query int false "每页数量"
// @Param        offset query int false "偏移量"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /my-work/sections [get]
// @Security     BearerAuth
func (c *MyWorkController) Sections(ctx *gin.Context) {
	groupBy := ctx.DefaultQuery("group_by", "due")
	if groupBy != "due" && groupBy != "type" {
		Error(ctx, http.StatusBadRequest, "invalid query", "group_by must be due or type")
		return
	}

	result, ok := c.loadMyTasks(ctx)
	if !ok {
		return
	}

	resp := SectionsResponse{
		GroupBy: groupBy,
		Total:   result.Total,
		HasMore: result.HasMore,
	}
	if groupBy == "type" {
		resp.Groups = service.GroupByType(result.Tasks)
	} else {
		resp.Sections = service.GroupByDueDate(result.Tasks, c.clock())
	}
	Success(ctx, resp)
}

// Available 获取可认领的任务
// @Summary      获取可认领的任务
// @Tags         我的工作
// @Produce      json
// @Description  组织内尚未分配的新案件，最早创建的在前
// @Param        limit query int false "数量上限"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /my-work/available [get]
// @Security     BearerAuth
func (c *MyWorkController) Available(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit")
	if !ok {
		return
	}

	result, err := c.myWorkService.GetAvailableTasks(ctx.Request.Context(), &service.AvailableTasksParams{
		OrganizationID: identity.OrganizationID,
		UserID:         identity.UserID,
		UserRole:       identity.Role(),
		UserRegion:     identity.Region,
		Limit:          limit,
	})
	if err != nil {
		c.handleServiceError(ctx, err)
		return
	}
	Success(ctx, result)
}

// Counts 按类型统计任务数
// @Summary      按类型统计我的任务
// @Tags         我的工作
// @Produce      json
// @Description  按任务类型统计当前用户的待办数量
// @Success      200  {object}  Response
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /my-work/counts [get]
// @Security     BearerAuth
func (c *MyWorkController) Counts(ctx *gin.Context) {
	identity, ok := c.identity(ctx)
	if !ok {
		return
	}

	counts, err := c.myWorkService.GetTaskCounts(ctx.Request.Context(), identity.OrganizationID, identity.UserID)
	if err != nil {
		c.handleServiceError(ctx, err)
		return
	}
	Success(ctx, CountsResponse{Counts: counts, Total: counts.Total()})
}

// loadMyTasks 解析查询参数并调用服务，失败时已写入响应
func (c *MyWorkController) loadMyTasks(ctx *gin.Context) (*service.MyTasksResult, bool) {
	identity, ok := c.identity(ctx)
	if !ok {
		return nil, false
	}

	params, err := parseMyTasksQuery(ctx)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid query", err.Error())
		return nil, false
	}
	params.OrganizationID = identity.OrganizationID
	params.UserID = identity.UserID

	result, err := c.myWorkService.GetMyTasks(ctx.Request.Context(), params)
	if err != nil {
		c.handleServiceError(ctx, err)
		return nil, false
	}
	return result, true
}

func (c *MyWorkController) identity(ctx *gin.Context) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		Error(ctx, http.StatusUnauthorized, "unauthorized", "missing user or organization")
	}
	return identity, ok
}

// handleServiceError 统一处理服务层错误
func (c *MyWorkController) handleServiceError(ctx *gin.Context, err error) {
	var validationErr *utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		Error(ctx, http.StatusBadRequest, "invalid query", validationErr.Message)
	case errors.Is(err, service.ErrInvalidQuery):
		Error(ctx, http.StatusBadRequest, "invalid query", "")
	case errors.Is(err, service.ErrWorkQueueUnavailable):
		Error(ctx, http.StatusServiceUnavailable, "unable to load work queue", "")
	default:
		_ = ctx.Error(err)
	}
}

// parseMyTasksQuery 把查询字符串解析为服务参数，取值合法性由服务层校验
func parseMyTasksQuery(ctx *gin.Context) (*service.MyTasksParams, error) {
	filters := &service.TaskFilters{}
	for _, t := range utils.SplitList(ctx.QueryArray("types")) {
		filters.Types = append(filters.Types, service.TaskType(t))
	}
	for _, p := range utils.SplitList(ctx.QueryArray("priorities")) {
		filters.Priorities = append(filters.Priorities, service.TaskPriority(p))
	}
	for _, s := range utils.SplitList(ctx.QueryArray("statuses")) {
		filters.Statuses = append(filters.Statuses, service.TaskStatus(s))
	}

	var err error
	if filters.DueDateStart, err = parseTime(ctx.Query("due_date_start")); err != nil {
		return nil, utils.NewValidationError("INVALID_DATE", "due_date_start must be RFC3339")
	}
	if filters.DueDateEnd, err = parseTime(ctx.Query("due_date_end")); err != nil {
		return nil, utils.NewValidationError("INVALID_DATE", "due_date_end must be RFC3339")
	}

	params := &service.MyTasksParams{
		Filters: filters,
		SortBy:  service.SortBy(ctx.Query("sort_by")),
	}
	if params.Limit, err = parseInt(ctx.Query("limit")); err != nil {
		return nil, utils.NewValidationError("INVALID_LIMIT", "limit must be an integer")
	}
	if params.Offset, err = parseInt(ctx.Query("offset")); err != nil {
		return nil, utils.NewValidationError("INVALID_OFFSET", "offset must be an integer")
	}
	return params, nil
}

func parseTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// queryInt 读取整数查询参数，格式错误时写入 400 响应
func queryInt(ctx *gin.Context, key string) (int, bool) {
	n, err := parseInt(ctx.Query(key))
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid query", key+" must be an integer")
		return 0, false
	}
	return n, true
}
