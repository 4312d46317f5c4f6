package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/api"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/auth"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/config"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeMyWorkService 记录收到的参数并返回预设结果
type fakeMyWorkService struct {
	tasks     *service.MyTasksResult
	available *service.AvailableTasksResult
	counts    service.TaskCountsByType
	err       error

	lastMyTasks   *service.MyTasksParams
	lastAvailable *service.AvailableTasksParams
}

func (f *fakeMyWorkService) GetMyTasks(_ context.Context, params *service.MyTasksParams) (*service.MyTasksResult, error) {
	f.lastMyTasks = params
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func (f *fakeMyWorkService) GetAvailableTasks(_ context.Context, params *service.AvailableTasksParams) (*service.AvailableTasksResult, error) {
	f.lastAvailable = params
	if f.err != nil {
		return nil, f.err
	}
	return f.available, nil
}

func (f *fakeMyWorkService) GetTaskCounts(context.Context, string, string) (service.TaskCountsByType, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.counts, nil
}

func setupRouter(svc service.MyWorkService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.RateLimit.RPS = 0
	return api.SetupRoutes(api.RouterDeps{
		MyWorkController: api.NewMyWorkController(svc, func() time.Time { return testNow }),
		Config:           cfg,
	})
}

func doGet(router *gin.Engine, path string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		req.Header.Set(auth.HeaderOrganizationID, "org-1")
		req.Header.Set(auth.HeaderUserID, "user-1")
		req.Header.Set(auth.HeaderUserRole, "INVESTIGATOR")
		req.Header.Set(auth.HeaderUserRegion, "EMEA")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func dueAt(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func sampleTasks() *service.MyTasksResult {
	return &service.MyTasksResult{
		Tasks: []*service.UnifiedTask{
			{ID: "INVESTIGATION_STEP-inv-1", Type: service.TaskTypeInvestigationStep, DueDate: dueAt(-time.Hour), Status: service.TaskStatusOverdue, Priority: service.TaskPriorityHigh},
			{ID: "APPROVAL_REQUEST-wf-1", Type: service.TaskTypeApprovalRequest, DueDate: dueAt(2 * time.Hour), Status: service.TaskStatusInProgress, Priority: service.TaskPriorityMedium},
			{ID: "CASE_ASSIGNMENT-case-1", Type: service.TaskTypeCaseAssignment, Status: service.TaskStatusInProgress, Priority: service.TaskPriorityHigh},
		},
		Total:   5,
		HasMore: true,
	}
}

func TestMyWorkController_Tasks(t *testing.T) {
	svc := &fakeMyWorkService{tasks: sampleTasks()}
	router := setupRouter(svc)

	w := doGet(router, "/api/v1/my-work/tasks?types=CASE_ASSIGNMENT,APPROVAL_REQUEST&types=INVESTIGATION_STEP"+
		"&priorities=HIGH&statuses=OVERDUE&sort_by=due_date&limit=3&offset=0"+
		"&due_date_start=2026-03-01T00:00:00Z&due_date_end=2026-03-31T00:00:00Z", true)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Code int                   `json:"code"`
		Data service.MyTasksResult `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, int64(5), resp.Data.Total)
	assert.True(t, resp.Data.HasMore)
	assert.Len(t, resp.Data.Tasks, 3)

	params := svc.lastMyTasks
	require.NotNil(t, params)
	assert.Equal(t, "org-1", params.OrganizationID)
	assert.Equal(t, "user-1", params.UserID)
	assert.Equal(t, []service.TaskType{
		service.TaskTypeCaseAssignment, service.TaskTypeApprovalRequest, service.TaskTypeInvestigationStep,
	}, params.Filters.Types)
	assert.Equal(t, []service.TaskPriority{service.TaskPriorityHigh}, params.Filters.Priorities)
	assert.Equal(t, []service.TaskStatus{service.TaskStatusOverdue}, params.Filters.Statuses)
	assert.Equal(t, service.SortByDueDate, params.SortBy)
	assert.Equal(t, 3, params.Limit)
	require.NotNil(t, params.Filters.DueDateStart)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), params.Filters.DueDateStart.UTC())
}

func TestMyWorkController_Unauthenticated(t *testing.T) {
	router := setupRouter(&fakeMyWorkService{tasks: sampleTasks()})

	for _, path := range []string{"/api/v1/my-work/tasks", "/api/v1/my-work/sections", "/api/v1/my-work/available", "/api/v1/my-work/counts"} {
		w := doGet(router, path, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestMyWorkController_BadQuery(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"bad limit", "/api/v1/my-work/tasks?limit=ten"},
		{"bad offset", "/api/v1/my-work/tasks?offset=-x"},
		{"bad date", "/api/v1/my-work/tasks?due_date_start=yesterday"},
		{"bad group", "/api/v1/my-work/sections?group_by=priority"},
		{"bad available limit", "/api/v1/my-work/available?limit=all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeMyWorkService{tasks: sampleTasks()}
			w := doGet(setupRouter(svc), tt.path, true)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, svc.lastMyTasks)
			assert.Nil(t, svc.lastAvailable)
		})
	}
}

func TestMyWorkController_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "validation error",
			err:        fmt.Errorf("%w: %w", service.ErrInvalidQuery, utils.NewValidationError("INVALID_PRIORITY", `unknown priority "URGENT"`)),
			wantStatus: http.StatusBadRequest,
			wantDetail: `unknown priority "URGENT"`,
		},
		{
			name:       "source failure hides cause",
			err:        fmt.Errorf("%w: %w", service.ErrWorkQueueUnavailable, errors.New("pq: connection refused")),
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(setupRouter(&fakeMyWorkService{err: tt.err}), "/api/v1/my-work/tasks", true)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp api.ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantDetail, resp.Detail)
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestMyWorkController_SectionsByDue(t *testing.T) {
	router := setupRouter(&fakeMyWorkService{tasks: sampleTasks()})

	w := doGet(router, "/api/v1/my-work/sections", true)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data api.SectionsResponse `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "due", resp.Data.GroupBy)
	assert.Equal(t, int64(5), resp.Data.Total)
	require.Len(t, resp.Data.Sections, 3)
	assert.Equal(t, service.SectionOverdue, resp.Data.Sections[0].Key)
	assert.Equal(t, service.SectionDueToday, resp.Data.Sections[1].Key)
	assert.Equal(t, service.SectionNoDueDate, resp.Data.Sections[2].Key)
	assert.Empty(t, resp.Data.Groups)
}

func TestMyWorkController_SectionsByType(t *testing.T) {
	router := setupRouter(&fakeMyWorkService{tasks: sampleTasks()})

	w := doGet(router, "/api/v1/my-work/sections?group_by=type", true)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data api.SectionsResponse `json:"data"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Data.Groups, 3)
	assert.Equal(t, service.TaskTypeCaseAssignment, resp.Data.Groups[0].Type)
	assert.Empty(t, resp.Data.Sections)
}

func TestMyWorkController_Available(t *testing.T) {
	svc := &fakeMyWorkService{available: &service.AvailableTasksResult{
		Tasks: []*service.UnifiedTask{{ID: "CASE_ASSIGNMENT-case-9", Type: service.TaskTypeCaseAssignment}},
		Total: 4,
	}}

	w := doGet(setupRouter(svc), "/api/v1/my-work/available?limit=1", true)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data service.AvailableTasksResult `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, int64(4), resp.Data.Total)
	require.NotNil(t, svc.lastAvailable)
	assert.Equal(t, 1, svc.lastAvailable.Limit)
	assert.Equal(t, "INVESTIGATOR", svc.lastAvailable.UserRole)
	assert.Equal(t, "EMEA", svc.lastAvailable.UserRegion)
}

func TestMyWorkController_Counts(t *testing.T) {
	counts := service.TaskCountsByType{
		service.TaskTypeCaseAssignment:    2,
		service.TaskTypeInvestigationStep: 1,
		service.TaskTypeRemediationTask:   0,
		service.TaskTypeDisclosureReview:  3,
		service.TaskTypeCampaignResponse:  0,
		service.TaskTypeApprovalRequest:   4,
		service.TaskTypeProjectTask:       0,
	}

	w := doGet(setupRouter(&fakeMyWorkService{counts: counts}), "/api/v1/my-work/counts", true)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data api.CountsResponse `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, int64(10), resp.Data.Total)
	assert.Len(t, resp.Data.Counts, 7)
	assert.Equal(t, int64(4), resp.Data.Counts[service.TaskTypeApprovalRequest])
}
