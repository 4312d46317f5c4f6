package service_test

import (
	"context"
	"sync"

	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/model"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/repository"
	"github.com/nick-gallo-ethico/risk-intelligence-platform-sub001/internal/service"
)

// fakeSource 内存数据源，记录调用次数和查询条件
type fakeSource[T any] struct {
	mu      sync.Mutex
	records []T
	count   int64
	err     error
	calls   int
	queries []repository.SourceQuery
	onFetch func(ctx context.Context) error
}

func (f *fakeSource[T]) find(ctx context.Context, q *repository.SourceQuery) ([]T, error) {
	f.mu.Lock()
	f.calls++
	f.queries = append(f.queries, *q)
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeSource[T]) total() (int64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

func (f *fakeSource[T]) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCases struct {
	fakeSource[*model.CaseModel]
	unassigned      []*model.CaseModel
	unassignedTotal int64
	unassignedLimit int
}

func (f *fakeCases) FindOpenAssigned(ctx context.Context, q *repository.SourceQuery) ([]*model.CaseModel, error) {
	return f.find(ctx, q)
}

func (f *fakeCases) CountOpenAssigned(context.Context, string, string) (int64, error) {
	return f.total()
}

func (f *fakeCases) FindUnassignedNew(_ context.Context, _ string, limit int) ([]*model.CaseModel, error) {
	f.mu.Lock()
	f.calls++
	f.unassignedLimit = limit
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.unassigned, nil
}

func (f *fakeCases) CountUnassignedNew(context.Context, string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.unassignedTotal, nil
}

type fakeInvestigations struct {
	fakeSource[*model.InvestigationModel]
}

func (f *fakeInvestigations) FindOpenAssigned(ctx context.Context, q *repository.SourceQuery) ([]*model.InvestigationModel, error) {
	return f.find(ctx, q)
}

func (f *fakeInvestigations) CountOpenAssigned(context.Context, string, string) (int64, error) {
	return f.total()
}

type fakeRemediation struct {
	fakeSource[*model.RemediationStepModel]
}

func (f *fakeRemediation) FindOpenAssigned(ctx context.Context, q *repository.SourceQuery) ([]*model.RemediationStepModel, error) {
	return f.find(ctx, q)
}

func (f *fakeRemediation) CountOpenAssigned(context.Context, string, string) (int64, error) {
	return f.total()
}

type fakeConflictAlerts struct {
	fakeSource[*model.ConflictAlertModel]
}

func (f *fakeConflictAlerts) FindOpen(ctx context.Context, q *repository.SourceQuery) ([]*model.ConflictAlertModel, error) {
	return f.find(ctx, q)
}

func (f *fakeConflictAlerts) CountOpen(context.Context, string) (int64, error) {
	return f.total()
}

type fakeCampaigns struct {
	fakeSource[*model.CampaignAssignmentModel]
}

func (f *fakeCampaigns) FindOpenAssigned(ctx context.Context, q *repository.SourceQuery) ([]*model.CampaignAssignmentModel, error) {
	return f.find(ctx, q)
}

func (f *fakeCampaigns) CountOpenAssigned(context.Context, string, string) (int64, error) {
	return f.total()
}

type fakeWorkflows struct {
	fakeSource[*model.WorkflowInstanceModel]
}

func (f *fakeWorkflows) FindActiveAssigned(ctx context.Context, q *repository.SourceQuery) ([]*model.WorkflowInstanceModel, error) {
	return f.find(ctx, q)
}

func (f *fakeWorkflows) CountActiveAssigned(context.Context, string, string) (int64, error) {
	return f.total()
}

// fakeSet 一组全部为空的数据源
type fakeSet struct {
	cases          *fakeCases
	investigations *fakeInvestigations
	remediation    *fakeRemediation
	alerts         *fakeConflictAlerts
	campaigns      *fakeCampaigns
	workflows      *fakeWorkflows
}

func newFakeSet() *fakeSet {
	return &fakeSet{
		cases:          &fakeCases{},
		investigations: &fakeInvestigations{},
		remediation:    &fakeRemediation{},
		alerts:         &fakeConflictAlerts{},
		campaigns:      &fakeCampaigns{},
		workflows:      &fakeWorkflows{},
	}
}

func (s *fakeSet) sources() service.MyWorkSources {
	return service.MyWorkSources{
		Cases:          s.cases,
		Investigations: s.investigations,
		Remediation:    s.remediation,
		ConflictAlerts: s.alerts,
		Campaigns:      s.campaigns,
		Workflows:      s.workflows,
	}
}

// totalCalls 所有数据源的调用次数
func (s *fakeSet) totalCalls() int {
	return s.cases.callCount() + s.investigations.callCount() + s.remediation.callCount() +
		s.alerts.callCount() + s.campaigns.callCount() + s.workflows.callCount()
}

func (s *fakeSet) service(opts ...service.MyWorkOption) *service.MyWorkAggregator {
	opts = append([]service.MyWorkOption{service.WithClock(fixedClock)}, opts...)
	return service.NewMyWorkService(s.sources(), opts...)
}
