package store

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"execboard/internal/domain"
	"execboard/internal/remote"
)

type DashboardSnapshot struct {
	Metrics          *domain.BusinessMetrics
	Performance      []domain.CLevelPerformance
	LatestBriefs     []domain.Brief
	ProblematicTasks []domain.Task
	IsLoading        bool
	Error            string
}

// DashboardStore aggregates four collections behind one loading flag. The
// four section fetches share IsLoading and Error, so overlapping calls can
// clobber each other's flags; FetchAll is the safe path.
type DashboardStore struct {
	dashboard remote.Dashboard
	briefs    remote.Briefs
	tasks     remote.Tasks

	briefLimit          int
	problematicStatuses []string

	mu    sync.Mutex
	state DashboardSnapshot
	subs  []func()
}

func NewDashboardStore(d remote.Dashboard, b remote.Briefs, t remote.Tasks, briefLimit int, problematicStatuses []string) *DashboardStore {
	if briefLimit <= 0 {
		briefLimit = 5
	}
	if len(problematicStatuses) == 0 {
		problematicStatuses = []string{domain.StatusFailed}
	}
	return &DashboardStore{
		dashboard:           d,
		briefs:              b,
		tasks:               t,
		briefLimit:          briefLimit,
		problematicStatuses: problematicStatuses,
	}
}

func (s *DashboardStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *DashboardStore) Snapshot() DashboardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if s.state.Metrics != nil {
		m := *s.state.Metrics
		st.Metrics = &m
	}
	st.Performance = cloneSlice(s.state.Performance)
	st.LatestBriefs = cloneSlice(s.state.LatestBriefs)
	st.ProblematicTasks = cloneSlice(s.state.ProblematicTasks)
	return st
}

func (s *DashboardStore) notify() {
	s.mu.Lock()
	subs := append([]func(){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *DashboardStore) begin() {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func (s *DashboardStore) fail(err error, fallback string) {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	s.mu.Lock()
	s.state.Error = msg
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchAll loads all four sections in parallel and fails as a unit: if any
// fetch errors, every partial result is discarded and the previous snapshot
// stays visible.
func (s *DashboardStore) FetchAll(ctx context.Context) {
	s.begin()

	var (
		metrics     *domain.BusinessMetrics
		performance []domain.CLevelPerformance
		briefs      []domain.Brief
		tasks       []domain.Task
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.dashboard.GetMetrics(gctx)
		if err == remote.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		metrics = &m
		return nil
	})
	g.Go(func() error {
		var err error
		performance, err = s.dashboard.ListPerformance(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		briefs, err = s.briefs.Latest(gctx, s.briefLimit)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.ListProblematic(gctx, s.problematicStatuses)
		return err
	})
	if err := g.Wait(); err != nil {
		s.fail(err, "failed to load dashboard")
		return
	}

	s.mu.Lock()
	s.state.Metrics = metrics
	s.state.Performance = orEmptyPerformance(performance)
	s.state.LatestBriefs = orEmptyBriefs(briefs)
	s.state.ProblematicTasks = orEmptyTasks(tasks)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// FetchMetrics refreshes the metrics section only. An empty collection is a
// valid state, not an error.
func (s *DashboardStore) FetchMetrics(ctx context.Context) {
	s.begin()
	m, err := s.dashboard.GetMetrics(ctx)
	if err != nil && err != remote.ErrNotFound {
		s.fail(err, "failed to load metrics")
		return
	}
	s.mu.Lock()
	if err == remote.ErrNotFound {
		s.state.Metrics = nil
	} else {
		s.state.Metrics = &m
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *DashboardStore) FetchPerformance(ctx context.Context) {
	s.begin()
	performance, err := s.dashboard.ListPerformance(ctx)
	if err != nil {
		s.fail(err, "failed to load performance")
		return
	}
	s.mu.Lock()
	s.state.Performance = orEmptyPerformance(performance)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *DashboardStore) FetchLatestBriefs(ctx context.Context) {
	s.begin()
	briefs, err := s.briefs.Latest(ctx, s.briefLimit)
	if err != nil {
		s.fail(err, "failed to load briefs")
		return
	}
	s.mu.Lock()
	s.state.LatestBriefs = orEmptyBriefs(briefs)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *DashboardStore) FetchProblematicTasks(ctx context.Context) {
	s.begin()
	tasks, err := s.tasks.ListProblematic(ctx, s.problematicStatuses)
	if err != nil {
		s.fail(err, "failed to load tasks")
		return
	}
	s.mu.Lock()
	s.state.ProblematicTasks = orEmptyTasks(tasks)
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

func (s *DashboardStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
	s.notify()
}

func orEmptyPerformance(v []domain.CLevelPerformance) []domain.CLevelPerformance {
	if v == nil {
		return []domain.CLevelPerformance{}
	}
	return v
}

func orEmptyBriefs(v []domain.Brief) []domain.Brief {
	if v == nil {
		return []domain.Brief{}
	}
	return v
}

func orEmptyTasks(v []domain.Task) []domain.Task {
	if v == nil {
		return []domain.Task{}
	}
	return v
}
