package srv

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/opd-ai/chordbook/export"
)

type RunState string

const (
	StateRunning     RunState = "running"
	StateCompleted   RunState = "completed"
	StateInterrupted RunState = "interrupted"
)

// run is one export started over HTTP. Progress messages are kept so that
// late websocket clients see the whole run.
type run struct {
	ID      string
	Started time.Time

	mu       sync.RWMutex
	state    RunState
	progress []export.Progress
	report   *export.Report
	err      error
	changed  chan struct{}
	cancel   context.CancelFunc
}

func (r *run) publish(p export.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p)
	close(r.changed)
	r.changed = make(chan struct{})
}

func (r *run) finish(report *export.Report, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report = report
	r.err = err
	r.state = StateCompleted
	if err != nil {
		r.state = StateInterrupted
	}
	close(r.changed)
	r.changed = make(chan struct{})
}

// since returns the progress messages from index from on, whether the run
// is over, and a channel closed on the next change.
func (r *run) since(from int) ([]export.Progress, bool, <-chan struct{}) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ps []export.Progress
	if from < len(r.progress) {
		ps = append(ps, r.progress[from:]...)
	}
	return ps, r.state != StateRunning, r.changed
}

type runStatus struct {
	ID      string         `json:"id"`
	State   RunState       `json:"state"`
	Started time.Time      `json:"started"`
	Done    int            `json:"done"`
	Total   int            `json:"total"`
	Error   string         `json:"error,omitempty"`
	Report  *export.Report `json:"report,omitempty"`
	Failed  []failure      `json:"failed,omitempty"`
}

type failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func (r *run) status() runStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := runStatus{ID: r.ID, State: r.state, Started: r.Started, Report: r.report}
	if n := len(r.progress); n > 0 {
		st.Done = r.progress[n-1].Done
		st.Total = r.progress[n-1].Total
	}
	if r.err != nil {
		st.Error = r.err.Error()
	}
	if r.report != nil {
		for _, res := range r.report.Failed() {
			st.Failed = append(st.Failed, failure{Path: res.Path, Error: res.Error()})
		}
	}
	return st
}

// runManager runs at most one export at a time.
type runManager struct {
	runs *cache.Cache

	mu     sync.Mutex
	active *run
}

func newRunManager(ttl time.Duration) *runManager {
	return &runManager{runs: cache.New(ttl, ttl/4)}
}

// start launches an export on a copy of e unless one is still running, in
// which case the running one is returned with false.
func (m *runManager) start(e *export.Exporter, logger *slog.Logger) (*run, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		return m.active, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		ID:      uuid.NewString(),
		Started: time.Now(),
		state:   StateRunning,
		changed: make(chan struct{}),
		cancel:  cancel,
	}
	m.active = r
	m.runs.Set(r.ID, r, cache.NoExpiration)

	x := *e
	x.RunID = r.ID
	x.Progress = r.publish
	go func() {
		defer cancel()
		report, err := x.Run(ctx)
		if err != nil {
			logger.Warn("export run interrupted", "run", r.ID, "error", err)
		}
		m.mu.Lock()
		m.active = nil
		m.mu.Unlock()
		m.runs.Set(r.ID, r, cache.DefaultExpiration)
		r.finish(report, err)
	}()
	return r, true
}

func (m *runManager) get(id string) (*run, bool) {
	v, ok := m.runs.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*run), true
}

func (m *runManager) cancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.active.cancel()
	}
}

func (s *Server) handleStartExport(w http.ResponseWriter, r *http.Request) {
	run, started := s.runs.start(s.exporter, s.logger)
	if !started {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "an export is already running", "id": run.ID})
		return
	}
	s.logger.Info("export run started", "run", run.ID)
	w.Header().Set("Location", "/exports/"+run.ID)
	writeJSON(w, http.StatusAccepted, map[string]string{"id": run.ID})
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	run, ok := s.runs.get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown export")
		return
	}
	writeJSON(w, http.StatusOK, run.status())
}
