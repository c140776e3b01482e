package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSelection is returned for a change the controls could not
	// have produced.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Change is one interaction event: a control set to a value.
type Change struct {
	Field domain.Field `json:"field"`
	Value string       `json:"value"`
}

// Session holds the selection of one dashboard viewer.
type Session struct {
	id    string
	store *SessionStore

	mu       sync.Mutex
	sel      domain.Selection
	lastSeen time.Time
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Selection returns the current selection.
func (s *Session) Selection() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Apply validates and applies a change, then recomputes every rule
// subscribed to the changed field. A change to the current value still
// recomputes.
func (s *Session) Apply(ctx context.Context, c Change) (domain.Selection, Outputs, error) {
	st := s.store

	s.mu.Lock()
	next, err := validateChange(st.graph.Env(), s.sel, c)
	if err != nil {
		s.mu.Unlock()
		return domain.Selection{}, nil, err
	}
	s.sel = next
	s.lastSeen = st.clock.Now()
	s.mu.Unlock()

	if m := st.graph.Env().Metrics; m != nil {
		m.SelectionChanges.WithLabelValues(string(c.Field)).Inc()
	}
	outputs := st.graph.Evaluate(next, domain.Fields(c.Field))
	st.logger.Debug("selection changed", "session_id", s.id, "field", c.Field, "value", c.Value, "outputs", len(outputs))

	st.record(ctx, domain.NewSelectionEvent(s.id, c.Field, c.Value, next))
	return next, outputs, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// validateChange returns sel with c applied, or an error wrapping
// ErrInvalidSelection.
func validateChange(env Env, sel domain.Selection, c Change) (domain.Selection, error) {
	switch c.Field {
	case domain.FieldState:
		switch {
		case c.Value == "":
		case c.Value == domain.NationwideState:
			if !env.Nationwide {
				return sel, fmt.Errorf("%w: nationwide view is disabled", ErrInvalidSelection)
			}
		case !env.Data.HasState(c.Value):
			return sel, fmt.Errorf("%w: unknown state %q", ErrInvalidSelection, c.Value)
		}
		// A county only belongs to the state it was picked from.
		if c.Value != sel.State {
			sel.County = ""
		}
		sel.State = c.Value

	case domain.FieldCounty:
		if c.Value != "" && !slices.Contains(env.Data.Counties(sel.State), c.Value) {
			return sel, fmt.Errorf("%w: county %q is not in state %q", ErrInvalidSelection, c.Value, sel.State)
		}
		sel.County = c.Value

	case domain.FieldPollutant:
		g, err := domain.ParsePollutantGroup(c.Value)
		if err != nil {
			return sel, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
		}
		sel.Pollutant = g

	case domain.FieldYear:
		year, err := strconv.Atoi(c.Value)
		if err != nil {
			return sel, fmt.Errorf("%w: year %q is not a number", ErrInvalidSelection, c.Value)
		}
		lo, hi := env.Data.YearRange()
		if year < lo || year > hi {
			return sel, fmt.Errorf("%w: year %d outside [%d, %d]", ErrInvalidSelection, year, lo, hi)
		}
		sel.Year = year

	default:
		return sel, fmt.Errorf("%w: unknown field %q", ErrInvalidSelection, c.Field)
	}
	return sel, nil
}

// DefaultPublishTimeout bounds how long a change waits on the interaction
// recorder.
const DefaultPublishTimeout = 500 * time.Millisecond

// StoreConfig configures a SessionStore.
type StoreConfig struct {
	TTL            time.Duration
	BaselineYear   int
	PublishTimeout time.Duration // zero means DefaultPublishTimeout
	Clock          clockwork.Clock
}

// SessionStore holds live sessions keyed by id and expires idle ones.
type SessionStore struct {
	graph    *Graph
	recorder domain.InteractionRecorder
	clock    clockwork.Clock
	ttl      time.Duration
	baseline int
	publish  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store. A nil recorder drops interaction
// events; a nil clock uses real time.
func NewSessionStore(graph *Graph, recorder domain.InteractionRecorder, cfg StoreConfig, logger *slog.Logger) *SessionStore {
	clk := cfg.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	publish := cfg.PublishTimeout
	if publish <= 0 {
		publish = DefaultPublishTimeout
	}
	return &SessionStore{
		graph:    graph,
		recorder: recorder,
		clock:    clk,
		ttl:      cfg.TTL,
		baseline: BaselineYear(graph.Env().Data, cfg.BaselineYear),
		publish:  publish,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session at the default selection and returns it with the
// outputs of a full evaluation.
func (st *SessionStore) Create() (*Session, Outputs) {
	s := &Session{
		id:       uuid.NewString(),
		store:    st,
		sel:      domain.Selection{Year: st.baseline},
		lastSeen: st.clock.Now(),
	}

	st.mu.Lock()
	st.sessions[s.id] = s
	n := len(st.sessions)
	st.mu.Unlock()

	st.setActive(n)
	st.logger.Info("session created", "session_id", s.id)
	return s, st.graph.EvaluateAll(s.sel)
}

// Get returns a live session and marks it active.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch(st.clock.Now())
	return s, nil
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for at least the TTL and returns how many
// were removed.
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.clock.Now()

	st.mu.Lock()
	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) >= st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if removed > 0 {
		st.setActive(n)
		st.logger.Info("expired idle sessions", "removed", removed, "active", n)
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is cancelled.
func (st *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := st.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			st.Sweep()
		}
	}
}

func (st *SessionStore) setActive(n int) {
	if m := st.graph.Env().Metrics; m != nil {
		m.SessionsActive.Set(float64(n))
	}
}

func (st *SessionStore) record(ctx context.Context, ev domain.SelectionEvent) {
	if st.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, st.publish)
	defer cancel()

	if err := st.recorder.Record(ctx, ev); err != nil {
		st.logger.Warn("interaction publish failed", "session_id", ev.SessionID, "error", err)
		if m := st.graph.Env().Metrics; m != nil {
			m.InteractionPublishErrors.Inc()
		}
	}
}
