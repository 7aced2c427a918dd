package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/intent-score/internal/domain"
	"github.com/spec-kit/intent-score/internal/events"
	"github.com/spec-kit/intent-score/internal/observability"
	"github.com/spec-kit/intent-score/internal/repository"
	"github.com/spec-kit/intent-score/internal/scoring"
)

// Scorer produces a score for lead attributes. *scoring.Client satisfies it.
type Scorer interface {
	Submit(ctx context.Context, attrs domain.LeadAttributes) scoring.Outcome
}

// IDGenerator returns a fresh lead identifier.
type IDGenerator func() (string, error)

// StoreState is the observable status of the store.
type StoreState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Count   int    `json:"count"`
}

// LeadStoreDependencies bundles collaborators for the lead store.
type LeadStoreDependencies struct {
	Scorer     Scorer
	Repository repository.LeadRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	NewID      IDGenerator
	Now        func() time.Time
}

// LeadStore owns the lead collection. Scoring runs outside the lock, so
// concurrent adds overlap and append in completion order.
type LeadStore struct {
	mu       sync.RWMutex
	leads    []domain.Lead
	inFlight int
	lastErr  string
	rev      uint64

	saveMu   sync.Mutex
	savedRev uint64

	scorer     Scorer
	repo       repository.LeadRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	newID      IDGenerator
	now        func() time.Time
}

// NewLeadStore builds the store and loads any persisted collection.
// An absent or corrupt slot yields an empty collection.
func NewLeadStore(ctx context.Context, deps LeadStoreDependencies) *LeadStore {
	s := &LeadStore{
		scorer:     deps.Scorer,
		repo:       deps.Repository,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		newID:      deps.NewID,
		now:        deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.newID == nil {
		s.newID = newUUID
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.scorer == nil {
		s.scorer = scoring.NewClient(scoring.ClientConfig{}, nil, s.logger)
	}
	s.load(ctx)
	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *LeadStore) load(ctx context.Context) {
	if s.repo == nil {
		return
	}
	leads, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrCorruptSlot):
		s.logger.Warn("discarding corrupt lead storage", zap.Error(err))
	case err != nil:
		s.logger.Warn("unable to load lead storage; starting empty", zap.Error(err))
	default:
		s.leads = leads
	}
	s.metrics.SetLeadCount(len(s.leads))
}

// AddLead scores attrs and appends the resulting lead. On failure the error is
// also kept in State until the next operation and nothing is appended.
func (s *LeadStore) AddLead(ctx context.Context, attrs domain.LeadAttributes) (*domain.Lead, error) {
	s.begin()

	lead, outcome, err := s.buildLead(ctx, attrs)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.mu.Lock()
	s.leads = append(s.leads, lead)
	s.inFlight--
	rev, snapshot := s.mutatedLocked()
	s.mu.Unlock()

	s.persist(ctx, rev, snapshot)
	s.publish(ctx, events.Event{
		Type:   events.EventLeadAdded,
		LeadID: lead.ID,
		Payload: events.LeadAddedPayload{
			InitialScore:   outcome.Result.InitialScore,
			RerankedScore:  outcome.Result.RerankedScore,
			Source:         outcome.Source,
			FallbackReason: outcome.Reason,
		},
	})
	out := lead.Clone()
	return &out, nil
}

func (s *LeadStore) buildLead(ctx context.Context, attrs domain.LeadAttributes) (domain.Lead, scoring.Outcome, error) {
	id, err := s.newID()
	if err != nil {
		return domain.Lead{}, scoring.Outcome{}, fmt.Errorf("generate lead id: %w", err)
	}
	outcome := s.scorer.Submit(ctx, attrs)
	return domain.NewLead(id, attrs, outcome.Result, outcome.Source, s.now()), outcome, nil
}

// RemoveLead deletes the lead with the given id. Unknown ids are ignored.
func (s *LeadStore) RemoveLead(ctx context.Context, id string) bool {
	s.mu.Lock()
	s.lastErr = ""
	idx := -1
	for i := range s.leads {
		if s.leads[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.leads = append(s.leads[:idx:idx], s.leads[idx+1:]...)
	rev, snapshot := s.mutatedLocked()
	s.mu.Unlock()

	s.persist(ctx, rev, snapshot)
	s.publish(ctx, events.Event{Type: events.EventLeadRemoved, LeadID: id})
	return true
}

// ClearLeads empties the collection.
func (s *LeadStore) ClearLeads(ctx context.Context) {
	s.mu.Lock()
	s.lastErr = ""
	removed := len(s.leads)
	s.leads = nil
	rev, snapshot := s.mutatedLocked()
	s.mu.Unlock()

	s.persist(ctx, rev, snapshot)
	s.publish(ctx, events.Event{
		Type:    events.EventLeadsCleared,
		Payload: events.LeadsClearedPayload{Removed: removed},
	})
}

// Leads returns a copy of the collection in insertion order.
func (s *LeadStore) Leads() []domain.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// State reports loading, the last error and the collection size.
func (s *LeadStore) State() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Loading: s.inFlight > 0,
		Error:   s.lastErr,
		Count:   len(s.leads),
	}
}

func (s *LeadStore) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	s.inFlight++
}

func (s *LeadStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	s.lastErr = err.Error()
	s.logger.Error("add lead failed", zap.Error(err))
}

func (s *LeadStore) snapshotLocked() []domain.Lead {
	out := make([]domain.Lead, len(s.leads))
	for i, lead := range s.leads {
		out[i] = lead.Clone()
	}
	return out
}

func (s *LeadStore) mutatedLocked() (uint64, []domain.Lead) {
	s.rev++
	return s.rev, s.snapshotLocked()
}

// persist is best-effort: failures are logged, never returned. Snapshots
// older than one already written are skipped.
func (s *LeadStore) persist(ctx context.Context, rev uint64, leads []domain.Lead) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if rev <= s.savedRev {
		return
	}
	s.savedRev = rev
	s.metrics.SetLeadCount(len(leads))
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, leads); err != nil {
		s.logger.Warn("failed to persist leads", zap.Int("count", len(leads)), zap.Error(err))
	}
}

func (s *LeadStore) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if id, err := newUUID(); err == nil {
		event.ID = id
	}
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
