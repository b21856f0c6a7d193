package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/model"
)

// Status states.
const (
	StatePending = "pending"
	StateOK      = "ok"
	StateError   = "error"
)

// Status is the top-level indicator of the last refresh for a location.
type Status struct {
	State     string    `json:"state"`
	Kind      string    `json:"kind,omitempty"`
	Message   string    `json:"message,omitempty"`
	DatasetID string    `json:"datasetId,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	At        time.Time `json:"at"`
}

// Service orchestrates the fetch, build and commit cycle for each location.
type Service struct {
	store    Store
	provider Provider
	strategy ForecastStrategy
	locale   Locale
	now      func() time.Time

	mu     sync.RWMutex
	status map[string]Status
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, strategy ForecastStrategy, locale Locale) *Service {
	return &Service{
		store:    store,
		provider: provider,
		strategy: strategy,
		locale:   locale,
		now:      time.Now,
		status:   make(map[string]Status),
	}
}

// StrategyName reports which forecast strategy was selected at startup.
func (s *Service) StrategyName() string {
	return s.strategy.Name()
}

// Refresh fetches a fresh forecast for loc, builds the dataset and commits it.
// A failed refresh leaves the committed dataset untouched and records the failure
// in the location status.
func (s *Service) Refresh(ctx context.Context, loc Location) (Dataset, error) {
	startedAt := s.now().UTC()
	log.Printf("DEBUG: Refresh called for %s using %s strategy", loc.Key(), s.strategy.Name())

	if s.provider == nil {
		err := fmt.Errorf("%w: no weather provider configured", ErrSourceUnavailable)
		s.fail(loc, startedAt, err)
		return Dataset{}, err
	}

	src, err := s.provider.FetchForecast(ctx, loc)
	if err != nil {
		log.Printf("ERROR: provider %s fetch failed for %s: %v", s.provider.Name(), loc.Key(), err)
		s.fail(loc, startedAt, err)
		return Dataset{}, err
	}
	if src.Location.Name == "" {
		src.Location = loc
	}
	if n := len(src.Warnings); n > 0 {
		metrics.DefaultedFields.WithLabelValues(loc.Key()).Add(float64(n))
		for _, w := range src.Warnings {
			log.Printf("WARN: %s: %s", loc.Key(), w)
		}
	}

	ds, err := BuildDataset(ctx, src, s.strategy, s.locale)
	if err != nil {
		log.Printf("ERROR: building dataset for %s failed: %v", loc.Key(), err)
		s.fail(loc, startedAt, err)
		return Dataset{}, err
	}

	ds.ID = uuid.NewString()
	ds.Location = loc
	ds.StartedAt = startedAt
	ds.FetchedAt = s.now().UTC()

	if err := s.store.SaveDataset(loc, ds); err != nil {
		// A newer refresh already committed; its status stands.
		log.Printf("INFO: dataset %s for %s not committed: %v", ds.ID, loc.Key(), err)
		metrics.Refreshes.WithLabelValues(s.strategy.Name(), "discarded").Inc()
		return Dataset{}, err
	}

	metrics.Refreshes.WithLabelValues(ds.Strategy, StateOK).Inc()
	s.setStatus(loc, Status{State: StateOK, DatasetID: ds.ID, StartedAt: startedAt, At: ds.FetchedAt})
	return ds, nil
}

// Status returns the status of the last refresh for loc.
func (s *Service) Status(loc Location) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.status[loc.Key()]
	if !ok {
		return Status{State: StatePending}
	}
	return st
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Dataset, error) {
	return s.store.GetLatest(loc)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(loc Location, from, to time.Time) ([]Dataset, error) {
	return s.store.GetRange(loc, from, to)
}

func (s *Service) fail(loc Location, startedAt time.Time, err error) {
	kind := ErrorKind(err)
	metrics.Refreshes.WithLabelValues(s.strategy.Name(), kind).Inc()
	s.setStatus(loc, Status{
		State:     StateError,
		Kind:      kind,
		Message:   err.Error(),
		StartedAt: startedAt,
		At:        s.now().UTC(),
	})
}

// setStatus records st unless a refresh that started later already reported.
func (s *Service) setStatus(loc Location, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.status[loc.Key()]; ok && st.StartedAt.Before(cur.StartedAt) {
		log.Printf("INFO: status from refresh started %s for %s superseded", st.StartedAt.Format(time.RFC3339), loc.Key())
		return
	}
	s.status[loc.Key()] = st
}

// ErrorKind classifies a refresh error for the status indicator and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return StateOK
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, model.ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}
