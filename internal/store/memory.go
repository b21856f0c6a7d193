package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no dataset is available for a given location.
	ErrNotFound = errors.New("no dataset for location")

	// ErrStale is returned when a dataset was started before the one already committed.
	ErrStale = errors.New("dataset is older than the committed one")
)

// DatasetHistory holds the committed datasets of a location, oldest first.
type DatasetHistory struct {
	Datasets []weather.Dataset
}

// MemoryStore is a concurrency-safe in-memory implementation of a dataset store.
// The newest entry of each history is the committed dataset.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*DatasetHistory

	// retention configuration
	maxHistory int           // max number of datasets per location
	maxAge     time.Duration // optional max age for datasets

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*DatasetHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveDataset commits ds as the current dataset for loc and enforces retention.
// A dataset whose refresh started before the committed one is rejected with ErrStale,
// so the most recently started refresh wins regardless of completion order.
func (s *MemoryStore) SaveDataset(loc weather.Location, ds weather.Dataset) error {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &DatasetHistory{}
		s.data[key] = history
	}

	if n := len(history.Datasets); n > 0 && ds.StartedAt.Before(history.Datasets[n-1].StartedAt) {
		return ErrStale
	}

	history.Datasets = append(history.Datasets, ds)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Datasets) > s.maxHistory {
		over := len(history.Datasets) - s.maxHistory
		history.Datasets = history.Datasets[over:]
	}

	// Enforce retention by age; the committed dataset is always kept.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Datasets)-1; i++ {
			if !history.Datasets[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.Datasets = history.Datasets[i:]
		}
	}
	return nil
}

// GetLatest returns the committed dataset for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Dataset, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Datasets) == 0 {
		return weather.Dataset{}, ErrNotFound
	}
	return history.Datasets[len(history.Datasets)-1], nil
}

// GetRange returns all datasets for a location fetched between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.Dataset, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Datasets) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Dataset
	for _, ds := range history.Datasets {
		if !ds.FetchedAt.Before(from) && !ds.FetchedAt.After(to) {
			result = append(result, ds)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

var _ weather.Store = (*MemoryStore)(nil)
