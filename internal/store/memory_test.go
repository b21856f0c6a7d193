package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var loc = weather.Location{Name: "Kryvyi Rih", Lat: 47.9105, Lon: 33.3918}

var base = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

func dataset(id string, started time.Time) weather.Dataset {
	return weather.Dataset{ID: id, StartedAt: started, FetchedAt: started.Add(time.Second)}
}

func TestMemoryStoreLatest(t *testing.T) {
	s := NewMemoryStore(10, 0)

	if _, err := s.GetLatest(loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	for i, id := range []string{"a", "b", "c"} {
		if err := s.SaveDataset(loc, dataset(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Keys are case-insensitive.
	got, err := s.GetLatest(weather.Location{Name: " KRYVYI RIH "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "c" {
		t.Fatalf("expected latest dataset c, got %s", got.ID)
	}
}

func TestMemoryStoreRejectsStale(t *testing.T) {
	s := NewMemoryStore(10, 0)

	if err := s.SaveDataset(loc, dataset("newer", base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveDataset(loc, dataset("older", base.Add(-time.Minute))); !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}

	got, _ := s.GetLatest(loc)
	if got.ID != "newer" {
		t.Fatalf("expected the newer dataset to stay committed, got %s", got.ID)
	}
}

func TestMemoryStoreRetention(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i, id := range []string{"a", "b", "c"} {
		_ = s.SaveDataset(loc, dataset(id, base.Add(time.Duration(i)*time.Minute)))
	}

	all, err := s.GetRange(loc, base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].ID != "b" || all[1].ID != "c" {
		t.Fatalf("expected datasets b and c, got %+v", all)
	}

	aged := NewMemoryStore(0, time.Hour)
	aged.now = func() time.Time { return base.Add(3 * time.Hour) }
	_ = aged.SaveDataset(loc, dataset("old", base))
	_ = aged.SaveDataset(loc, dataset("recent", base.Add(150*time.Minute)))

	all, _ = aged.GetRange(loc, base.Add(-time.Hour), base.Add(4*time.Hour))
	if len(all) != 1 || all[0].ID != "recent" {
		t.Fatalf("expected only the recent dataset, got %+v", all)
	}

	// The committed dataset survives age retention.
	lone := NewMemoryStore(0, time.Minute)
	lone.now = func() time.Time { return base.Add(24 * time.Hour) }
	_ = lone.SaveDataset(loc, dataset("only", base))
	if got, err := lone.GetLatest(loc); err != nil || got.ID != "only" {
		t.Fatalf("expected committed dataset to be kept, got %v, %v", got.ID, err)
	}
}

func TestMemoryStoreRange(t *testing.T) {
	s := NewMemoryStore(0, 0)
	for i, id := range []string{"a", "b", "c"} {
		_ = s.SaveDataset(loc, dataset(id, base.Add(time.Duration(i)*time.Hour)))
	}

	got, err := s.GetRange(loc, base.Add(time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected dataset b, got %+v", got)
	}

	if _, err := s.GetRange(loc, base.Add(5*time.Hour), base.Add(6*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an empty range, got %v", err)
	}
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	s := NewMemoryStore(0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SaveDataset(loc, dataset("x", base.Add(time.Duration(i)*time.Second)))
			_, _ = s.GetLatest(loc)
		}()
	}
	wg.Wait()

	got, err := s.GetLatest(loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.StartedAt.Equal(base.Add(49 * time.Second)) {
		t.Fatalf("expected the latest-started dataset to win, got %v", got.StartedAt)
	}
}
