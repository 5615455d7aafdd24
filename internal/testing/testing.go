// package testing contains shared testing utilities
package testing

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/seedmix/seedmix/internal/models"
)

// MockProvider is a scripted test double for [services.Provider].
//
// Results maps a query to the tracks returned for it; queries not in the
// map fall back to Tracks. Features maps track IDs to analysis data.
// Calls records every search query received, in order.
type MockProvider struct {
	ProviderName string
	Results      map[string][]models.Track
	Tracks       []models.Track
	Features     map[string]*models.AudioFeatures
	SearchErr    error
	FeaturesErr  error
	Delay        time.Duration

	mu    sync.Mutex
	Calls []string
}

func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockProvider) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, query)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}

	tracks, ok := m.Results[query]
	if !ok {
		tracks = m.Tracks
	}
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}
	out := make([]models.Track, len(tracks))
	copy(out, tracks)
	return out, nil
}

func (m *MockProvider) AudioFeatures(ctx context.Context, trackID string) (*models.AudioFeatures, error) {
	if m.FeaturesErr != nil {
		return nil, m.FeaturesErr
	}
	return m.Features[trackID], nil
}

// CallCount returns the number of searches the provider has served.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// StubCache is an in-memory [repositories.Cache] double that records the
// keys written to it. It never expires entries.
type StubCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	SetKeys []string
	GetErr  error
	SetErr  error
}

func NewStubCache() *StubCache {
	return &StubCache{entries: map[string][]byte{}}
}

func (c *StubCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok, nil
}

func (c *StubCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.SetErr != nil {
		return c.SetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.SetKeys = append(c.SetKeys, key)
	return nil
}

func (c *StubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// MakeTrack builds a minimal track for test fixtures.
func MakeTrack(id, name, artist string, features *models.AudioFeatures) models.Track {
	return models.Track{
		ID:            id,
		Name:          name,
		Artist:        artist,
		Artists:       []string{artist},
		Provider:      "mock",
		ProviderID:    id,
		AudioFeatures: features,
	}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
