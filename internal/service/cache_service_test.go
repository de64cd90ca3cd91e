package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-portal-api/internal/models"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
)

type memoryCache struct {
	entries map[string][]byte
	getErr  error
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.entries, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func TestRememberLoadsOnceThenHits(t *testing.T) {
	store := newMemoryCache()
	metrics := NewMetricsService()
	cache := NewCacheService(store, metrics, time.Minute, nil, true)

	loads := 0
	load := func(context.Context) (*models.ApplicationStatistics, error) {
		loads++
		return &models.ApplicationStatistics{Total: 4, Submitted: 2}, nil
	}

	first, hit, err := Remember(context.Background(), cache, "applications:stats", 0, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4, first.Total)

	second, hit, err := Remember(context.Background(), cache, "applications:stats", 0, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, second.Submitted)
	assert.Equal(t, 1, loads)

	snap := metrics.Snapshot()
	assert.EqualValues(t, 1, snap.CacheHits)
	assert.EqualValues(t, 1, snap.CacheMisses)
}

func TestCacheServiceDisabledAlwaysLoads(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), nil, 0, nil, false)

	loads := 0
	for i := 0; i < 2; i++ {
		_, hit, err := Remember(context.Background(), cache, "k", 0, func(context.Context) (int, error) {
			loads++
			return loads, nil
		})
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, loads)
}

func TestCacheServiceStoreErrorsAreMisses(t *testing.T) {
	store := newMemoryCache()
	store.getErr = errors.New("connection refused")
	cache := NewCacheService(store, nil, 0, nil, true)

	var dest int
	assert.False(t, cache.Get(context.Background(), "k", &dest))

	cache.Invalidate(context.Background(), "a", "b")
	assert.Equal(t, []string{"a", "b"}, store.deleted)
}
