package holidays

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legaldefense/plazos/internal/domain/calendar"
	"github.com/legaldefense/plazos/internal/infrastructure/database/redis"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
	"github.com/legaldefense/plazos/pkg/errors"
)

// memoryCache is an in-process stand-in for the redis cache.
type memoryCache struct {
	data map[string][]byte
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	if m.err != nil {
		return m.err
	}
	raw, ok := m.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memoryCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if err := m.Get(ctx, key, dest); err == nil {
		return nil
	} else if err != redis.ErrCacheMiss {
		return err
	}
	loaded, err := loader(ctx)
	if err != nil {
		return err
	}
	if loaded == nil {
		return redis.ErrCacheMiss
	}
	if err := m.Set(ctx, key, loaded, ttl); err != nil {
		return err
	}
	raw, _ := json.Marshal(loaded)
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Ping(context.Context) error { return nil }

type countingProvider struct {
	inner calendar.HolidayProvider
	calls int
	err   error
}

func (p *countingProvider) Holidays(ctx context.Context, year int) ([]time.Time, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.inner.Holidays(ctx, year)
}

func TestCachedProvider_MissThenHit(t *testing.T) {
	source := &countingProvider{inner: calendar.NewStaticProvider()}
	cache := newMemoryCache()
	p := NewCachedProvider(source, cache, logging.NewNopLogger())

	first, err := p.Holidays(context.Background(), 2025)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assert.Equal(t, 1, source.calls)

	second, err := p.Holidays(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls, "second lookup must come from cache")
}

func TestCachedProvider_SourceFailure(t *testing.T) {
	source := &countingProvider{err: errors.Internal("db down")}
	p := NewCachedProvider(source, newMemoryCache(), logging.NewNopLogger())

	_, err := p.Holidays(context.Background(), 2025)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestCachedProvider_CacheFailureDegradesToSource(t *testing.T) {
	source := &countingProvider{inner: calendar.NewStaticProvider()}
	cache := newMemoryCache()
	cache.err = errors.New(errors.ErrCodeCacheError, "connection refused")
	p := NewCachedProvider(source, cache, logging.NewNopLogger())

	days, err := p.Holidays(context.Background(), 2025)
	require.NoError(t, err)
	assert.Len(t, days, 10)
	assert.Equal(t, 1, source.calls)
}

func TestCachedProvider_EmptyYear(t *testing.T) {
	source := &countingProvider{inner: calendar.NewStaticProvider()}
	p := NewCachedProvider(source, newMemoryCache(), logging.NewNopLogger())

	days, err := p.Holidays(context.Background(), 2030)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestFallbackProvider_PrimaryWins(t *testing.T) {
	primary := calendar.NewStaticProvider()
	secondary := &countingProvider{inner: calendar.NewStaticProvider()}
	p := NewFallbackProvider(logging.NewNopLogger(), primary, secondary)

	days, err := p.Holidays(context.Background(), 2025)
	require.NoError(t, err)
	assert.Len(t, days, 10)
	assert.Zero(t, secondary.calls)
}

func TestFallbackProvider_FallsThroughOnErrorAndEmpty(t *testing.T) {
	broken := &countingProvider{err: errors.Internal("db down")}
	static := calendar.NewStaticProvider()
	p := NewFallbackProvider(logging.NewNopLogger(), broken, static)

	days, err := p.Holidays(context.Background(), 2026)
	require.NoError(t, err)
	assert.Len(t, days, 10)

	// Every provider failing surfaces the last error.
	p = NewFallbackProvider(logging.NewNopLogger(), broken)
	_, err = p.Holidays(context.Background(), 2026)
	require.Error(t, err)
}
