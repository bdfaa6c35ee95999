// Package holidays composes holiday providers: the postgres repository as
// the source of truth, redis as a read-through cache, and the built-in
// static tables as a last resort.
package holidays

import (
	"context"
	"fmt"
	"time"

	"github.com/legaldefense/plazos/internal/domain/calendar"
	"github.com/legaldefense/plazos/internal/domain/dates"
	"github.com/legaldefense/plazos/internal/infrastructure/database/redis"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/prometheus"
)

// CachedProvider is a read-through cache in front of another provider.
// Concurrent misses for the same year collapse into one upstream call.
type CachedProvider struct {
	source  calendar.HolidayProvider
	cache   redis.Cache
	ttl     time.Duration
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	name    string
}

// CachedProviderOption customizes the provider.
type CachedProviderOption func(*CachedProvider)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) CachedProviderOption {
	return func(p *CachedProvider) { p.ttl = ttl }
}

// WithMetrics records hit and miss counters.
func WithMetrics(m *prometheus.AppMetrics) CachedProviderOption {
	return func(p *CachedProvider) { p.metrics = m }
}

// NewCachedProvider wraps source with the cache.
func NewCachedProvider(source calendar.HolidayProvider, cache redis.Cache, log logging.Logger, opts ...CachedProviderOption) *CachedProvider {
	if log == nil {
		log = logging.NewNopLogger()
	}
	p := &CachedProvider{
		source: source,
		cache:  cache,
		ttl:    24 * time.Hour,
		logger: log.Named("holidays"),
		name:   "redis",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Holidays implements calendar.HolidayProvider.
func (p *CachedProvider) Holidays(ctx context.Context, year int) ([]time.Time, error) {
	key := fmt.Sprintf("festivos:%d", year)

	var payload []string
	missed := false
	err := p.cache.GetOrSet(ctx, key, &payload, p.ttl, func(ctx context.Context) (interface{}, error) {
		missed = true
		days, err := p.source.Holidays(ctx, year)
		if err != nil {
			return nil, err
		}
		encoded := make([]string, 0, len(days))
		for _, d := range days {
			encoded = append(encoded, dates.FormatISO(d))
		}
		return encoded, nil
	})
	if err == redis.ErrCacheMiss {
		// A year with no holidays on record is a valid, empty calendar.
		p.recordMiss()
		return nil, nil
	}
	if err != nil {
		if missed {
			// The upstream source itself failed.
			if p.metrics != nil {
				p.metrics.HolidaySourceErrors.WithLabelValues(p.name).Inc()
			}
			return nil, err
		}
		// Cache trouble only: degrade to a direct lookup.
		p.logger.Warn("holiday cache unavailable, querying source directly",
			logging.Int("year", year), logging.Err(err))
		return p.source.Holidays(ctx, year)
	}

	if missed {
		p.recordMiss()
	} else if p.metrics != nil {
		p.metrics.HolidayCacheHits.WithLabelValues(p.name).Inc()
	}

	days := make([]time.Time, 0, len(payload))
	for _, s := range payload {
		d, err := dates.ParseISO(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

func (p *CachedProvider) recordMiss() {
	if p.metrics != nil {
		p.metrics.HolidayCacheMisses.WithLabelValues(p.name).Inc()
	}
}

// FallbackProvider consults providers in order, returning the first
// non-empty answer. Errors are logged and skipped until the chain runs out.
type FallbackProvider struct {
	chain  []calendar.HolidayProvider
	logger logging.Logger
}

// NewFallbackProvider builds the chain; earlier providers win.
func NewFallbackProvider(log logging.Logger, chain ...calendar.HolidayProvider) *FallbackProvider {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &FallbackProvider{chain: chain, logger: log.Named("holidays")}
}

// Holidays implements calendar.HolidayProvider.
func (p *FallbackProvider) Holidays(ctx context.Context, year int) ([]time.Time, error) {
	var lastErr error
	for i, provider := range p.chain {
		days, err := provider.Holidays(ctx, year)
		if err != nil {
			p.logger.Warn("holiday provider failed, trying next",
				logging.Int("position", i), logging.Int("year", year), logging.Err(err))
			lastErr = err
			continue
		}
		if len(days) > 0 {
			return days, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}
