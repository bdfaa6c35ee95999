package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/legaldefense/plazos/pkg/errors"
)

// HolidayProvider supplies the statutory holiday set for a given year.
// Implementations include the in-memory table below, the Postgres-backed
// repository, and the caching decorator in the infrastructure layer.
type HolidayProvider interface {
	// Holidays returns every national holiday of the given year.  A year
	// without registered data yields an empty slice and no error; callers
	// that require coverage should check the result length.
	Holidays(ctx context.Context, year int) ([]time.Time, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// StaticProvider — in-memory statutory table
// ─────────────────────────────────────────────────────────────────────────────

// StaticProvider is an in-memory HolidayProvider seeded with the Spanish
// national holiday table.  Additional years can be registered at startup;
// after that the provider is read-only and safe for concurrent use.
type StaticProvider struct {
	mu    sync.RWMutex
	years map[int][]time.Time
}

// NewStaticProvider returns a provider pre-loaded with the national holiday
// tables shipped with the engine.
func NewStaticProvider() *StaticProvider {
	p := &StaticProvider{years: make(map[int][]time.Time)}

	// Festivos nacionales.  Movable feasts (Viernes Santo) differ per year.
	mustRegister(p, 2025, []string{
		"2025-01-01", // Año Nuevo
		"2025-01-06", // Reyes
		"2025-04-18", // Viernes Santo
		"2025-05-01", // Día del Trabajo
		"2025-08-15", // Asunción
		"2025-10-12", // Fiesta Nacional
		"2025-11-01", // Todos los Santos
		"2025-12-06", // Constitución
		"2025-12-08", // Inmaculada
		"2025-12-25", // Navidad
	})
	mustRegister(p, 2026, []string{
		"2026-01-01",
		"2026-01-06",
		"2026-04-03", // Viernes Santo
		"2026-05-01",
		"2026-08-15",
		"2026-10-12",
		"2026-11-01",
		"2026-12-06",
		"2026-12-08",
		"2026-12-25",
	})

	return p
}

func mustRegister(p *StaticProvider, year int, rows []string) {
	if err := p.RegisterISO(year, rows); err != nil {
		panic(err)
	}
}

// RegisterISO adds the holiday table for a year from ISO YYYY-MM-DD rows.
// Rows that fail to parse, or that belong to a different year, yield an
// ErrCodeCalendarConfig error and leave the provider unchanged.
func (p *StaticProvider) RegisterISO(year int, rows []string) error {
	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		d, err := time.ParseInLocation(isoDate, row, time.UTC)
		if err != nil {
			return errors.Newf(errors.ErrCodeCalendarConfig, "malformed holiday date %q", row)
		}
		if d.Year() != year {
			return errors.Newf(errors.ErrCodeCalendarConfig,
				"holiday %q does not belong to year %d", row, year)
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	p.mu.Lock()
	p.years[year] = dates
	p.mu.Unlock()
	return nil
}

// Holidays implements HolidayProvider.
func (p *StaticProvider) Holidays(_ context.Context, year int) ([]time.Time, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	dates := p.years[year]
	out := make([]time.Time, len(dates))
	copy(out, dates)
	return out, nil
}

// Years lists the years with registered holiday data, sorted ascending.
func (p *StaticProvider) Years() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	years := make([]int, 0, len(p.years))
	for y := range p.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
