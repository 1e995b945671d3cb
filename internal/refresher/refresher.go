// Package refresher keeps every tracked city's snapshot fresh on a fixed
// wall-clock cadence without user-triggered requests.
package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/weathertrack/weathertrack/internal/domain"
	"github.com/weathertrack/weathertrack/internal/metrics"
	"github.com/weathertrack/weathertrack/internal/repository"
)

// Provider is the slice of the weather client the refresher needs.
type Provider interface {
	Current(ctx context.Context, city string) (*domain.Snapshot, error)
}

type Refresher struct {
	cities   repository.CityRepository
	provider Provider
	schedule cron.Schedule
	logger   *slog.Logger
}

// New parses cronExpr (standard 5-field syntax, e.g. "0 * * * *" for hourly).
func New(cities repository.CityRepository, provider Provider, cronExpr string, logger *slog.Logger) (*Refresher, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse refresh cron %q: %w", cronExpr, err)
	}
	return &Refresher{
		cities:   cities,
		provider: provider,
		schedule: schedule,
		logger:   logger.With("component", "refresher"),
	}, nil
}

// Start runs ticks at the configured cadence until ctx is cancelled. Ticks
// run sequentially inside this loop, so two ticks can never overlap — a slow
// tick delays the next one instead of racing it.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Info("refresher started", "next_run", r.schedule.Next(time.Now()))

	for {
		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("refresher shut down")
			return
		case <-timer.C:
			r.Tick(ctx)
		}
	}
}

// Tick walks all tracked cities and overwrites each snapshot the provider can
// resolve. Unresolved cities keep their stale data — stale beats silently
// deleted — and one city's failure never aborts the rest of the walk.
func (r *Refresher) Tick(ctx context.Context) {
	start := time.Now()

	cities, err := r.cities.List(ctx)
	if err != nil {
		r.logger.Error("refresh tick: list cities", "error", err)
		return
	}

	var updated, unresolved, failed int
	for _, city := range cities {
		switch err := r.refreshCity(ctx, city); {
		case err == nil:
			updated++
			metrics.CitiesRefreshedTotal.WithLabelValues("updated").Inc()
		case errors.Is(err, domain.ErrCityUnresolved):
			unresolved++
			metrics.CitiesRefreshedTotal.WithLabelValues("unresolved").Inc()
			r.logger.Warn("city unresolved, keeping stale snapshot", "city", city.Name)
		default:
			failed++
			metrics.CitiesRefreshedTotal.WithLabelValues("error").Inc()
			r.logger.Error("refresh city", "city", city.Name, "error", err)
		}
	}

	metrics.RefreshTickDuration.Observe(time.Since(start).Seconds())
	metrics.RefreshLastSuccess.SetToCurrentTime()

	r.logger.Info("refresh tick complete",
		"cities", len(cities),
		"updated", updated,
		"unresolved", unresolved,
		"failed", failed,
		"duration", time.Since(start),
	)
}

func (r *Refresher) refreshCity(ctx context.Context, city *domain.City) error {
	snap, err := r.provider.Current(ctx, city.Name)
	if err != nil {
		return err
	}
	if err := r.cities.UpdateSnapshot(ctx, city.ID, snap, time.Now()); err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	return nil
}
