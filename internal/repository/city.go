package repository

import (
	"context"
	"time"

	"github.com/weathertrack/weathertrack/internal/domain"
)

// Usecases depend on the interface, not the pgx implementation, so tests can
// inject fakes and the store can be swapped without touching business rules.
type CityRepository interface {
	// List returns every tracked city ordered by created_at, id.
	List(ctx context.Context) ([]*domain.City, error)

	// FindByName does an exact, case-sensitive match on the stored name.
	// Returns ErrCityNotFound when no such city is tracked.
	FindByName(ctx context.Context, name string) (*domain.City, error)

	// SearchByName returns up to limit cities whose name contains fragment,
	// case-insensitive, in insertion order (created_at, id).
	SearchByName(ctx context.Context, fragment string, limit int) ([]*domain.City, error)

	Create(ctx context.Context, snap *domain.Snapshot) (*domain.City, error)

	// UpdateSnapshot overwrites the weather fields of one city in a single
	// atomic write and stamps last_updated.
	UpdateSnapshot(ctx context.Context, id string, snap *domain.Snapshot, updatedAt time.Time) error

	// Delete removes a city by ID. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}
