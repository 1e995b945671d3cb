package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weathertrack/weathertrack/internal/domain"
	"github.com/weathertrack/weathertrack/internal/repository"
)

// WeatherProvider is the slice of the weather client the usecases need.
// Defined at the point of use so tests can inject a fake.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (*domain.Snapshot, error)
	Geocode(ctx context.Context, query string, limit int) ([]domain.GeoMatch, error)
}

type CityUsecase struct {
	cities   repository.CityRepository
	provider WeatherProvider
}

func NewCityUsecase(cities repository.CityRepository, provider WeatherProvider) *CityUsecase {
	return &CityUsecase{cities: cities, provider: provider}
}

func (u *CityUsecase) List(ctx context.Context) ([]*domain.City, error) {
	cities, err := u.cities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

// Add tracks a new city. The existence check runs before any provider call,
// so a duplicate name costs no upstream round-trip; nothing is persisted when
// the provider cannot resolve the name.
func (u *CityUsecase) Add(ctx context.Context, name string) (*domain.City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrCityUnresolved
	}

	_, err := u.cities.FindByName(ctx, name)
	switch {
	case err == nil:
		return nil, domain.ErrCityAlreadyTracked
	case !errors.Is(err, domain.ErrCityNotFound):
		return nil, fmt.Errorf("check existing city: %w", err)
	}

	snap, err := u.provider.Current(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrCityUnresolved) {
			return nil, domain.ErrCityUnresolved
		}
		return nil, fmt.Errorf("fetch weather: %w", err)
	}

	city, err := u.cities.Create(ctx, snap)
	if err != nil {
		if errors.Is(err, domain.ErrCityAlreadyTracked) {
			return nil, domain.ErrCityAlreadyTracked
		}
		return nil, fmt.Errorf("create city: %w", err)
	}
	return city, nil
}

// Remove deletes a tracked city by ID. Removing an already-gone ID succeeds:
// the caller cannot tell "removed now" from "was never there".
func (u *CityUsecase) Remove(ctx context.Context, id string) error {
	if err := u.cities.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove city: %w", err)
	}
	return nil
}

// Weather fetches a live snapshot for any city name, tracked or not.
func (u *CityUsecase) Weather(ctx context.Context, name string) (*domain.Snapshot, error) {
	snap, err := u.provider.Current(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrCityUnresolved) {
			return nil, domain.ErrCityUnresolved
		}
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	return snap, nil
}
