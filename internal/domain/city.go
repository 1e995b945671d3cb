package domain

import (
	"errors"
	"time"
)

var (
	ErrCityNotFound       = errors.New("city not found")
	ErrCityAlreadyTracked = errors.New("city is already tracked")
	// ErrCityUnresolved means the weather provider could not resolve the name —
	// network failure, non-2xx response and malformed payloads all collapse into it.
	ErrCityUnresolved = errors.New("city could not be resolved by the weather provider")
)

// Snapshot is the weather-data subset of a city as returned by the provider.
// It is filled all-or-nothing: a city is never persisted with a partial snapshot.
type Snapshot struct {
	Name        string  // canonical name per the provider, not the user's input
	Country     string  // ISO country code, may be empty
	Temperature float64 // °C
	Condition   string  // short label, e.g. "Clear"
	Humidity    int     // percent, 0–100
	WindSpeed   float64 // provider units (m/s for OpenWeather metric)
	Sunrise     int64   // unix seconds
	Sunset      int64   // unix seconds
}

// City is one tracked city with its last cached snapshot.
type City struct {
	ID          string
	Name        string
	Country     string
	Temperature float64
	Condition   string
	Humidity    int
	WindSpeed   float64
	Sunrise     int64
	Sunset      int64
	LastUpdated time.Time
	CreatedAt   time.Time
}
