package domain

const (
	SourceDatabase    = "database"
	SourceOpenWeather = "openweather"
)

// Suggestion is one autocomplete candidate, blended from tracked cities and
// live geocoding results. Temperature is nil for geocoding-only candidates.
type Suggestion struct {
	Name        string
	Country     string
	Temperature *float64
	Condition   string
	Source      string
}

// GeoMatch is a single upstream geocoding result. It carries no weather data.
type GeoMatch struct {
	Name    string
	Country string
}
