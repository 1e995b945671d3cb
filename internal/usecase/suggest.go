package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/weathertrack/weathertrack/internal/domain"
	"github.com/weathertrack/weathertrack/internal/repository"
)

// suggestLimit caps both the local query and the upstream geocoding call,
// so the merged output never exceeds 2*suggestLimit entries.
const suggestLimit = 5

type SuggestUsecase struct {
	cities   repository.CityRepository
	provider WeatherProvider
	logger   *slog.Logger
}

func NewSuggestUsecase(cities repository.CityRepository, provider WeatherProvider, logger *slog.Logger) *SuggestUsecase {
	return &SuggestUsecase{
		cities:   cities,
		provider: provider,
		logger:   logger.With("component", "suggest"),
	}
}

// Suggest blends tracked cities with live geocoding candidates for an
// autocomplete query:
//
//   - a blank query short-circuits to an empty list with no storage or
//     provider call;
//   - up to 5 local matches (case-insensitive substring, insertion order)
//     always come first, tagged source "database";
//   - upstream is consulted only when fewer than 5 local matches exist, and
//     an upstream candidate whose name exactly equals a local name is dropped
//     — already-tracked entries win;
//   - upstream failures degrade to zero candidates, never to a failed request.
func (u *SuggestUsecase) Suggest(ctx context.Context, query string) ([]domain.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Suggestion{}, nil
	}

	local, err := u.cities.SearchByName(ctx, query, suggestLimit)
	if err != nil {
		return nil, fmt.Errorf("search cities: %w", err)
	}

	suggestions := make([]domain.Suggestion, 0, 2*suggestLimit)
	seen := make(map[string]struct{}, len(local))
	for _, c := range local {
		temp := c.Temperature
		suggestions = append(suggestions, domain.Suggestion{
			Name:        c.Name,
			Country:     c.Country,
			Temperature: &temp,
			Condition:   c.Condition,
			Source:      domain.SourceDatabase,
		})
		seen[c.Name] = struct{}{}
	}

	if len(local) >= suggestLimit {
		return suggestions, nil
	}

	matches, err := u.provider.Geocode(ctx, query, suggestLimit)
	if err != nil {
		// Upstream trouble must not break autocomplete.
		u.logger.Warn("geocode failed, returning local matches only", "query", query, "error", err)
		return suggestions, nil
	}

	for _, m := range matches {
		if _, dup := seen[m.Name]; dup {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{
			Name:      m.Name,
			Country:   m.Country,
			Condition: "Unknown",
			Source:    domain.SourceOpenWeather,
		})
	}

	return suggestions, nil
}
