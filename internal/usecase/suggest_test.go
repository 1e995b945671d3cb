package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/weathertrack/weathertrack/internal/domain"
	"github.com/weathertrack/weathertrack/internal/usecase"
)

// ---- fakes ----

type fakeCityRepo struct {
	list           func(ctx context.Context) ([]*domain.City, error)
	findByName     func(ctx context.Context, name string) (*domain.City, error)
	searchByName   func(ctx context.Context, fragment string, limit int) ([]*domain.City, error)
	create         func(ctx context.Context, snap *domain.Snapshot) (*domain.City, error)
	updateSnapshot func(ctx context.Context, id string, snap *domain.Snapshot, updatedAt time.Time) error
	deleteFn       func(ctx context.Context, id string) error

	searchCalls int
	createCalls int
}

func (r *fakeCityRepo) List(ctx context.Context) ([]*domain.City, error) {
	return r.list(ctx)
}

func (r *fakeCityRepo) FindByName(ctx context.Context, name string) (*domain.City, error) {
	return r.findByName(ctx, name)
}

func (r *fakeCityRepo) SearchByName(ctx context.Context, fragment string, limit int) ([]*domain.City, error) {
	r.searchCalls++
	return r.searchByName(ctx, fragment, limit)
}

func (r *fakeCityRepo) Create(ctx context.Context, snap *domain.Snapshot) (*domain.City, error) {
	r.createCalls++
	return r.create(ctx, snap)
}

func (r *fakeCityRepo) UpdateSnapshot(ctx context.Context, id string, snap *domain.Snapshot, updatedAt time.Time) error {
	return r.updateSnapshot(ctx, id, snap, updatedAt)
}

func (r *fakeCityRepo) Delete(ctx context.Context, id string) error {
	return r.deleteFn(ctx, id)
}

type fakeProvider struct {
	current func(ctx context.Context, city string) (*domain.Snapshot, error)
	geocode func(ctx context.Context, query string, limit int) ([]domain.GeoMatch, error)

	currentCalls int
	geocodeCalls int
}

func (p *fakeProvider) Current(ctx context.Context, city string) (*domain.Snapshot, error) {
	p.currentCalls++
	return p.current(ctx, city)
}

func (p *fakeProvider) Geocode(ctx context.Context, query string, limit int) ([]domain.GeoMatch, error) {
	p.geocodeCalls++
	return p.geocode(ctx, query, limit)
}

// ---- helpers ----

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func trackedCity(name, country string, temp float64) *domain.City {
	return &domain.City{
		ID:          "id-" + name,
		Name:        name,
		Country:     country,
		Temperature: temp,
		Condition:   "Clouds",
		Humidity:    70,
		WindSpeed:   3.5,
	}
}

func newSuggest(repo *fakeCityRepo, provider *fakeProvider) *usecase.SuggestUsecase {
	return usecase.NewSuggestUsecase(repo, provider, testLogger())
}

// ---- Suggest ----

func TestSuggest_BlankQuery_NoStorageOrProviderCalls(t *testing.T) {
	repo := &fakeCityRepo{}
	provider := &fakeProvider{}

	for _, q := range []string{"", "   ", "\t\n"} {
		got, err := newSuggest(repo, provider).Suggest(context.Background(), q)
		if err != nil {
			t.Fatalf("query %q: unexpected error: %v", q, err)
		}
		if len(got) != 0 {
			t.Errorf("query %q: want empty result, got %d entries", q, len(got))
		}
	}

	if repo.searchCalls != 0 {
		t.Errorf("storage queried %d times for blank queries", repo.searchCalls)
	}
	if provider.geocodeCalls != 0 {
		t.Errorf("provider called %d times for blank queries", provider.geocodeCalls)
	}
}

func TestSuggest_FiveLocalMatches_UpstreamNeverCalled(t *testing.T) {
	locals := []*domain.City{
		trackedCity("London", "GB", 12),
		trackedCity("Londonderry", "GB", 10),
		trackedCity("East London", "ZA", 20),
		trackedCity("New London", "US", 8),
		trackedCity("Londrina", "BR", 25),
	}
	repo := &fakeCityRepo{
		searchByName: func(_ context.Context, _ string, _ int) ([]*domain.City, error) {
			return locals, nil
		},
	}
	provider := &fakeProvider{}

	got, err := newSuggest(repo, provider).Suggest(context.Background(), "Lon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.geocodeCalls != 0 {
		t.Fatalf("upstream called %d times despite 5 local matches", provider.geocodeCalls)
	}
	if len(got) != 5 {
		t.Fatalf("want 5 suggestions, got %d", len(got))
	}
	for i, s := range got {
		if s.Source != domain.SourceDatabase {
			t.Errorf("suggestion %d source = %q, want %q", i, s.Source, domain.SourceDatabase)
		}
		if s.Name != locals[i].Name {
			t.Errorf("suggestion %d = %q, local order not preserved (want %q)", i, s.Name, locals[i].Name)
		}
	}
}

func TestSuggest_NoLocalMatches_OutputEqualsUpstream(t *testing.T) {
	repo := &fakeCityRepo{
		searchByName: func(_ context.Context, _ string, _ int) ([]*domain.City, error) {
			return nil, nil
		},
	}
	provider := &fakeProvider{
		geocode: func(_ context.Context, _ string, _ int) ([]domain.GeoMatch, error) {
			return []domain.GeoMatch{
				{Name: "Oslo", Country: "NO"},
				{Name: "Osasco", Country: "BR"},
			}, nil
		},
	}

	got, err := newSuggest(repo, provider).Suggest(context.Background(), "Os")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("want 2 suggestions, got %d", len(got))
	}
	for i, s := range got {
		if s.Source != domain.SourceOpenWeather {
			t.Errorf("suggestion %d source = %q, want %q", i, s.Source, domain.SourceOpenWeather)
		}
		if s.Temperature != nil {
			t.Errorf("suggestion %d temperature = %v, want nil", i, *s.Temperature)
		}
		if s.Condition != "Unknown" {
			t.Errorf("suggestion %d condition = %q, want Unknown", i, s.Condition)
		}
	}
	if got[0].Name != "Oslo" || got[1].Name != "Osasco" {
		t.Errorf("upstream order not preserved: %q, %q", got[0].Name, got[1].Name)
	}
}

// One local match for "Lon"; upstream returns London (dup, dropped) and
// Londonderry (kept).
func TestSuggest_DuplicateName_LocalWins(t *testing.T) {
	repo := &fakeCityRepo{
		searchByName: func(_ context.Context, _ string, _ int) ([]*domain.City, error) {
			return []*domain.City{trackedCity("London", "GB", 12)}, nil
		},
	}
	provider := &fakeProvider{
		geocode: func(_ context.Context, _ string, _ int) ([]domain.GeoMatch, error) {
			return []domain.GeoMatch{
				{Name: "London", Country: "GB"},
				{Name: "Londonderry", Country: "GB"},
			}, nil
		},
	}

	got, err := newSuggest(repo, provider).Suggest(context.Background(), "Lon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.geocodeCalls != 1 {
		t.Fatalf("upstream calls = %d, want 1 (only 1 local match)", provider.geocodeCalls)
	}

	if len(got) != 2 {
		t.Fatalf("want 2 suggestions, got %d: %+v", len(got), got)
	}
	if got[0].Name != "London" || got[0].Source != domain.SourceDatabase {
		t.Errorf("first entry = %q/%q, want London from database", got[0].Name, got[0].Source)
	}
	if got[0].Temperature == nil || *got[0].Temperature != 12 {
		t.Errorf("local entry lost its snapshot temperature: %v", got[0].Temperature)
	}
	if got[1].Name != "Londonderry" || got[1].Source != domain.SourceOpenWeather {
		t.Errorf("second entry = %q/%q, want Londonderry from openweather", got[1].Name, got[1].Source)
	}
}

func TestSuggest_DedupIsCaseSensitive(t *testing.T) {
	repo := &fakeCityRepo{
		searchByName: func(_ context.Context, _ string, _ int) ([]*domain.City, error) {
			return []*domain.City{trackedCity("london", "GB", 12)}, nil
		},
	}
	provider := &fakeProvider{
		geocode: func(_ context.Context, _ string, _ int) ([]domain.GeoMatch, error) {
			return []domain.GeoMatch{{Name: "London", Country: "GB"}}, nil
		},
	}

	got, err := newSuggest(repo, provider).Suggest(context.Background(), "lon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "london" != "London" — both survive.
	if len(got) != 2 {
		t.Fatalf("want 2 suggestions (exact-match dedup only), got %d", len(got))
	}
}

func TestSuggest_UpstreamError_DegradesToLocalOnly(t *testing.T) {
	repo := &fakeCityRepo{
		searchByName: func(_ context.Context, _ string, _ int) ([]*domain.City, error) {
			return []*domain.City{trackedCity("Paris", "FR", 15)}, nil
		},
	}
	provider := &fakeProvider{
		geocode: func(_ context.Context, _ string, _ int) ([]domain.GeoMatch, error) {
			return nil, errors.New("upstream unreachable")
		},
	}

	got, err := newSuggest(repo, provider).Suggest(context.Background(), "Par")
	if err != nil {
		t.Fatalf("upstream failure must not fail the request, got %v", err)
	}
	if len(got) != 1 || got[0].Name != "Paris" {
		t.Errorf("want the single local match, got %+v", got)
	}
}

func TestSuggest_RepoError_Propagates(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &fakeCityRepo{
		searchByName: func(_ context.Context, _ string, _ int) ([]*domain.City, error) {
			return nil, repoErr
		},
	}
	provider := &fakeProvider{}

	_, err := newSuggest(repo, provider).Suggest(context.Background(), "Lon")
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}
