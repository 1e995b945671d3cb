package refresher_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/weathertrack/weathertrack/internal/domain"
	"github.com/weathertrack/weathertrack/internal/refresher"
)

// ---- fakes ----

type fakeCityRepo struct {
	cities  []*domain.City
	listErr error

	updates   map[string]*domain.Snapshot
	updateErr map[string]error
}

func (r *fakeCityRepo) List(_ context.Context) ([]*domain.City, error) {
	return r.cities, r.listErr
}

func (r *fakeCityRepo) FindByName(_ context.Context, _ string) (*domain.City, error) {
	return nil, domain.ErrCityNotFound
}

func (r *fakeCityRepo) SearchByName(_ context.Context, _ string, _ int) ([]*domain.City, error) {
	return nil, nil
}

func (r *fakeCityRepo) Create(_ context.Context, _ *domain.Snapshot) (*domain.City, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeCityRepo) UpdateSnapshot(_ context.Context, id string, snap *domain.Snapshot, _ time.Time) error {
	if err := r.updateErr[id]; err != nil {
		return err
	}
	if r.updates == nil {
		r.updates = make(map[string]*domain.Snapshot)
	}
	r.updates[id] = snap
	return nil
}

func (r *fakeCityRepo) Delete(_ context.Context, _ string) error { return nil }

type fakeProvider struct {
	snapshots map[string]*domain.Snapshot // name → snapshot; missing = unresolved
	calls     []string
}

func (p *fakeProvider) Current(_ context.Context, city string) (*domain.Snapshot, error) {
	p.calls = append(p.calls, city)
	snap, ok := p.snapshots[city]
	if !ok {
		return nil, domain.ErrCityUnresolved
	}
	return snap, nil
}

// ---- helpers ----

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func city(id, name string) *domain.City {
	return &domain.City{ID: id, Name: name, LastUpdated: time.Now().Add(-2 * time.Hour)}
}

func newRefresher(t *testing.T, repo *fakeCityRepo, provider *fakeProvider) *refresher.Refresher {
	t.Helper()
	r, err := refresher.New(repo, provider, "0 * * * *", testLogger())
	if err != nil {
		t.Fatalf("new refresher: %v", err)
	}
	return r
}

// ---- New ----

func TestNew_InvalidCronExpr_Fails(t *testing.T) {
	_, err := refresher.New(&fakeCityRepo{}, &fakeProvider{}, "not a cron expr", testLogger())
	if err == nil {
		t.Fatal("want error for invalid cron expression")
	}
}

// ---- Tick ----

func TestTick_UpdatesEveryResolvedCity(t *testing.T) {
	repo := &fakeCityRepo{
		cities: []*domain.City{city("id-1", "London"), city("id-2", "Tokyo")},
	}
	provider := &fakeProvider{
		snapshots: map[string]*domain.Snapshot{
			"London": {Name: "London", Temperature: 11.5, Condition: "Rain"},
			"Tokyo":  {Name: "Tokyo", Temperature: 22.0, Condition: "Clear"},
		},
	}

	newRefresher(t, repo, provider).Tick(context.Background())

	if len(repo.updates) != 2 {
		t.Fatalf("want 2 cities updated, got %d", len(repo.updates))
	}
	if repo.updates["id-1"].Condition != "Rain" {
		t.Errorf("id-1 snapshot = %+v, want the Rain snapshot", repo.updates["id-1"])
	}
}

func TestTick_UnresolvedCity_LeftUntouched(t *testing.T) {
	repo := &fakeCityRepo{
		cities: []*domain.City{city("id-1", "Atlantis"), city("id-2", "Tokyo")},
	}
	provider := &fakeProvider{
		snapshots: map[string]*domain.Snapshot{
			"Tokyo": {Name: "Tokyo", Temperature: 22.0, Condition: "Clear"},
		},
	}

	newRefresher(t, repo, provider).Tick(context.Background())

	if _, touched := repo.updates["id-1"]; touched {
		t.Error("unresolved city was written — stale data must be kept, untouched")
	}
	if _, updated := repo.updates["id-2"]; !updated {
		t.Error("resolved city was not updated")
	}
}

// A failure on city A must not abort processing of city B.
func TestTick_PerCityFailuresAreIsolated(t *testing.T) {
	repo := &fakeCityRepo{
		cities: []*domain.City{
			city("id-1", "London"),
			city("id-2", "Tokyo"),
			city("id-3", "Paris"),
		},
		updateErr: map[string]error{"id-2": errors.New("write conflict")},
	}
	provider := &fakeProvider{
		snapshots: map[string]*domain.Snapshot{
			"London": {Name: "London"},
			"Tokyo":  {Name: "Tokyo"},
			"Paris":  {Name: "Paris"},
		},
	}

	newRefresher(t, repo, provider).Tick(context.Background())

	if len(provider.calls) != 3 {
		t.Fatalf("provider called for %d cities, want all 3: %v", len(provider.calls), provider.calls)
	}
	if _, ok := repo.updates["id-3"]; !ok {
		t.Error("city after the failing one was not processed")
	}
}

func TestTick_ListFailure_NoProviderCalls(t *testing.T) {
	repo := &fakeCityRepo{listErr: errors.New("db down")}
	provider := &fakeProvider{}

	newRefresher(t, repo, provider).Tick(context.Background())

	if len(provider.calls) != 0 {
		t.Errorf("provider called %d times after list failure", len(provider.calls))
	}
}
