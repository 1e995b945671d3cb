package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/weathertrack/weathertrack/internal/domain"
)

const cityColumns = `id, name, country, temperature, condition, humidity,
	wind_speed, sunrise, sunset, last_updated, created_at`

type CityRepository struct {
	pool *pgxpool.Pool
}

func NewCityRepository(pool *pgxpool.Pool) *CityRepository {
	return &CityRepository{pool: pool}
}

func (r *CityRepository) List(ctx context.Context) ([]*domain.City, error) {
	query := fmt.Sprintf(`SELECT %s FROM cities ORDER BY created_at, id`, cityColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	return collectCities(rows)
}

func (r *CityRepository) FindByName(ctx context.Context, name string) (*domain.City, error) {
	query := fmt.Sprintf(`SELECT %s FROM cities WHERE name = $1`, cityColumns)

	row := r.pool.QueryRow(ctx, query, name)
	return scanCity(row)
}

func (r *CityRepository) SearchByName(ctx context.Context, fragment string, limit int) ([]*domain.City, error) {
	// Substring match anywhere in the name, not prefix-only.
	query := fmt.Sprintf(`
		SELECT %s FROM cities
		WHERE name ILIKE '%%' || $1 || '%%'
		ORDER BY created_at, id
		LIMIT $2`, cityColumns)

	rows, err := r.pool.Query(ctx, query, fragment, limit)
	if err != nil {
		return nil, fmt.Errorf("search cities: %w", err)
	}
	defer rows.Close()

	return collectCities(rows)
}

func (r *CityRepository) Create(ctx context.Context, snap *domain.Snapshot) (*domain.City, error) {
	query := fmt.Sprintf(`
		INSERT INTO cities (
			name, country, temperature, condition, humidity,
			wind_speed, sunrise, sunset, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING %s`, cityColumns)

	row := r.pool.QueryRow(ctx, query,
		snap.Name, snap.Country, snap.Temperature, snap.Condition, snap.Humidity,
		snap.WindSpeed, snap.Sunrise, snap.Sunset,
	)

	city, err := scanCity(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Lost a race with a concurrent insert of the same name.
			return nil, domain.ErrCityAlreadyTracked
		}
		return nil, err
	}
	return city, nil
}

func (r *CityRepository) UpdateSnapshot(ctx context.Context, id string, snap *domain.Snapshot, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cities SET
			name = $2, country = $3, temperature = $4, condition = $5,
			humidity = $6, wind_speed = $7, sunrise = $8, sunset = $9,
			last_updated = $10
		WHERE id = $1`,
		id, snap.Name, snap.Country, snap.Temperature, snap.Condition,
		snap.Humidity, snap.WindSpeed, snap.Sunrise, snap.Sunset, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCityNotFound
	}
	return nil
}

func (r *CityRepository) Delete(ctx context.Context, id string) error {
	// Idempotent: zero rows affected is still success.
	if _, err := r.pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	return nil
}

func collectCities(rows pgx.Rows) ([]*domain.City, error) {
	var cities []*domain.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cities: %w", err)
	}
	return cities, nil
}

func scanCity(row pgx.Row) (*domain.City, error) {
	var c domain.City
	err := row.Scan(
		&c.ID, &c.Name, &c.Country, &c.Temperature, &c.Condition, &c.Humidity,
		&c.WindSpeed, &c.Sunrise, &c.Sunset, &c.LastUpdated, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCityNotFound
		}
		return nil, fmt.Errorf("scan city: %w", err)
	}
	return &c, nil
}
