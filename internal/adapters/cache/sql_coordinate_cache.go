package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
)

// SQLCoordinateCache is the Postgres flavor of the coordinate cache,
// used when several instances share one durable store.
type SQLCoordinateCache struct {
	DB *sql.DB
}

func NewSQLCoordinateCache(db *sql.DB) *SQLCoordinateCache {
	return &SQLCoordinateCache{DB: db}
}

// InitSQLSchema creates the coordinate cache table.
func InitSQLSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS coordinate_cache (
        place TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lon DOUBLE PRECISION NOT NULL
    );
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init schema: create coordinate_cache: %w", err)
	}

	return nil
}

func (s *SQLCoordinateCache) Get(ctx context.Context, key string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "coordinate.cache.Get")(&err)

	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("coordinate cache: db is nil")
	}

	q := `
	SELECT lat, lon
    FROM coordinate_cache
    WHERE place = $1;
	`

	var lat, lon float64
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get coordinate cache: query %q: %w", key, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, true, nil
}

func (s *SQLCoordinateCache) Put(ctx context.Context, key string, coords domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("coordinate cache: db is nil")
	}
	if key == "" {
		return errors.New("insert coordinate cache: key must not be empty")
	}

	q := `
	INSERT INTO coordinate_cache (place, lat, lon)
    VALUES ($1, $2, $3)
	ON CONFLICT (place) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, coords.Lat, coords.Lon); err != nil {
		return fmt.Errorf("insert coordinate cache %q: %w", key, err)
	}

	return nil
}
