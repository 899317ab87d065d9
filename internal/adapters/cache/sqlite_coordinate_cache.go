package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tour-route-service/internal/domain"
)

// SQLite backed coordinate cache. Keys are expected to be consistent
// (e.g., already normalized) by the caller.
type SqliteCoordinateCache struct {
	DB *sql.DB
}

func NewSqliteCoordinateCache(db *sql.DB) *SqliteCoordinateCache {
	return &SqliteCoordinateCache{DB: db}
}

// InitSqliteSchema creates the coordinate cache table.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS coordinate_cache (
        place TEXT PRIMARY KEY,
        lat REAL NOT NULL,
        lon REAL NOT NULL
    );
	`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create coordinate_cache: %w", err)
	}

	return nil
}

func (s *SqliteCoordinateCache) Get(ctx context.Context, key string) (domain.Coordinates, bool, error) {
	if s.DB == nil {
		return domain.Coordinates{}, false, errors.New("coordinate cache: db is nil")
	}

	q := `
	SELECT lat, lon
    FROM coordinate_cache
    WHERE place = ?;
	`

	var lat, lon float64
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&lat, &lon)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("get coordinate cache: query %q: %w", key, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, true, nil
}

func (s *SqliteCoordinateCache) Put(ctx context.Context, key string, coords domain.Coordinates) error {
	if s.DB == nil {
		return errors.New("coordinate cache: db is nil")
	}
	if key == "" {
		return errors.New("insert coordinate cache: key must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO coordinate_cache (
        place,
        lat,
        lon
    )
    VALUES (?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, q, key, coords.Lat, coords.Lon); err != nil {
		return fmt.Errorf("insert coordinate cache %q: %w", key, err)
	}

	return nil
}
