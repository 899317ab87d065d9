package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"tour-route-service/internal/adapters/cache"
	"tour-route-service/internal/adapters/fetch"
	"tour-route-service/internal/adapters/geocode"
	"tour-route-service/internal/adapters/routing"
	"tour-route-service/internal/api"
	"tour-route-service/internal/platform/db"
	"tour-route-service/internal/ports"
	"tour-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (geocoders, OSRM, coordinate cache) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := getEnv("PORT", "8080")
	photonURL := getEnv("PHOTON_URL", "https://photon.komoot.io/api")
	nominatimURL := getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search")
	osrmURL := getEnv("OSRM_BASE_URL", "https://router.project-osrm.org")
	bbox := getEnv("GEOCODE_BBOX", "68.0,6.5,97.5,35.5")
	countryCodes := getEnv("COUNTRY_CODES", "in")

	coordCache, closeCache, err := openCoordinateCache()
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	fetcher := fetch.New(&http.Client{})

	// Public geocoders enforce usage policies; Nominatim in particular
	// wants at most one request per second from a client.
	photon := geocode.NewPhoton(fetcher, fetch.NewPacer(50*time.Millisecond), photonURL, bbox)
	nominatim := geocode.NewNominatim(fetcher, fetch.NewPacer(2*time.Second), nominatimURL, countryCodes)

	resolver := services.NewResolver(coordCache, []ports.Geocoder{photon, nominatim}, nil)
	builder := services.NewMatrixBuilder(routing.New(fetcher, osrmURL))
	planner := services.NewPlanner(resolver, builder)

	router := api.NewRouter(planner)

	// Timeouts are tuned for cold-cache requests (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openCoordinateCache selects the cache backend from CACHE_DRIVER:
// "file" (default), "sqlite", "postgres", or "redis".
func openCoordinateCache() (ports.CoordinateCache, func(), error) {
	noop := func() {}

	switch driver := getEnv("CACHE_DRIVER", "file"); driver {
	case "file":
		path := getEnv("CACHE_PATH", "data/geocode_cache.json")
		c, err := cache.NewFileCoordinateCache(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open coordinate cache: %w", err)
		}
		return c, noop, nil

	case "sqlite":
		path := getEnv("DB_PATH", "data/app.db")
		sqlDB, err := openSqlite(path)
		if err != nil {
			return nil, noop, fmt.Errorf("open coordinate cache: %w", err)
		}
		if err := cache.InitSqliteSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, noop, fmt.Errorf("open coordinate cache: %w", err)
		}
		return cache.NewSqliteCoordinateCache(sqlDB), func() { sqlDB.Close() }, nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, noop, fmt.Errorf("open coordinate cache: DATABASE_URL is required for postgres")
		}
		sqlDB, err := db.Open(databaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open coordinate cache: %w", err)
		}
		if err := cache.InitSQLSchema(context.Background(), sqlDB); err != nil {
			sqlDB.Close()
			return nil, noop, fmt.Errorf("open coordinate cache: %w", err)
		}
		return cache.NewSQLCoordinateCache(sqlDB), func() { sqlDB.Close() }, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: getEnv("REDIS_ADDR", "localhost:6379")})
		return cache.NewRedisCoordinateCache(client), func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("open coordinate cache: unknown CACHE_DRIVER %q", driver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openSqlite(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openSqlite: open sqlite database %q: %w", dbPath, err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("openSqlite: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sqlDB, nil
}
