package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"tour-route-service/internal/adapters/cache"
	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/db"
)

// cachetool imports a flat-file coordinate cache into the Postgres
// store, so deployments moving off the file backend keep their warmed
// geocode entries.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	cachePath := getEnv("CACHE_PATH", "data/geocode_cache.json")

	sqlDB, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	ctx := context.Background()

	log.Println("Initializing cache schema...")
	if err := cache.InitSQLSchema(ctx, sqlDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Printf("Importing entries from %s...", cachePath)
	imported, err := importFromJSON(ctx, cache.NewSQLCoordinateCache(sqlDB), cachePath)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("Import complete: %d entries.", imported)
}

// importFromJSON reads the file backend's on-disk format: a map from
// normalized place name to [lat, lon]. Entries that do not parse are
// skipped with a warning rather than aborting the import.
func importFromJSON(ctx context.Context, store *cache.SQLCoordinateCache, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, err
	}

	imported := 0
	for key, msg := range entries {
		var pair [2]float64
		if err := json.Unmarshal(msg, &pair); err != nil {
			log.Printf("skipping malformed entry key=%q err=%v", key, err)
			continue
		}

		coords := domain.Coordinates{Lat: pair[0], Lon: pair[1]}
		if !coords.Valid() {
			log.Printf("skipping out-of-range entry key=%q lat=%f lon=%f", key, pair[0], pair[1])
			continue
		}

		if err := store.Put(ctx, key, coords); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
