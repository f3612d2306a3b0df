package main

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/adapters/cache"
	"delivery-area-service/internal/adapters/geocode"
	"delivery-area-service/internal/adapters/googlemaps"
	"delivery-area-service/internal/adapters/ors"
	"delivery-area-service/internal/adapters/repositories"
	"delivery-area-service/internal/api"
	"delivery-area-service/internal/config"
	"delivery-area-service/internal/platform/db"
	"delivery-area-service/internal/ports"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS, Google) behind ports and starts the HTTP server.
func main() {
	config.LoadDotenv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(dialect, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	defaults, err := config.LoadPlanConfig(cfg.PlannerConfigPath)
	if err != nil {
		log.Fatal(err)
	}

	geocoder, err := buildGeocoder(ctx, cfg, conn, dialect)
	if err != nil {
		log.Fatal(err)
	}

	// Travel time refinement is available whenever an ORS key is configured,
	// independent of which geocoder is selected.
	var travelTimes ports.TravelTimeProvider
	if strings.TrimSpace(cfg.ORSKey) != "" {
		client, err := ors.NewClient(cfg.ORSKey, ors.WithRateLimit(cfg.GeocodeRPS))
		if err != nil {
			log.Fatal(err)
		}
		travelTimes = ors.NewTravelTimeProvider(client, cache.NewSQLTravelTimeCache(conn, dialect))
	}

	router := api.NewRouter(api.Deps{
		Repo:          repositories.NewSQLRecipientRepository(conn, dialect),
		Geocoder:      geocoder,
		TravelTimes:   travelTimes,
		Defaults:      defaults,
		DefaultOrigin: cfg.OriginAddress,
	})

	// Timeouts are tuned for cold-cache planning (external API latency).
	log.Printf("Server listening addr=:%s driver=%s geocoder=%s", cfg.Port, dialect, cfg.Geocoder)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildGeocoder selects the configured provider and fronts it with Redis when
// REDIS_URL is set, otherwise with the SQL geocode cache.
func buildGeocoder(ctx context.Context, cfg config.Config, conn *sql.DB, dialect db.Dialect) (ports.Geocoder, error) {
	var provider ports.Geocoder
	switch cfg.Geocoder {
	case "none":
		return nil, nil
	case "ors":
		opts := []ors.Option{ors.WithRateLimit(cfg.GeocodeRPS)}
		if cfg.GeocodeCountry != "" {
			opts = append(opts, ors.WithCountry(cfg.GeocodeCountry))
		}
		client, err := ors.NewClient(cfg.ORSKey, opts...)
		if err != nil {
			return nil, err
		}
		provider = client
	case "google":
		rps := int(cfg.GeocodeRPS)
		if rps < 1 {
			rps = 1
		}
		g, err := googlemaps.NewGeocoder(cfg.GoogleMapsKey, cfg.GeocodeCountry, maps.WithRateLimit(rps))
		if err != nil {
			return nil, err
		}
		provider = g
	default:
		return nil, fmt.Errorf("build geocoder: unknown provider %q", cfg.Geocoder)
	}

	var store ports.GeocodeCache = cache.NewSQLGeocodeCache(conn, dialect)
	if cfg.RedisURL != "" {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store = cache.NewRedisGeocodeCache(rdb, 0)
	}

	return geocode.NewCached(provider, store), nil
}
