package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process-level settings read from the environment.
type Config struct {
	Port              string
	DBDriver          string
	DBPath            string
	DatabaseURL       string
	SeedPath          string
	RedisURL          string
	Geocoder          string
	ORSKey            string
	GoogleMapsKey     string
	GeocodeRPS        float64
	GeocodeCountry    string
	PlannerConfigPath string
	OriginAddress     string
}

// Get returns the environment value for key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadDotenv loads .env into the environment when present.
func LoadDotenv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Load reads Config from the environment (after LoadDotenv).
func Load() (Config, error) {
	cfg := Config{
		Port:              Get("PORT", "8080"),
		DBDriver:          Get("DB_DRIVER", "sqlite"),
		DBPath:            Get("DB_PATH", "data/app.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SeedPath:          os.Getenv("SEED_PATH"),
		RedisURL:          os.Getenv("REDIS_URL"),
		Geocoder:          strings.ToLower(Get("GEOCODER", "none")),
		ORSKey:            os.Getenv("ORS_API_KEY"),
		GoogleMapsKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		GeocodeCountry:    os.Getenv("GEOCODE_COUNTRY"),
		PlannerConfigPath: os.Getenv("PLANNER_CONFIG"),
		OriginAddress:     os.Getenv("ORIGIN_ADDRESS"),
	}

	rps, err := strconv.ParseFloat(Get("GEOCODE_RPS", "2"), 64)
	if err != nil || rps <= 0 {
		return Config{}, fmt.Errorf("config: GEOCODE_RPS must be a positive number")
	}
	cfg.GeocodeRPS = rps

	switch cfg.Geocoder {
	case "none":
	case "ors":
		if strings.TrimSpace(cfg.ORSKey) == "" {
			return Config{}, fmt.Errorf("config: ORS_API_KEY is required when GEOCODER=ors")
		}
	case "google":
		if strings.TrimSpace(cfg.GoogleMapsKey) == "" {
			return Config{}, fmt.Errorf("config: GOOGLE_MAPS_API_KEY is required when GEOCODER=google")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown GEOCODER %q (want none, ors or google)", cfg.Geocoder)
	}

	return cfg, nil
}

// DSN returns DATABASE_URL for PostgreSQL drivers and DB_PATH otherwise.
func (c Config) DSN() string {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case "pgx", "postgres", "postgresql":
		return c.DatabaseURL
	}
	return c.DBPath
}
