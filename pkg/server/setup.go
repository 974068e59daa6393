package server

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/salescope/salescope/pkg/config"
	"github.com/salescope/salescope/pkg/enrich"
	"github.com/salescope/salescope/pkg/store"
	"github.com/salescope/salescope/pkg/store/badger"
	"github.com/salescope/salescope/pkg/store/memory"
	"github.com/salescope/salescope/pkg/store/postgres"
)

// Config holds server configuration loaded from the environment.
type Config struct {
	Port            string
	StoreBackend    string
	DataDir         string
	PostgresDSN     string
	NominatimURL    string
	GeocodeDisabled bool
	MaxClusterSales int
}

// LoadConfig reads configuration from a .env file (if present) and the
// environment. Backends: memory (default), badger, postgres, or multi
// (badger + postgres fan-in).
func LoadConfig() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return Config{
		Port:            getEnv("PORT", config.DefaultPort),
		StoreBackend:    getEnv("SALESCOPE_STORE", "memory"),
		DataDir:         getEnv("SALESCOPE_DATA_DIR", "./data/salescope"),
		PostgresDSN:     getEnv("SALESCOPE_POSTGRES_DSN", ""),
		NominatimURL:    getEnv("SALESCOPE_NOMINATIM_URL", config.DefaultNominatimURL),
		GeocodeDisabled: getEnv("SALESCOPE_GEOCODE_DISABLED", "") != "",
		MaxClusterSales: getEnvInt("SALESCOPE_MAX_CLUSTER_SALES", config.DefaultMaxClusterSales),
	}
}

// InitializeStore opens the configured sale store backend. The returned
// Catalog is nil when the backend carries no product catalog.
func InitializeStore(cfg Config) (store.SaleStore, store.Catalog, error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Println("Using in-memory sale store (data is not persisted)")
		return memory.New(), nil, nil

	case "badger":
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := badger.New(badger.Config{Path: cfg.DataDir})
		if err != nil {
			return nil, nil, err
		}
		log.Printf("BadgerDB sale store opened at %s", cfg.DataDir)
		return s, s, nil

	case "postgres":
		s, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		log.Println("PostgreSQL sale store connected")
		return s, s, nil

	case "multi":
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		b, err := badger.New(badger.Config{Path: cfg.DataDir})
		if err != nil {
			return nil, nil, err
		}
		p, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			b.Close()
			return nil, nil, err
		}
		log.Println("Multi-store fan-in: badger (primary) + postgres")
		return store.NewMulti(b, p), p, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// InitializeGeocoder builds the cached Nominatim reverse geocoder, or nil
// when geocoding is disabled (groups then carry null country/city).
func InitializeGeocoder(cfg Config) enrich.Geocoder {
	if cfg.GeocodeDisabled {
		log.Println("Reverse geocoding disabled")
		return nil
	}
	client := enrich.NewNominatimClient(cfg.NominatimURL, config.GeocodeUserAgent)
	log.Printf("Reverse geocoding via %s (cached)", cfg.NominatimURL)
	return enrich.NewCachedGeocoder(client)
}

// getEnv gets a string from the environment or returns the default.
func getEnv(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvInt gets an int from the environment or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s: %q, using default %d", key, val, defaultValue)
	}
	return defaultValue
}
