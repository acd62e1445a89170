package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	Archive ArchiveConfig
	Observ  ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StoreConfig struct {
	Name         string
	Currency     string
	CheckoutMode string // "email" | "links"
	OrderEmail   string
}

type CatalogConfig struct {
	ProductsURL string
	SettingsURL string
	IDMode      string // "random" | "hash"
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ArchiveConfig struct {
	// DSN for the checkout order archive. Empty disables archiving.
	DSN string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Store: StoreConfig{
			Name:         getEnv("STORE_NAME", "Storefront"),
			Currency:     getEnv("STORE_CURRENCY", "USD"),
			CheckoutMode: getEnv("CHECKOUT_MODE", "email"),
			OrderEmail:   getEnv("ORDER_EMAIL", "orders@example.com"),
		},
		Catalog: CatalogConfig{
			ProductsURL: getEnv("PRODUCTS_JSON_URL", "http://localhost:8080/data/products.json"),
			SettingsURL: getEnv("SETTINGS_JSON_URL", ""),
			IDMode:      getEnv("CATALOG_ID_MODE", "random"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Archive: ArchiveConfig{
			DSN: getEnv("ORDER_ARCHIVE_DSN", ""),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, catalog=%s", cfg.Server.Env, cfg.Server.Port, cfg.Catalog.ProductsURL)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
