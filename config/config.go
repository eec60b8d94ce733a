package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	// Remote catalog (dummyjson)
	CatalogAPIURL      string
	CatalogHTTPTimeout time.Duration
	CatalogRateLimit   float64 // outbound requests per second
	CatalogRateBurst   int
	PrefetchCatalog    bool
	// Query engine
	PageSize        int
	SearchDebounce  time.Duration
	LongPollTimeout time.Duration
	// Cache
	CacheCategoryTTL time.Duration
	CacheProductTTL  time.Duration
	CacheCatalogTTL  time.Duration
	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	// Inbound rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// Remote accounts and admin dashboard
	AuthExpiresInMins int
	AdminRoles        []string // empty admits any signed-in session
	AdminPageSize     int
	// Business Rules
	MaxCartQuantity int
}

func LoadConfig() *Config {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// .env is optional; containers rely on plain env vars.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		CatalogAPIURL:      strings.TrimSuffix(getEnv("CATALOG_API_URL", "https://dummyjson.com"), "/"),
		CatalogHTTPTimeout: getDurationEnv("CATALOG_HTTP_TIMEOUT", 10*time.Second),
		CatalogRateLimit:   getFloatEnv("CATALOG_RATE_LIMIT", 20),
		CatalogRateBurst:   getIntEnv("CATALOG_RATE_BURST", 40),
		PrefetchCatalog:    getBoolEnv("PREFETCH_CATALOG", true),

		PageSize:        getIntEnv("CATALOG_PAGE_SIZE", 12),
		SearchDebounce:  getDurationEnv("SEARCH_DEBOUNCE", 500*time.Millisecond),
		LongPollTimeout: getDurationEnv("LONG_POLL_TIMEOUT", 25*time.Second),

		// Cache defaults: 30m categories, 10m product detail, 10m full catalog set
		CacheCategoryTTL: getDurationEnv("CACHE_CATEGORY_TTL", 30*time.Minute),
		CacheProductTTL:  getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
		CacheCatalogTTL:  getDurationEnv("CACHE_CATALOG_TTL", 10*time.Minute),

		SessionSecret: getEnv("SESSION_SECRET", "default_secret_CHANGE_ME"),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		AuthExpiresInMins: getIntEnv("AUTH_EXPIRES_IN_MINS", 60),
		AdminRoles:        getListEnv("ADMIN_ROLES", nil),
		AdminPageSize:     getIntEnv("ADMIN_PAGE_SIZE", 10),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.CatalogAPIURL == "" {
		log.Fatal("CRITICAL: CATALOG_API_URL must not be empty")
	}
	if c.PageSize < 1 {
		log.Printf("Invalid CATALOG_PAGE_SIZE %d, using 12", c.PageSize)
		c.PageSize = 12
	}
	if c.AdminPageSize < 1 {
		log.Printf("Invalid ADMIN_PAGE_SIZE %d, using 10", c.AdminPageSize)
		c.AdminPageSize = 10
	}
	if c.SessionSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default session secret. Setting up for failure in production.")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}
