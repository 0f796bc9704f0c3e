package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	ShopAPIBaseURL string
	ShopAPIKey     string

	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration

	RabbitURL string

	WidgetAPIKey       string
	WidgetSandbox      bool
	WidgetTheme        string
	WidgetStatusURL    string
	WidgetInvokeURL    string
	WidgetPollInterval time.Duration
	WidgetPollAttempts int
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		ServerPort:         getenv("PORT", "8084"),
		ShopAPIBaseURL:     must("SHOP_API_BASE_URL"),
		ShopAPIKey:         os.Getenv("SHOP_API_KEY"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		CatalogCacheTTL:    getdur("CATALOG_CACHE_TTL", "30s"),
		RabbitURL:          os.Getenv("RABBIT_URL"),
		WidgetAPIKey:       must("WIDGET_API_KEY"),
		WidgetSandbox:      getenv("WIDGET_SANDBOX", "true") == "true",
		WidgetTheme:        getenv("WIDGET_THEME", "dark"),
		WidgetStatusURL:    must("WIDGET_STATUS_URL"),
		WidgetInvokeURL:    must("WIDGET_INVOKE_URL"),
		WidgetPollInterval: getdur("WIDGET_POLL_INTERVAL", "500ms"),
		WidgetPollAttempts: getint("WIDGET_POLL_ATTEMPTS", 20),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

func getdur(key, def string) time.Duration {
	d, err := time.ParseDuration(getenv(key, def))
	if err != nil {
		log.Fatalf("invalid duration for %s", key)
	}
	return d
}
