package checkout

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for the Checkout coordinator.
type Config struct {
	// BackendURL is the base URL of the upstream commerce API.
	BackendURL string `yaml:"backend_url"`

	// RequestTimeout bounds each upstream HTTP request.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// AutoSave persists session state after every transition.
	AutoSave bool `yaml:"auto_save"`

	// AutoSaveDebounce is the quiet period before a pending save is
	// flushed. Zero writes synchronously.
	AutoSaveDebounce time.Duration `yaml:"auto_save_debounce"`

	// ExitConfirmation requires explicit confirmation before leaving
	// an in-progress checkout.
	ExitConfirmation bool `yaml:"exit_confirmation"`

	// CacheDefaultTTL is the cache lifetime for content and listing
	// routes.
	CacheDefaultTTL time.Duration `yaml:"cache_default_ttl"`

	// CacheFlashSaleTTL is the shorter cache lifetime for flash-sale
	// listings.
	CacheFlashSaleTTL time.Duration `yaml:"cache_flash_sale_ttl"`

	// RateLimit is the sustained request rate allowed per client.
	RateLimit float64 `yaml:"rate_limit"`

	// RateBurst is the burst size allowed on top of RateLimit.
	RateBurst int `yaml:"rate_burst"`

	// AnnounceFeedURL is the WebSocket URL of the announcement feed.
	// Empty disables the live feed.
	AnnounceFeedURL string `yaml:"announce_feed_url"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:    10 * time.Second,
		AutoSave:          true,
		AutoSaveDebounce:  500 * time.Millisecond,
		ExitConfirmation:  true,
		CacheDefaultTTL:   300 * time.Second,
		CacheFlashSaleTTL: 60 * time.Second,
		RateLimit:         50,
		RateBurst:         100,
		ShutdownTimeout:   30 * time.Second,
	}
}

// LoadConfig reads a YAML config file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("checkout: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("checkout: parse config %s: %w", path, err)
	}

	return cfg, nil
}
