package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xelkar/shopcart/internal/domain/cart"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOPCART_ prefix), flags, or YAML config files.
type Config struct {
	Addr string `default:"0.0.0.0:8080" usage:"API server listen address"`
	// DatabaseURL is optional: when empty the server runs on an in-memory
	// store and state does not survive restarts.
	DatabaseURL string `usage:"PostgreSQL connection URL (SHOPCART_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	SessionID   string `default:"default" usage:"Session id for persisted state" flag:"session-id"`
	Pricing     PricingConfig
	Checkout    CheckoutConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// PricingConfig holds the pricing pipeline constants as decimal strings.
type PricingConfig struct {
	FreeShippingThreshold string `default:"5000" usage:"Subtotal at which shipping becomes free" flag:"free-shipping-threshold"`
	ShippingCost          string `default:"99"   usage:"Flat shipping cost below the threshold" flag:"shipping-cost"`
	TaxRate               string `default:"0.18" usage:"Tax rate applied to the discounted subtotal" flag:"tax-rate"`
}

// CheckoutConfig controls the simulated payment round-trip.
type CheckoutConfig struct {
	ProcessingDelay   time.Duration `default:"1500ms" usage:"Simulated payment processing delay" flag:"processing-delay"`
	ProcessingTimeout time.Duration `default:"10s"    usage:"Order placement timeout" flag:"processing-timeout"`
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOPCART",
		Files:     []string{"config.yaml", "/etc/shopcart/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()
	return &cfg, nil
}

// CartPricing parses the pricing constants into the engine's config.
func (c *Config) CartPricing() (cart.PricingConfig, error) {
	threshold, err := decimal.NewFromString(c.Pricing.FreeShippingThreshold)
	if err != nil {
		return cart.PricingConfig{}, errors.Wrap(err, "free shipping threshold")
	}
	shipping, err := decimal.NewFromString(c.Pricing.ShippingCost)
	if err != nil {
		return cart.PricingConfig{}, errors.Wrap(err, "shipping cost")
	}
	taxRate, err := decimal.NewFromString(c.Pricing.TaxRate)
	if err != nil {
		return cart.PricingConfig{}, errors.Wrap(err, "tax rate")
	}
	return cart.PricingConfig{
		FreeShippingThreshold: threshold,
		ShippingCost:          shipping,
		TaxRate:               taxRate,
	}, nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) that use standard names like DATABASE_URL and PORT
// to the SHOPCART_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
