package loadgen

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the load generator
type Config struct {
	// Target instrument
	Symbol string

	// Flow shape. Percentages apply per operation draw; the remainder
	// after limit and cancel is marketable flow.
	TotalOps      int
	LimitPercent  int
	CancelPercent int

	// Price model: limit prices are drawn uniformly in
	// [PriceMid-PriceSpread, PriceMid+PriceSpread], then pushed away
	// from the touch so the book stays populated.
	PriceMid    int64
	PriceSpread int64
	MaxQuantity int

	// Pacing
	RatePerSecond  int
	ReportInterval time.Duration

	// Seed makes runs reproducible
	Seed int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("LOADGEN_SYMBOL", "AAPL")
	v.SetDefault("LOADGEN_TOTAL_OPS", 500000)
	v.SetDefault("LOADGEN_LIMIT_PERCENT", 60)
	v.SetDefault("LOADGEN_CANCEL_PERCENT", 20)
	v.SetDefault("LOADGEN_PRICE_MID", 10000)
	v.SetDefault("LOADGEN_PRICE_SPREAD", 1000)
	v.SetDefault("LOADGEN_MAX_QUANTITY", 100)
	v.SetDefault("LOADGEN_RATE_PER_SECOND", 100000)
	v.SetDefault("LOADGEN_REPORT_INTERVAL_SECONDS", 5)
	v.SetDefault("LOADGEN_SEED", 42)

	v.AutomaticEnv()

	cfg := &Config{
		Symbol:         v.GetString("LOADGEN_SYMBOL"),
		TotalOps:       v.GetInt("LOADGEN_TOTAL_OPS"),
		LimitPercent:   v.GetInt("LOADGEN_LIMIT_PERCENT"),
		CancelPercent:  v.GetInt("LOADGEN_CANCEL_PERCENT"),
		PriceMid:       v.GetInt64("LOADGEN_PRICE_MID"),
		PriceSpread:    v.GetInt64("LOADGEN_PRICE_SPREAD"),
		MaxQuantity:    v.GetInt("LOADGEN_MAX_QUANTITY"),
		RatePerSecond:  v.GetInt("LOADGEN_RATE_PER_SECOND"),
		ReportInterval: time.Duration(v.GetInt("LOADGEN_REPORT_INTERVAL_SECONDS")) * time.Second,
		Seed:           v.GetInt64("LOADGEN_SEED"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if cfg.TotalOps <= 0 {
		return fmt.Errorf("total ops must be positive")
	}
	if cfg.LimitPercent < 0 || cfg.CancelPercent < 0 || cfg.LimitPercent+cfg.CancelPercent > 100 {
		return fmt.Errorf("limit/cancel percentages must be non-negative and sum to at most 100")
	}
	// The generator pushes resting prices up to half a spread past the
	// drawn value; the whole envelope must stay non-negative.
	if cfg.PriceSpread < 0 || cfg.PriceMid-cfg.PriceSpread-cfg.PriceSpread/2 < 0 {
		return fmt.Errorf("price model leaves the tick domain")
	}
	if cfg.MaxQuantity <= 0 {
		return fmt.Errorf("max quantity must be positive")
	}
	if cfg.RatePerSecond <= 0 {
		return fmt.Errorf("rate must be positive")
	}
	return nil
}
