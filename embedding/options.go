package embedding

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Abraxas-365/localembed/pricing"
)

// DefaultTimeout bounds a single embedding request
const DefaultTimeout = 10 * time.Second

// PriceCalculator resolves the price of a number of tokens for a model
type PriceCalculator interface {
	GetPrice(model string, priceType pricing.PriceType, tokens int) pricing.PriceInfo
}

// EmbeddingOptions represents configuration options for embedding models
type EmbeddingOptions struct {
	// Timeout bounds each HTTP request
	Timeout time.Duration

	// Logger receives request level events
	Logger zerolog.Logger

	// Prices computes the usage price; nil means zero priced
	Prices PriceCalculator

	// Registerer receives request metrics when set
	Registerer prometheus.Registerer
}

// Option is a function type to modify EmbeddingOptions
type Option func(*EmbeddingOptions)

// DefaultOptions returns the defaults shared by embedding adapters
func DefaultOptions() *EmbeddingOptions {
	return &EmbeddingOptions{
		Timeout: DefaultTimeout,
		Logger:  zerolog.Nop(),
	}
}

// WithTimeout sets the per request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *EmbeddingOptions) {
		if timeout > 0 {
			o.Timeout = timeout
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *EmbeddingOptions) {
		o.Logger = logger
	}
}

// WithPrices sets the price calculator used for usage accounting
func WithPrices(prices PriceCalculator) Option {
	return func(o *EmbeddingOptions) {
		o.Prices = prices
	}
}

// WithRegisterer enables request metrics on the given registerer
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *EmbeddingOptions) {
		o.Registerer = reg
	}
}
