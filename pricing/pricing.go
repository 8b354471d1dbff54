package pricing

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PriceType selects which side of a call is priced
type PriceType string

const (
	Input  PriceType = "input"
	Output PriceType = "output"
)

// DefaultCurrency is reported for models without a price configuration
const DefaultCurrency = "USD"

// totalPlaces is the precision of PriceInfo.TotalAmount
const totalPlaces = 7

// PriceConfig is the price configuration of one model
type PriceConfig struct {
	Input    decimal.Decimal
	Output   decimal.Decimal
	Unit     decimal.Decimal
	Currency string
}

// PriceInfo is the price of a number of tokens
type PriceInfo struct {
	UnitPrice   decimal.Decimal
	Unit        decimal.Decimal
	TotalAmount decimal.Decimal
	Currency    string
}

// Table is a static per-model price list
type Table struct {
	models map[string]PriceConfig
}

// NewTable creates a Table from per-model configurations
func NewTable(models map[string]PriceConfig) *Table {
	copied := make(map[string]PriceConfig, len(models))
	for name, cfg := range models {
		copied[name] = cfg
	}
	return &Table{models: copied}
}

// GetPrice returns the price of tokens for model.
// Unknown models are free of charge.
func (t *Table) GetPrice(model string, priceType PriceType, tokens int) PriceInfo {
	var (
		cfg PriceConfig
		ok  bool
	)
	if t != nil {
		cfg, ok = t.models[model]
	}
	if !ok {
		return PriceInfo{
			UnitPrice:   decimal.Zero,
			Unit:        decimal.Zero,
			TotalAmount: decimal.Zero,
			Currency:    DefaultCurrency,
		}
	}

	unitPrice := cfg.Input
	if priceType == Output {
		unitPrice = cfg.Output
	}

	total := decimal.NewFromInt(int64(tokens)).Mul(unitPrice).Mul(cfg.Unit).Round(totalPlaces)

	return PriceInfo{
		UnitPrice:   unitPrice,
		Unit:        cfg.Unit,
		TotalAmount: total,
		Currency:    cfg.Currency,
	}
}

type fileEntry struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Unit     string `yaml:"unit"`
	Currency string `yaml:"currency"`
}

type file struct {
	Models map[string]fileEntry `yaml:"models"`
}

// LoadFile reads a YAML price list of the form
//
//	models:
//	  text-embedding-ada-002:
//	    input: "0.0001"
//	    unit: "0.001"
//	    currency: USD
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading price file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML price list, see LoadFile
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error decoding price file: %w", err)
	}

	models := make(map[string]PriceConfig, len(f.Models))
	for name, entry := range f.Models {
		cfg, err := entry.toConfig()
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		models[name] = cfg
	}

	return &Table{models: models}, nil
}

func (e fileEntry) toConfig() (PriceConfig, error) {
	input, err := parseAmount("input", e.Input)
	if err != nil {
		return PriceConfig{}, err
	}
	output, err := parseAmount("output", e.Output)
	if err != nil {
		return PriceConfig{}, err
	}
	unit, err := parseAmount("unit", e.Unit)
	if err != nil {
		return PriceConfig{}, err
	}
	if unit.IsZero() {
		return PriceConfig{}, fmt.Errorf("unit must be positive")
	}

	currency := e.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return PriceConfig{
		Input:    input,
		Output:   output,
		Unit:     unit,
		Currency: currency,
	}, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return d, nil
}
