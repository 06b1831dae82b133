package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Config holds the complete server configuration, loadable from environment
// variables (PRICER_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string   `default:"0.0.0.0:8080" usage:"API server listen address"`
	CatalogFiles []string `usage:"Catalog CSV files (.csv or .csv.gz); empty uses the built-in catalog" flag:"catalog-files"`
	Promotions   PromotionsConfig
	Tax          TaxConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// PromotionsConfig parameterises the basket promotion rules. Rules apply in
// the order they appear here: cross-discount first, then free-with-purchase.
type PromotionsConfig struct {
	CrossDiscount    CrossDiscountConfig
	FreeWithPurchase FreeWithPurchaseConfig
}

// CrossDiscountConfig makes one category cheaper when enough of another is
// in the basket.
type CrossDiscountConfig struct {
	Enabled       bool   `default:"true" usage:"Enable the cross-discount rule"`
	Trigger       string `default:"orange" usage:"Category whose quantity triggers the discount"`
	Discounted    string `default:"grapefruit" usage:"Category that gets the flat rate"`
	Threshold     string `default:"3" usage:"Trigger quantity must exceed this"`
	FlatUnitPrice string `default:"1.00" usage:"Flat per-unit price for the discounted category" flag:"flat-unit-price"`
}

// FreeWithPurchaseConfig gives receiver units away per giver unit.
type FreeWithPurchaseConfig struct {
	Enabled  bool   `default:"true" usage:"Enable the free-with-purchase rule"`
	Giver    string `default:"tomato" usage:"Category whose quantity earns free units"`
	Receiver string `default:"cucumber" usage:"Category that becomes free"`
}

// TaxConfig holds the rates for the standard and export policies.
type TaxConfig struct {
	VATRate    string `default:"0.175" usage:"Standard VAT rate" flag:"vat-rate"`
	ExportRate string `default:"0.05" usage:"Export tax rate" flag:"export-rate"`
	ExportFee  string `default:"1.00" usage:"Fixed per-basket export fee" flag:"export-fee"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
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
		EnvPrefix: "PRICER",
		Files:     []string{"config.yaml", "/etc/pricer/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validateRates(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateRates parses every decimal-valued setting once so misconfiguration
// fails at startup, not on the first request.
func (c *Config) validateRates() error {
	values := map[string]string{
		"promotions.crossdiscount.threshold":     c.Promotions.CrossDiscount.Threshold,
		"promotions.crossdiscount.flatunitprice": c.Promotions.CrossDiscount.FlatUnitPrice,
		"tax.vatrate":                            c.Tax.VATRate,
		"tax.exportrate":                         c.Tax.ExportRate,
		"tax.exportfee":                          c.Tax.ExportFee,
	}
	for name, v := range values {
		if _, err := decimal.NewFromString(v); err != nil {
			return errors.Wrapf(err, "parse %s", name)
		}
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables
// (Railway, Render, etc.) to the PRICER_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
