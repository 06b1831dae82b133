// Package app wires the pricing server together: catalog loading, promotion
// and tax construction, HTTP routing, health checks, and graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/basket-pricer/internal/catalogfile"
	"github.com/xenking/basket-pricer/internal/domain/promotion"
	"github.com/xenking/basket-pricer/internal/domain/quote"
	"github.com/xenking/basket-pricer/internal/domain/tax"
	"github.com/xenking/basket-pricer/internal/handler"
	"github.com/xenking/basket-pricer/pkg/health"
	"github.com/xenking/basket-pricer/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Catalog.
	cat, err := catalogfile.NewLoader().Load(ctx, cfg.CatalogFiles...)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded",
		zap.Int("categories", cat.Len()),
		zap.Int("files", len(cfg.CatalogFiles)),
	)

	// Promotion rules, in configured order.
	rules, err := buildRules(cfg.Promotions)
	if err != nil {
		return errors.Wrap(err, "build promotion rules")
	}

	// Tax policies.
	standard, export, err := buildTaxPolicies(cfg.Tax)
	if err != nil {
		return errors.Wrap(err, "build tax policies")
	}

	// Domain service.
	quoteService := quote.NewService(cat, rules, standard, export)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddReadinessCheck("catalog", time.Second, func(context.Context) error {
		if cat.Len() == 0 {
			return errors.New("catalog empty")
		}
		return nil
	})
	healthSvc.SetReady(true)

	// Routes.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	handler.NewHandler(cat, quoteService).Register(mux)

	api := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins: cfg.CORS.Origins,
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       86400,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(api, "pricer-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Shutdown failed", zap.Error(err))
		}
	}()

	lg.Info("Listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen and serve")
	}

	<-shutdownDone
	return nil
}

func buildRules(cfg PromotionsConfig) ([]promotion.Rule, error) {
	var rules []promotion.Rule

	if cfg.CrossDiscount.Enabled {
		threshold, err := decimal.NewFromString(cfg.CrossDiscount.Threshold)
		if err != nil {
			return nil, errors.Wrap(err, "parse threshold")
		}
		flat, err := decimal.NewFromString(cfg.CrossDiscount.FlatUnitPrice)
		if err != nil {
			return nil, errors.Wrap(err, "parse flat unit price")
		}
		rules = append(rules, promotion.CrossDiscount{
			Trigger:       cfg.CrossDiscount.Trigger,
			Discounted:    cfg.CrossDiscount.Discounted,
			Threshold:     threshold,
			FlatUnitPrice: flat,
		})
	}

	if cfg.FreeWithPurchase.Enabled {
		rules = append(rules, promotion.FreeWithPurchase{
			Giver:    cfg.FreeWithPurchase.Giver,
			Receiver: cfg.FreeWithPurchase.Receiver,
		})
	}

	return rules, nil
}

func buildTaxPolicies(cfg TaxConfig) (standard, export tax.Policy, err error) {
	vatRate, err := decimal.NewFromString(cfg.VATRate)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse vat rate")
	}
	exportRate, err := decimal.NewFromString(cfg.ExportRate)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse export rate")
	}
	exportFee, err := decimal.NewFromString(cfg.ExportFee)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse export fee")
	}

	return tax.NewStandard(vatRate), tax.NewExport(exportRate, exportFee), nil
}
