// Package main provides the entry point for the metadata aggregation service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/scholaris/metadata-aggregator/internal/aggregator"
	"github.com/scholaris/metadata-aggregator/internal/config"
	"github.com/scholaris/metadata-aggregator/internal/observability"
	httpserver "github.com/scholaris/metadata-aggregator/internal/server/http"
	"github.com/scholaris/metadata-aggregator/internal/sources/biorxiv"
	"github.com/scholaris/metadata-aggregator/internal/sources/crossref"
	"github.com/scholaris/metadata-aggregator/internal/sources/doaj"
	"github.com/scholaris/metadata-aggregator/internal/sources/europepmc"
	"github.com/scholaris/metadata-aggregator/internal/sources/openalex"
	"github.com/scholaris/metadata-aggregator/internal/sources/osf"
	"github.com/scholaris/metadata-aggregator/internal/sources/plos"
	"github.com/scholaris/metadata-aggregator/internal/sources/pubmed"
	"github.com/scholaris/metadata-aggregator/internal/sources/semanticscholar"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("metadata-aggregator starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics(cfg.Metrics.Namespace)

	// One outbound transport for all sources; per-source clients layer
	// their own timeouts and pacing on top of it.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 4
	defer transport.CloseIdleConnections()

	providers := buildProviders(cfg, transport, logger)
	logger.Info().Int("providers", len(providers)).Msg("sources registered")

	engine := aggregator.New(providers, logger, metrics)

	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		DefaultLimit:    cfg.Aggregator.DefaultLimit,
		MaxLimit:        cfg.Aggregator.MaxLimit,
	}
	httpSrv := httpserver.NewServer(httpCfg, engine, logger)

	// Set up Prometheus metrics handler on a separate port if configured.
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress(),
			Handler:      metricsMux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}
	}

	// Channel to collect server errors.
	errCh := make(chan error, 2)

	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	readyLog := logger.Info().Str("http_address", httpCfg.Address)
	if metricsServer != nil {
		readyLog = readyLog.Str("metrics_address", metricsServer.Addr)
	}
	readyLog.Msg("metadata-aggregator is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	// Graceful shutdown.
	logger.Info().Msg("shutting down metadata-aggregator")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}

	logger.Info().Msg("metadata-aggregator stopped")
	return nil
}

// buildProviders assembles the ordered provider list from the enabled
// sources. Order is priority: the journal indexes lead, the preprint
// detail APIs trail as DOI-only fallbacks.
func buildProviders(cfg *config.Config, transport http.RoundTripper, logger zerolog.Logger) []aggregator.Provider {
	var providers []aggregator.Provider

	add := func(enabled bool, p aggregator.Provider) {
		if !enabled {
			logger.Info().Str("source", p.Source.Name()).Msg("source disabled")
			return
		}
		providers = append(providers, p)
	}

	src := cfg.Sources

	add(src.Crossref.Enabled, aggregator.Provider{
		Source: crossref.New(crossref.Config{
			BaseURL:     src.Crossref.BaseURL,
			Mailto:      cfg.Contact.Email,
			Timeout:     src.Crossref.Timeout,
			MinInterval: src.Crossref.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	add(src.OpenAlex.Enabled, aggregator.Provider{
		Source: openalex.New(openalex.Config{
			BaseURL:     src.OpenAlex.BaseURL,
			Mailto:      cfg.Contact.Email,
			Timeout:     src.OpenAlex.Timeout,
			MinInterval: src.OpenAlex.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	add(src.SemanticScholar.Enabled, aggregator.Provider{
		Source: semanticscholar.New(semanticscholar.Config{
			BaseURL:     src.SemanticScholar.BaseURL,
			APIKey:      src.SemanticScholar.APIKey,
			Timeout:     src.SemanticScholar.Timeout,
			MinInterval: src.SemanticScholar.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	add(src.EuropePMC.Enabled, aggregator.Provider{
		Source: europepmc.New(europepmc.Config{
			BaseURL:     src.EuropePMC.BaseURL,
			Timeout:     src.EuropePMC.Timeout,
			MinInterval: src.EuropePMC.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	add(src.PubMed.Enabled, aggregator.Provider{
		Source: pubmed.New(pubmed.Config{
			BaseURL:     src.PubMed.BaseURL,
			APIKey:      src.PubMed.APIKey,
			Tool:        src.PubMed.Tool,
			Email:       cfg.Contact.Email,
			Timeout:     src.PubMed.Timeout,
			MinInterval: src.PubMed.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	add(src.PLOS.Enabled, aggregator.Provider{
		Source: plos.New(plos.Config{
			BaseURL:     src.PLOS.BaseURL,
			APIKey:      src.PLOS.APIKey,
			Timeout:     src.PLOS.Timeout,
			MinInterval: src.PLOS.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	add(src.OSF.Enabled, aggregator.Provider{
		Source: osf.New(osf.Config{
			BaseURL:     src.OSF.BaseURL,
			Provider:    src.OSF.Provider,
			Timeout:     src.OSF.Timeout,
			MinInterval: src.OSF.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	add(src.DOAJ.Enabled, aggregator.Provider{
		Source: doaj.New(doaj.Config{
			BaseURL:     src.DOAJ.BaseURL,
			APIKey:      src.DOAJ.APIKey,
			Timeout:     src.DOAJ.Timeout,
			MinInterval: src.DOAJ.MinInterval,
		}, transport),
		SupportsTitle: true,
		SupportsDOI:   true,
	})

	// The Cold Spring Harbor detail APIs resolve DOIs only.
	add(src.MedRxiv.Enabled, aggregator.Provider{
		Source: biorxiv.New(biorxiv.Config{
			BaseURL:     src.MedRxiv.BaseURL,
			Server:      biorxiv.ServerMedrxiv,
			Timeout:     src.MedRxiv.Timeout,
			MinInterval: src.MedRxiv.MinInterval,
		}, transport),
		SupportsDOI: true,
	})

	add(src.BioRxiv.Enabled, aggregator.Provider{
		Source: biorxiv.New(biorxiv.Config{
			BaseURL:     src.BioRxiv.BaseURL,
			Server:      biorxiv.ServerBiorxiv,
			Timeout:     src.BioRxiv.Timeout,
			MinInterval: src.BioRxiv.MinInterval,
		}, transport),
		SupportsDOI: true,
	})

	return providers
}
