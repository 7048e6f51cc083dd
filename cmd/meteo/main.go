// Command meteo resolves a batch of location records to their nearest open
// weather station and downloads a daily climatology extract for each one.
//
// Usage:
//
//	meteo --inputs inputs.json --date-deb 2024-01-01 [--date-fin 2024-12-31] [--force]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agriclim/meteo-extract/internal/adapter/artifact"
	"github.com/agriclim/meteo-extract/internal/adapter/catalog"
	"github.com/agriclim/meteo-extract/internal/adapter/dpclim"
	httpadapter "github.com/agriclim/meteo-extract/internal/adapter/http"
	kafkaadapter "github.com/agriclim/meteo-extract/internal/adapter/kafka"
	"github.com/agriclim/meteo-extract/internal/adapter/nominatim"
	"github.com/agriclim/meteo-extract/internal/config"
	"github.com/agriclim/meteo-extract/internal/domain"
	"github.com/agriclim/meteo-extract/internal/observability"
	"github.com/agriclim/meteo-extract/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	inputs := flag.String("inputs", "inputs.json", "path to the location records JSON file")
	dateDeb := flag.String("date-deb", "", "period start, YYYY-MM-DD (required)")
	dateFin := flag.String("date-fin", "", "period end, YYYY-MM-DD (defaults to today)")
	force := flag.Bool("force", false, "refresh station catalogs even when cached")
	flag.Parse()

	if *dateDeb == "" {
		return errors.New("--date-deb is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	endDate, err := resolveEndDate(*dateFin, time.Now())
	if err != nil {
		return err
	}
	if endDate != *dateFin {
		logger.Warn("end date adjusted", "requested", *dateFin, "used", endDate)
	}

	queries, err := pipeline.LoadQueries(*inputs)
	if err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}

	dpclimClient := dpclim.NewClient(cfg, logger)
	geocoder := nominatim.NewClient(cfg, metrics, logger)
	resolver := domain.NewResolver(geocoder, logger)
	catalogStore := catalog.NewStore(cfg.StationsDir, dpclimClient, metrics, logger)
	artifacts := artifact.NewStore(cfg.OutputDir)
	acquirer := pipeline.NewAcquirer(dpclimClient, artifacts, logger)

	var publisher pipeline.OutcomePublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("outcome publishing enabled", "topic", cfg.KafkaOutcomeTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(catalogStore, resolver, acquirer, publisher, pipeline.FailurePolicy(cfg.FailurePolicy), logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	_, runErr := p.Run(ctx, queries, *dateDeb, endDate, *force)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	return runErr
}

// resolveEndDate defaults a missing end date to today and caps a future end
// date at today, since the climatology archive has no data past it.
func resolveEndDate(dateFin string, now time.Time) (string, error) {
	today := now.UTC().Format(domain.DateLayout)
	if dateFin == "" {
		return today, nil
	}
	end, err := domain.ParseDate(dateFin)
	if err != nil {
		return "", err
	}
	if end.After(now.UTC()) {
		return today, nil
	}
	return dateFin, nil
}
