// Command climate summarizes NOAA climate observation files by US state.
//
// Usage:
//
//	climate data_tn.tdv data_wa.tdv
//
// Each argument is a tab-delimited observation file ("-" reads stdin). All
// files are read before anything is printed; if any file cannot be opened the
// run aborts with no report. Settings come from the environment, see
// internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/climate-report/internal/adapter/file"
	httpadapter "github.com/couchcryptid/climate-report/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climate-report/internal/adapter/kafka"
	"github.com/couchcryptid/climate-report/internal/config"
	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/observability"
	"github.com/couchcryptid/climate-report/internal/pipeline"
	"github.com/couchcryptid/climate-report/internal/report"
)

// summaryPublisher sends finished summaries downstream.
type summaryPublisher interface {
	Publish(ctx context.Context, summaries []domain.StateSummary) error
	Close() error
}

// newPublisher is swapped in tests to avoid a live broker.
var newPublisher = func(cfg *config.Config, logger *slog.Logger) summaryPublisher {
	return kafkaadapter.NewWriter(cfg, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, observability.NewMetrics())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, metrics *observability.Metrics) int {
	// Every argument is a source path; there are no flags.
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Usage: climate tdv_file1 tdv_file2 ... tdv_fileN")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "climate: load config: %v\n", err)
		return 1
	}
	logger := observability.NewLogger(cfg)

	mode := domain.Lenient
	if cfg.StrictNumeric {
		mode = domain.Strict
	}
	p := pipeline.New(file.NewOpener(), logger, metrics, pipeline.Options{
		NumericMode: mode,
		MaxStates:   cfg.MaxStates,
	})

	var srv *httpadapter.Server
	if cfg.ServeEnabled() {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer shutdownServer(srv, cfg, logger)
	}

	summaries, err := p.Run(ctx, args)
	if err != nil {
		fmt.Fprintf(stderr, "climate: %v\n", err)
		return 1
	}

	w := report.NewWriter(report.Format(cfg.ReportFormat), cfg.ReportLocation)
	if err := w.Write(stdout, summaries); err != nil {
		fmt.Fprintf(stderr, "climate: write report: %v\n", err)
		return 1
	}

	if cfg.PublishEnabled() {
		if err := publish(ctx, cfg, logger, metrics, summaries); err != nil {
			fmt.Fprintf(stderr, "climate: %v\n", err)
			return 1
		}
	}

	if srv != nil {
		logger.Info("serving summaries until interrupted", "addr", cfg.HTTPAddr)
		<-ctx.Done()
	}
	return 0
}

func publish(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, summaries []domain.StateSummary) error {
	pub := newPublisher(cfg, logger)
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	if err := pub.Publish(ctx, summaries); err != nil {
		return err
	}
	metrics.SummariesPublished.Add(float64(len(summaries)))
	return nil
}

func shutdownServer(srv *httpadapter.Server, cfg *config.Config, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
