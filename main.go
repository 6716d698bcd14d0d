package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"visionstore/api/external"
	"visionstore/api/site"
	"visionstore/catalog"
	"visionstore/checkout"
	"visionstore/config"
	"visionstore/fallback"
	"visionstore/logger"
	"visionstore/metrics"
)

const serviceName = "visionstore"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out, closeLog, err := logger.Output(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()
	l := logger.New(serviceName, cfg.LogLevel, out)
	slog.SetDefault(l)

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	for id, missing := range cat.Gaps() {
		l.Warn("catalog has unorderable combinations", slog.String("product", id), slog.Int("missing", len(missing)))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	submitter := external.NewSubmitter(cfg, m, l)
	svc := checkout.NewService(submitter, fallback.NewComposer(cfg.SupportEmail, cfg.FallbackSubject), m, cfg.Mode, l)

	router := site.NewRouter(site.NewHandler(cat, svc, cfg, l), site.Options{
		CSRFKey:    cfg.CSRFAuthKey,
		CSRFSecure: cfg.CSRFSecure,
		Gatherer:   reg,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.ProviderTimeout() + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		l.Info("listening",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("mode", cfg.Mode.String()),
			slog.String("provider", cfg.ProviderName()),
			slog.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
