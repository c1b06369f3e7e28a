package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/stackwatch/config"
	"github.com/angeloszaimis/stackwatch/internal/aggregate"
	"github.com/angeloszaimis/stackwatch/internal/dashboard"
	"github.com/angeloszaimis/stackwatch/internal/httpserver"
	"github.com/angeloszaimis/stackwatch/internal/scheduler"
	"github.com/angeloszaimis/stackwatch/internal/stats"
	"github.com/angeloszaimis/stackwatch/internal/statusapi"
	"github.com/angeloszaimis/stackwatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, false, cfg.Server.Environment)

	timeout, interval, err := probeTimings(cfg)
	if err != nil {
		log.Error("Invalid probe timing", slog.Any("err", err))
		os.Exit(1)
	}

	specs, err := buildSpecs(cfg)
	if err != nil {
		log.Error("Failed to build service specs", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := stats.NewCollector(256, log)
	collector.Start(ctx)

	sched := scheduler.New(specs, timeout, interval, log)
	sched.OnApply(collector.RecordCycle)
	sched.Start(ctx)
	defer sched.Stop()

	board := dashboard.New(os.Stdout, interval, log)
	go board.Run(ctx, sched)

	go watchKeys(os.Stdin, cancel)

	api := statusapi.New(log, sched, collector)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(api))
	if err != nil {
		log.Error("Failed to create status server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		sched.Stop()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting status server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// buildSpecs converts the validated config into probe specs. A spec
// that still fails to parse here is a programming error, so it aborts
// startup instead of being skipped.
func buildSpecs(cfg *config.Config) ([]aggregate.Spec, error) {
	if len(cfg.Services) == 0 {
		return nil, os.ErrInvalid
	}

	specs := make([]aggregate.Spec, 0, len(cfg.Services))
	for _, svc := range cfg.Services {
		if _, err := url.ParseRequestURI(svc.URL); err != nil {
			return nil, fmt.Errorf("service %q: %w", svc.ID, err)
		}

		specs = append(specs, aggregate.Spec{
			ID:     svc.ID,
			URL:    svc.URL,
			Expect: svc.Expect,
		})
	}

	return specs, nil
}

func probeTimings(cfg *config.Config) (timeout, interval time.Duration, err error) {
	timeout, err = time.ParseDuration(cfg.Probe.Timeout)
	if err != nil {
		return 0, 0, err
	}

	interval, err = time.ParseDuration(cfg.Probe.Interval)
	if err != nil {
		return 0, 0, err
	}

	return timeout, interval, nil
}

// watchKeys cancels the run context when the operator presses q.
func watchKeys(r io.Reader, cancel context.CancelFunc) {
	reader := bufio.NewReader(r)
	for {
		ch, _, err := reader.ReadRune()
		if err != nil {
			return
		}
		if ch == 'q' || ch == 'Q' {
			cancel()
			return
		}
	}
}
