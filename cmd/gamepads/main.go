// Command gamepads reads gamepads through the configured backend and serves
// an inspector page that shows their state live.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/internal/bridge"
	"github.com/soar/gamepads/internal/config"
	"github.com/soar/gamepads/internal/console"
	"github.com/soar/gamepads/internal/hub"
	"github.com/soar/gamepads/internal/logger"
	"github.com/soar/gamepads/internal/monitoring"
	"github.com/soar/gamepads/internal/runner"
	"github.com/soar/gamepads/internal/server"
	"github.com/soar/gamepads/internal/tray"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gamepads:", err)
		os.Exit(1)
	}
}

func run() error {
	interactive := console.Attach()

	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	log := logger.Default(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	reregister := console.HandleInterrupt(cancel, log)

	metrics := monitoring.New()

	var br *bridge.Bridge
	if usesBridge(cfg.Backend) {
		br = bridge.New(log, metrics)
	}
	open, err := backendOpener(cfg, br, log.With().Str("mod", cfg.Backend).Logger())
	if err != nil {
		return err
	}
	withConsole := func() (gamepad.Backend, error) {
		b, err := open()
		// SDL replaces the console control handler during init
		reregister()
		return b, err
	}

	rn := runner.New(withConsole, cfg.PollInterval, log,
		gamepad.WithLogger(log.With().Str("mod", "gamepad").Logger()),
		gamepad.WithMetrics(metrics))

	hubLog := log.With().Str("mod", "hub").Logger()
	h := hub.NewHub(hubLog)
	b := hub.NewBroadcaster(h, rn.Changes(), rn, hubLog)

	routes := server.Routes{
		Inspector: hub.Handler(h, b),
		Metrics:   metrics.Handler(),
		Frontend:  frontendFS(),
	}
	if br != nil {
		routes.Bridge = br
	}
	srv, err := server.New(cfg.Addr, routes, log.With().Str("mod", "http").Logger())
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(3)
	go func() {
		defer wg.Done()
		h.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		b.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := rn.Run(ctx); err != nil {
			errs <- err
		}
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			errs <- fmt.Errorf("http: %w", err)
		}
	}()

	var t *tray.Tray
	if cfg.Tray || !interactive {
		t = tray.New(cfg.Addr, cancel, log.With().Str("mod", "tray").Logger())
		go t.Run()
	} else {
		log.Info().Msg("press Ctrl+C to exit")
	}
	log.Info().Str("backend", cfg.Backend).Str("url", tray.PageURL(cfg.Addr)).Msg("gamepads started")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-errs:
		log.Error().Err(err).Msg("fatal")
	}
	cancel()
	if t != nil {
		t.Quit()
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	wg.Wait()
	log.Info().Msg("gamepads stopped")
	return err
}
