// Package app wires the components together and owns the process
// lifecycle.
package app

import (
	"context"
	"fmt"

	"plstrack/internal/revisit"
	"plstrack/internal/sweep"
	"plstrack/pkg/api"
	"plstrack/pkg/chat"
	"plstrack/pkg/compose"
	"plstrack/pkg/config"
	"plstrack/pkg/kv"
	"plstrack/pkg/logger"
	"plstrack/pkg/store"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	kv      kv.Store
	records *store.Records
	queue   *store.Revisits
	sweeper *sweep.Sweeper
	checker *revisit.Checker
	api     *api.API

	cancels []context.CancelFunc
}

// New initializes resources that do not require a running context. Call Run
// to start the schedulers and HTTP server and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	cfg := eff.Config
	var kvs kv.Store
	if eff.DBPath == ":memory:" {
		kvs = kv.NewMemory()
	} else {
		p, err := kv.Open(eff.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
		}
		kvs = p
	}

	records := store.NewRecords(kvs)
	queue := store.NewRevisits(kvs)
	sweeper := sweep.New(records, cfg.Retention.Window.Std())

	var opener revisit.Opener = revisit.LogOpener{}
	if cfg.Revisit.OpenWebhook != "" {
		opener = revisit.NewWebhookOpener(cfg.Revisit.OpenWebhook)
	}
	checker := revisit.NewChecker(records, queue, opener)

	rules := compose.Rules{
		SiteURL:       cfg.Site.BaseURL,
		PrimaryRoom:   cfg.Chat.PrimaryRoom,
		PrimaryName:   cfg.Chat.PrimaryName,
		SecondaryRoom: cfg.Chat.SecondaryRoom,
		SecondaryName: cfg.Chat.SecondaryName,
		OldPostDays:   cfg.Chat.OldPostDays,
	}

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		kv:        kvs,
		records:   records,
		queue:     queue,
		sweeper:   sweeper,
		checker:   checker,
		api: &api.API{
			Records:     records,
			Revisits:    queue,
			Checker:     checker,
			Sweeper:     sweeper,
			Chat:        chat.NewClient(cfg.Chat.BaseURL),
			Rules:       rules,
			SandboxRoom: cfg.Chat.SandboxRoom,
			Debug:       cfg.Chat.Debug,
		},
	}
	return a, nil
}

// Run starts the schedulers and the HTTP server, and blocks until ctx is
// canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	if err := a.startSchedulers(ctx); err != nil {
		return err
	}

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.stop()
		return nil
	case err := <-errCh:
		a.stop()
		return err
	}
}

// startSchedulers starts the retention sweep and the due-reminder check
// when enabled.
func (a *App) startSchedulers(ctx context.Context) error {
	cfg := a.eff.Config
	if cfg.Retention.Enabled {
		cancel, err := a.sweeper.Start(ctx, cfg.Retention.Cron)
		if err != nil {
			return err
		}
		a.cancels = append(a.cancels, cancel)
	} else {
		logger.Info("retention_disabled")
	}
	if cfg.Revisit.Enabled {
		cancel, err := a.checker.Start(ctx, cfg.Revisit.Cron)
		if err != nil {
			return err
		}
		a.cancels = append(a.cancels, cancel)
	} else {
		logger.Info("revisit_check_disabled")
	}
	return nil
}

func (a *App) stop() {
	for _, c := range a.cancels {
		c()
	}
	if err := a.kv.Close(); err != nil {
		logger.Error("store_close_failed", "error", err)
	}
}
