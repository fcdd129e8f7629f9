package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yanizio/abalone/internal/config"
	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/modelinfo"
	"github.com/yanizio/abalone/internal/view"
)

// reloadTargets are the running services that take new config values on
// SIGHUP.  The listener, timeouts, predictor URL, CSRF key, and geo database are bound at
// start-up and need a restart.
type reloadTargets struct {
	views *view.Engine
	info  *modelinfo.Cache
}

// apply pushes the reloadable parts of cfg into the running services: site
// strings, model-info TTL (which also drops the cached value), and log
// level.
func (t reloadTargets) apply(cfg *config.Config) error {
	t.views.SetSite(view.Site{Title: cfg.Site.Title, RepoURL: cfg.Site.RepoURL})
	t.info.SetTTL(cfg.Predictor.InfoTTL)
	return logger.SetLevel(cfg.Log.Level)
}

// reloadOnHUP re-reads config and applies it on every SIGHUP.  A failed
// reload keeps the previous config in force.
func reloadOnHUP(ctx context.Context, t reloadTargets, log *zap.SugaredLogger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := config.Reload(); err != nil {
				log.Errorw("config reload failed, keeping previous config", "err", err)
				continue
			}
			cfg := config.Get()
			if err := t.apply(cfg); err != nil {
				log.Errorw("apply reloaded config", "err", err)
				continue
			}
			log.Infow("config reloaded",
				"site_title", cfg.Site.Title,
				"info_ttl", cfg.Predictor.InfoTTL.String(),
				"log_level", cfg.Log.Level,
			)
		}
	}
}
