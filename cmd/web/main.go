// cmd/web/main.go
//
// Abalone – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load config (conf/.env → conf/global.yaml → ABALONE_* env), resolving
//     any vault: references through a lazily dialled Vault client.
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Build the shared services: theme, view engine, CSRF signer,
//     prediction API client, and the model-info cache in front of it.
//
//  4. Build the router: middleware stack, /metrics, the stylesheet, and
//     every registered component.
//
//  5. Serve until SIGINT/SIGTERM, then drain in-flight requests.  SIGHUP
//     reloads config and applies the reloadable values (see reload.go).
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yanizio/abalone/internal/component"
	"github.com/yanizio/abalone/internal/config"
	"github.com/yanizio/abalone/internal/form"
	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/modelinfo"
	"github.com/yanizio/abalone/internal/predictor"
	"github.com/yanizio/abalone/internal/requestinfo"
	"github.com/yanizio/abalone/internal/routing"
	"github.com/yanizio/abalone/internal/server"
	"github.com/yanizio/abalone/internal/theme"
	"github.com/yanizio/abalone/internal/vault"
	"github.com/yanizio/abalone/internal/view"

	_ "github.com/yanizio/abalone/components/inference"
	_ "github.com/yanizio/abalone/components/landing"
	_ "github.com/yanizio/abalone/components/status"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load(
		config.WithContext(ctx),
		config.WithSecrets(vault.Lazy(ctx, zap.S())),
	)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(logger.Options{
		Dir:   cfg.LogDir(),
		Level: cfg.Log.Level,
		Tee:   runningInTTY(),
	})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  Shared services ─────────────────────────────────────────────
	//
	th, err := theme.New("ocean", theme.Ocean())
	if err != nil {
		logOut.Fatalw("build theme", "err", err)
	}
	views := view.New(th, view.Site{Title: cfg.Site.Title, RepoURL: cfg.Site.RepoURL})

	csrf, err := form.NewCSRF(cfg.Security.CSRFKey)
	if err != nil {
		logOut.Fatalw("csrf key", "err", err)
	}
	if csrf.Ephemeral() {
		logOut.Warnw("security.csrf_key not set, using an ephemeral key; forms break across restarts")
	}

	if path := cfg.GeoDBPath(); path != "" {
		if err := requestinfo.InitGeo(path); err != nil {
			logOut.Fatalw("geo database", "err", err)
		}
		defer func() { _ = requestinfo.CloseGeo() }()
		logOut.Infow("geo lookup enabled", "db", path)
	}

	api, err := predictor.New(cfg.Predictor.BaseURL, predictor.WithLogger(logOut))
	if err != nil {
		logOut.Fatalw("prediction api client", "err", err)
	}
	info := modelinfo.New(api, cfg.Predictor.InfoTTL)
	logOut.Infow("prediction api", "base_url", api.BaseURL(), "info_ttl", cfg.Predictor.InfoTTL.String())

	//
	// ── 4.  Router ──────────────────────────────────────────────────────
	//
	handler, err := routing.New(routing.Options{
		Deps: component.Deps{
			Views:     views,
			CSRF:      csrf,
			Predictor: api,
			ModelInfo: info,
		},
		Theme:      th,
		Components: component.All(),
		ForceHTTPS: cfg.HTTP.ForceHTTPS,
		Log:        logOut,
	})
	if err != nil {
		logOut.Fatalw("build router", "err", err)
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	go reloadOnHUP(ctx, reloadTargets{views: views, info: info}, logOut)

	srv := server.New(cfg.HTTP, handler)
	if err := server.Run(ctx, srv, logOut); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
}
