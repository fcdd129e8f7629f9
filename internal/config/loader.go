// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env` file.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `ABALONE_`, where `__` maps to “.”
     (e.g., `ABALONE_PREDICTOR__BASE_URL → predictor.base_url`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaults are filled, `vault:` references are resolved, the result is
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Instrumentation
---------------
  • DEBUG spans - root discovery, YAML read, secret resolution.
  • ERROR spans - YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  - final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/abalone/internal/vault"
)

// EnvPrefix scopes every environment override.
const EnvPrefix = "ABALONE_"

var current atomic.Pointer[Config]

// last remembers the options of the most recent Load for Reload.
var last atomic.Pointer[[]Option]

/*──────────────────────────── options ──────────────────────────────────────*/

type options struct {
	ctx     context.Context
	secrets vault.Getter
}

// Option tunes a single Load call.
type Option func(*options)

// WithSecrets supplies the Vault reader used for `vault:` values.  Without it
// any reference fails the load.
func WithSecrets(g vault.Getter) Option { return func(o *options) { o.secrets = g } }

// WithContext bounds secret lookups.
func WithContext(ctx context.Context) Option { return func(o *options) { o.ctx = ctx } }

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves ABALONE_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

func joinRoot(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// envKey maps ABALONE_HTTP__LISTEN_ADDR to http.listen_addr.
func envKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load(opts ...Option) (*Config, error) {
	o := options{ctx: context.Background()}
	for _, fn := range opts {
		fn(&o)
	}
	last.Store(&opts)

	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyDefaults(&cfg)
	cfg.Paths.Root = root

	if err := resolveSecrets(o.ctx, &cfg, o.secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"predictor", cfg.Predictor.BaseURL,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── defaults ────────────────────────────────────*/

func applyDefaults(c *Config) {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 30 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 120 * time.Second
	}
	if c.Predictor.BaseURL == "" {
		c.Predictor.BaseURL = "http://localhost:8000"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Site.Title == "" {
		c.Site.Title = "Abalone Age Prediction"
	}
}

/*──────────────────────────── secrets ─────────────────────────────────────*/

// secretFields lists every string setting that may hold a vault: reference.
func secretFields(c *Config) map[string]*string {
	return map[string]*string{
		"predictor.base_url": &c.Predictor.BaseURL,
		"security.csrf_key":  &c.Security.CSRFKey,
		"site.repo_url":      &c.Site.RepoURL,
	}
}

func resolveSecrets(ctx context.Context, c *Config, g vault.Getter) error {
	for key, ptr := range secretFields(c) {
		if !vault.IsRef(*ptr) {
			continue
		}
		ref, err := vault.ParseRef(*ptr)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if g == nil {
			return fmt.Errorf("%s: %s needs a vault client", key, ref)
		}
		val, err := g.GetKV(ctx, ref.Path, ref.Key, 0)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*ptr = val
		zap.S().Debugw("config secret resolved", "key", key, "ref", ref.String())
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }

// Reload repeats the last Load with the same options.
func Reload() error {
	var opts []Option
	if p := last.Load(); p != nil {
		opts = *p
	}
	_, err := Load(opts...)
	return err
}
