// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                     – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `ABALONE_`-prefixed environment overrides – highest precedence.
//
// Any string value that begins with `vault:` is resolved through the Vault
// client after unmarshalling, so validation only ever sees plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"  validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"  validate:"gte=0"`
}

//
// Predictor section
//

// Predictor points at the external prediction API.
//
// InfoTTL bounds how long the model description is reused between page
// renders.  Zero disables that cache.  Predictions are never cached.
type Predictor struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	InfoTTL time.Duration `koanf:"info_ttl" validate:"gte=0"`
}

//
// Log section
//

// Log selects the log directory and level.  A relative Dir is resolved
// against Paths.Root.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `koanf:"dir"`
}

//
// Security section
//

// Security holds the CSRF signing key, base64url encoded.  Leave it empty in
// development to get an ephemeral key; in production point it at Vault, e.g.
// `vault:secret/abalone#csrf_key`.
type Security struct {
	CSRFKey string `koanf:"csrf_key"`
}

//
// Site section
//

// Site carries presentation strings shared by every page.
type Site struct {
	Title   string `koanf:"title"    validate:"required"`
	RepoURL string `koanf:"repo_url" validate:"omitempty,url"`
}

//
// Geo section
//

// Geo points at an optional MaxMind GeoLite2-City database.  Empty disables
// IP geolocation.  A relative DBPath is resolved against Paths.Root.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime and never read from YAML or env.
type Paths struct {
	Root string // ABALONE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Predictor Predictor `koanf:"predictor"`
	Log       Log       `koanf:"log"`
	Security  Security  `koanf:"security"`
	Site      Site      `koanf:"site"`
	Geo       Geo       `koanf:"geo"`
	Paths     Paths     `koanf:"-"`
}

// LogDir returns the absolute log directory.
func (c *Config) LogDir() string {
	if c.Log.Dir == "" {
		return joinRoot(c.Paths.Root, "logs")
	}
	return joinRoot(c.Paths.Root, c.Log.Dir)
}

// GeoDBPath returns the absolute GeoLite2 path, or "" when geolocation is off.
func (c *Config) GeoDBPath() string {
	if c.Geo.DBPath == "" {
		return ""
	}
	return joinRoot(c.Paths.Root, c.Geo.DBPath)
}
