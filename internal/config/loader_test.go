package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	t.Setenv("ABALONE_ROOT", root)
	return root
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestLoad_YAMLAndDefaults(t *testing.T) {
	root := writeRoot(t, `
predictor:
  base_url: "http://predictor:8000"
  info_ttl: 90s
log:
  dir: var/log
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://predictor:8000", cfg.Predictor.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.Predictor.InfoTTL)
	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "Abalone Age Prediction", cfg.Site.Title)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Equal(t, filepath.Join(root, "var/log"), cfg.LogDir())
	assert.Empty(t, cfg.GeoDBPath(), "geo off by default")
	assert.Same(t, cfg, Get())
}

func TestGeoDBPath(t *testing.T) {
	root := writeRoot(t, `
predictor:
  base_url: "http://predictor:8000"
geo:
  db_path: data/GeoLite2-City.mmdb
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "data/GeoLite2-City.mmdb"), cfg.GeoDBPath())

	cfg.Geo.DBPath = "/srv/geo/city.mmdb"
	assert.Equal(t, "/srv/geo/city.mmdb", cfg.GeoDBPath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	writeRoot(t, `
http:
  listen_addr: ":8080"
predictor:
  base_url: "http://localhost:8000"
`)
	t.Setenv("ABALONE_HTTP__LISTEN_ADDR", "127.0.0.1:9090")
	t.Setenv("ABALONE_HTTP__FORCE_HTTPS", "true")
	t.Setenv("ABALONE_PREDICTOR__BASE_URL", "https://api.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.ListenAddr)
	assert.True(t, cfg.HTTP.ForceHTTPS)
	assert.Equal(t, "https://api.example.com", cfg.Predictor.BaseURL)
}

func TestLoad_ValidationFailure(t *testing.T) {
	writeRoot(t, `
predictor:
  base_url: "not a url"
`)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL")
}

func TestLoad_VaultReference(t *testing.T) {
	writeRoot(t, `
security:
  csrf_key: "vault:secret/abalone#csrf_key"
`)
	cfg, err := Load(WithSecrets(fakeSecrets{"secret/abalone#csrf_key": "c2VjcmV0"}))
	require.NoError(t, err)
	assert.Equal(t, "c2VjcmV0", cfg.Security.CSRFKey)
}

func TestLoad_VaultReferenceWithoutClient(t *testing.T) {
	writeRoot(t, `
security:
  csrf_key: "vault:secret/abalone#csrf_key"
`)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security.csrf_key")
}

func TestLoad_MissingYAML(t *testing.T) {
	t.Setenv("ABALONE_ROOT", t.TempDir())
	_, err := Load()
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "http.listen_addr", envKey("ABALONE_HTTP__LISTEN_ADDR"))
	assert.Equal(t, "predictor.info_ttl", envKey("ABALONE_PREDICTOR__INFO_TTL"))
}

func TestReload(t *testing.T) {
	root := writeRoot(t, `
predictor:
  base_url: "http://predictor:8000"
  info_ttl: 1m
site:
  title: "Abalone"
security:
  csrf_key: "vault:secret/abalone#csrf"
`)
	secrets := fakeSecrets{"secret/abalone#csrf": "first"}

	first, err := Load(WithSecrets(secrets))
	require.NoError(t, err)
	assert.Equal(t, "first", first.Security.CSRFKey)

	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(`
predictor:
  base_url: "http://predictor:8000"
  info_ttl: 2m
site:
  title: "Abalone Age"
log:
  level: debug
security:
  csrf_key: "vault:secret/abalone#csrf"
`), 0o644))
	secrets["secret/abalone#csrf"] = "second"

	require.NoError(t, Reload())
	got := Get()
	assert.NotSame(t, first, got)
	assert.Equal(t, 2*time.Minute, got.Predictor.InfoTTL)
	assert.Equal(t, "Abalone Age", got.Site.Title)
	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, "second", got.Security.CSRFKey, "reload reuses the secrets option")
}

func TestReload_FailureKeepsPrevious(t *testing.T) {
	root := writeRoot(t, `
predictor:
  base_url: "http://predictor:8000"
`)
	prev, err := Load()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(`
predictor:
  base_url: "not a url"
`), 0o644))

	assert.Error(t, Reload())
	assert.Same(t, prev, Get())
}
