package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich(t *testing.T) {
	var got *Info
	h := Enrich(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/predict?x=1", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	r.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	r.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
		"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36")
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.Equal(t, "203.0.113.9", got.IP.String())
	assert.Equal(t, "en-gb", got.PrimaryLang)
	assert.Equal(t, "/predict", got.URL.Path)
	assert.Equal(t, "Chrome", got.UA.Browser)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, Geo{}, got.Geo, "no geo database")
}

func TestClientIP_BareAddress(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7"
	assert.Equal(t, "198.51.100.7", clientIP(r).String())
}

func TestFromContext_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(r.Context()))
}

func TestPrimaryLang(t *testing.T) {
	assert.Equal(t, "", primaryLang(""))
	assert.Equal(t, "fr", primaryLang("fr;q=0.8, en"))
	assert.Equal(t, "de-de", primaryLang(" de-DE ,en"))
}
