package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/metrics"
	"github.com/yanizio/abalone/internal/requestinfo"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
})

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS(true)(ok)

	cases := []struct {
		name     string
		host     string
		tls      bool
		proto    string
		redirect bool
	}{
		{"plain public", "abalone.example.com", false, "", true},
		{"plain with port", "abalone.example.com:8080", false, "", true},
		{"localhost", "localhost:8080", false, "", false},
		{"loopback ip", "127.0.0.1:8080", false, "", false},
		{"tls", "abalone.example.com", true, "", false},
		{"proxy https", "abalone.example.com", false, "https", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/predict?x=1", nil)
			r.Host = tc.host
			if tc.tls {
				r.TLS = &tls.ConnectionState{}
			}
			if tc.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			if tc.redirect {
				assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
				assert.Equal(t, "https://"+tc.host+"/predict?x=1", rec.Header().Get("Location"))
			} else {
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

func TestForceHTTPS_Disabled(t *testing.T) {
	h := ForceHTTPS(false)(ok)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Host = "abalone.example.com"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurity(t *testing.T) {
	custom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	Security(custom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "no HSTS over plain HTTP")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	Security(ok).ServeHTTP(rec, r)
	assert.Equal(t, hsts, rec.Header().Get("Strict-Transport-Security"))
}

func TestMetrics_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/thing/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/thing/{id}", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/thing/42", nil))
	after := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "/thing/{id}", "418"))
	assert.Equal(t, before+1, after)

	beforeMiss := testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, beforeMiss+1, testutil.ToFloat64(metrics.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRequestLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core).Sugar()

	var seen bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = logger.Lookup(r.Context())
		w.WriteHeader(http.StatusBadGateway)
	})
	h := chimw.RequestID(requestinfo.Enrich(RequestLog(base)(inner)))

	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
		"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, seen, "handler gets request-scoped logger")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.EqualValues(t, http.StatusBadGateway, fields["status"])
	assert.Equal(t, "/predict", fields["path"])
	assert.Equal(t, "Chrome", fields["browser"])
	assert.NotEmpty(t, fields["req_id"])
}

func TestRequestLog_QuietPaths(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := RequestLog(zap.New(core).Sugar())(ok)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/assets/site.css", nil))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
}
