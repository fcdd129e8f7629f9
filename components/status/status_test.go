package status

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/abalone/internal/component"
	"github.com/yanizio/abalone/internal/measurement"
	"github.com/yanizio/abalone/internal/predictor"
	"github.com/yanizio/abalone/internal/requestinfo"
	"github.com/yanizio/abalone/internal/ua"
)

type fakeUpstream struct{ err error }

func (f fakeUpstream) Predict(context.Context, measurement.Payload) (*predictor.Result, error) {
	return nil, errors.New("not used")
}

func (f fakeUpstream) Health(context.Context) (*predictor.Health, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &predictor.Health{Status: "healthy"}, nil
}

func getReport(t *testing.T, up fakeUpstream, info *requestinfo.Info) Report {
	t.Helper()
	c := &Comp{}
	require.NoError(t, c.Init(component.Deps{Predictor: up}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	if info != nil {
		req = req.WithContext(requestinfo.WithInfo(req.Context(), info))
	}
	rec := httptest.NewRecorder()
	c.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rep Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	return rep
}

func TestHealthz_UpstreamHealthy(t *testing.T) {
	info := &requestinfo.Info{UA: ua.Info{Browser: "Firefox", Device: "Desktop"}, IP: net.ParseIP("203.0.113.7")}
	rep := getReport(t, fakeUpstream{}, info)

	assert.Equal(t, "ok", rep.Status)
	assert.Equal(t, "ok", rep.Upstream)
	assert.Equal(t, "healthy", rep.UpstreamState)
	require.NotNil(t, rep.Client)
	assert.Equal(t, "Firefox", rep.Client.UA.Browser)
	assert.Equal(t, "203.0.113.7", rep.Client.IP.String())
}

func TestHealthz_UpstreamDown(t *testing.T) {
	rep := getReport(t, fakeUpstream{err: &predictor.Error{Message: "connection refused"}}, nil)

	assert.Equal(t, "ok", rep.Status)
	assert.Equal(t, "unavailable", rep.Upstream)
	assert.Equal(t, "connection refused", rep.UpstreamError)
	assert.Nil(t, rep.Client)
}

func TestHealthz_ClientGeo(t *testing.T) {
	info := &requestinfo.Info{
		IP:  net.ParseIP("203.0.113.7"),
		Geo: requestinfo.Geo{CountryISO: "NZ", City: "Wellington"},
	}
	rep := getReport(t, fakeUpstream{}, info)

	require.NotNil(t, rep.Client)
	assert.Equal(t, "NZ", rep.Client.Geo.CountryISO)
	assert.Equal(t, "Wellington", rep.Client.Geo.City)
}
