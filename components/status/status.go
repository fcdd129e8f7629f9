// components/status/status.go
//
// Status component – a JSON liveness check that also reports the prediction
// API's own /health and the caller's request details.
package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/abalone/internal/component"
	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/requestinfo"
)

// upstreamTimeout bounds the upstream call so a hung API cannot hang the check.
const upstreamTimeout = 3 * time.Second

// compile-time assertion
var _ component.Component = (*Comp)(nil)

// Comp implements component.Component.
type Comp struct {
	deps component.Deps
}

func (c *Comp) Name() string { return "status" }

func (c *Comp) Init(d component.Deps) error {
	c.deps = d
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", c.healthz)
	return r
}

func init() {
	component.Register(&Comp{})
}

// Report is the /healthz body.  Status is "ok" whenever this process can
// answer; Upstream is "ok" or "unavailable".
type Report struct {
	Status        string            `json:"status"`
	Upstream      string            `json:"upstream"`
	UpstreamState string            `json:"upstream_status,omitempty"`
	UpstreamError string            `json:"upstream_error,omitempty"`
	Client        *requestinfo.Info `json:"client,omitempty"`
}

func (c *Comp) healthz(w http.ResponseWriter, r *http.Request) {
	rep := Report{Status: "ok", Upstream: "ok", Client: requestinfo.FromContext(r.Context())}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()
	h, err := c.deps.Predictor.Health(ctx)
	if err != nil {
		rep.Upstream, rep.UpstreamError = "unavailable", err.Error()
	} else {
		rep.UpstreamState = h.Status
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		logger.FromContext(r.Context()).Debugw("write healthz", "err", err)
	}
}
