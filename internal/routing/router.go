// internal/routing/router.go
//
// Application router.
//
// The router is built once at start-up.  It wires the middleware stack in a
// fixed order, initialises every component with the shared Deps, and copies
// each component's routes onto one chi mux so the matched pattern is visible
// to the metrics middleware.
//
// Middleware order
// ----------------
//   RequestID → RealIP → Enrich → RequestLog → Recoverer → Metrics →
//   Security → ForceHTTPS
//
// RequestLog sits outside Recoverer so a recovered panic is still logged as
// a 500.

package routing

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/abalone/internal/component"
	"github.com/yanizio/abalone/internal/middleware"
	"github.com/yanizio/abalone/internal/requestinfo"
	"github.com/yanizio/abalone/internal/theme"
)

// MetricsPath serves the Prometheus exposition.
const MetricsPath = "/metrics"

// Options configures New.
type Options struct {
	Deps       component.Deps
	Theme      *theme.Theme
	Components []component.Component
	ForceHTTPS bool
	Log        *zap.SugaredLogger
}

// New builds the root handler.  A component whose Init fails aborts
// start-up.
func New(o Options) (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestinfo.Enrich)
	r.Use(middleware.RequestLog(o.Log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(o.ForceHTTPS))

	r.Handle(MetricsPath, promhttp.Handler())
	r.Get(theme.AssetPrefix+theme.StylesheetName, o.Theme.ServeCSS)

	for _, c := range o.Components {
		if err := c.Init(o.Deps); err != nil {
			return nil, fmt.Errorf("init component %s: %w", c.Name(), err)
		}
		if err := mount(r, c.Routes()); err != nil {
			return nil, fmt.Errorf("mount component %s: %w", c.Name(), err)
		}
		o.Log.Debugw("component mounted", "component", c.Name())
	}

	views := o.Deps.Views
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		views.Error(w, req, http.StatusNotFound, "Page not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		views.Error(w, req, http.StatusMethodNotAllowed, "Method not allowed.")
	})
	return r, nil
}

// mount copies every route of sub onto r.  Two components claiming the same
// method and pattern is a start-up error rather than a silent override.
func mount(r chi.Router, sub chi.Router) error {
	return chi.Walk(sub, func(method, route string, h http.Handler, mws ...func(http.Handler) http.Handler) error {
		if r.Match(chi.NewRouteContext(), method, route) {
			return fmt.Errorf("route %s %s already registered", method, route)
		}
		r.With(mws...).Method(method, route, h)
		return nil
	})
}
