// components/inference/inference.go
//
// Inference component: the measurement form, its submission, and the
// prediction results.
//
// Flow
// ----
//   GET  /predict  → fresh draft (Sex = I), model info, CSRF token.
//   POST /predict  → CSRF check → measurement.Validate → predictor.Predict.
//
//   • bad token        → 403, banner, draft kept
//   • invalid draft    → 422, messages beside fields, draft kept
//   • upstream failure → 502, "Prediction failed: <message>", draft kept
//   • success          → 200, results, form reset to a fresh draft
//
// Model info is fetched for every render.  When that fails the page still
// renders with a banner.  Each handler call is independent; the only shared
// state is the model-info cache behind Deps.ModelInfo.
package inference

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/abalone/internal/component"
	"github.com/yanizio/abalone/internal/form"
	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/measurement"
	"github.com/yanizio/abalone/internal/metrics"
	"github.com/yanizio/abalone/internal/predictor"
)

// FormID names the embedded form definition.
const FormID = "abalone/measurements"

// Banner texts.
const (
	MsgInfoUnavailable = "Failed to fetch model information. The API may be unavailable."
	MsgBadToken        = "This form has expired. Please check your values and submit again."
	msgPredictFailed   = "Prediction failed: "
)

//go:embed templates/*.html
var templates embed.FS

//go:embed forms/measurements.yaml
var forms embed.FS

// compile-time assertion
var _ component.Component = (*Comp)(nil)

// Comp implements component.Component.
type Comp struct {
	deps component.Deps
	def  *form.FormDef
}

func (c *Comp) Name() string { return "inference" }

// Init loads the form definition, checks it against the measurement field
// table, and registers the page templates.
func (c *Comp) Init(d component.Deps) error {
	fd, err := form.LoadFS(forms, "forms/measurements.yaml")
	if err != nil {
		return err
	}
	if fd.ID != FormID {
		return fmt.Errorf("inference: form id %q, want %q", fd.ID, FormID)
	}
	if err := checkFields(fd); err != nil {
		return err
	}

	c.deps, c.def = d, fd
	d.Views.Register(c.Name(), templates)
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/predict", c.show)
	r.Post("/predict", c.submit)
	return r
}

func init() {
	component.Register(&Comp{})
}

// checkFields requires every measurement field exactly once and nothing
// else.
func checkFields(fd *form.FormDef) error {
	seen := make(map[string]bool)
	for _, name := range fd.FieldNames() {
		if _, ok := measurement.Lookup(name); !ok {
			return fmt.Errorf("inference: form field %q is not a measurement", name)
		}
		seen[name] = true
	}
	for _, f := range measurement.Fields() {
		if !seen[f.Name] {
			return fmt.Errorf("inference: form is missing field %q", f.Name)
		}
	}
	return nil
}

/*──────────────────────────── handlers ─────────────────────────────────────*/

// state is everything one render of the page needs.
type state struct {
	status int
	draft  measurement.Draft
	errs   measurement.Errors
	banner string
	result *predictor.Result
}

// pageData is the template view of state.
type pageData struct {
	Form       template.HTML
	Banner     string
	InfoBanner string
	Result     *predictor.Result
	Info       *predictor.ModelInfo
	ErrorCount int
}

func (c *Comp) show(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, state{status: http.StatusOK, draft: measurement.NewDraft()})
}

func (c *Comp) submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	posted, err := form.ParseSubmission(w, r, c.deps.CSRF)
	if err != nil && !errors.Is(err, form.ErrBadToken) {
		log.Infow("unreadable prediction form", "err", err)
		c.deps.Views.Error(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	draft := measurement.DraftFromValues(posted)

	if errors.Is(err, form.ErrBadToken) {
		metrics.Predictions.WithLabelValues(metrics.OutcomeBadToken).Inc()
		log.Infow("prediction rejected", "reason", "csrf")
		c.render(w, r, state{status: http.StatusForbidden, draft: draft, banner: MsgBadToken})
		return
	}

	if errs := measurement.Validate(draft); !errs.Valid() {
		metrics.Predictions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		log.Debugw("prediction draft invalid", "fields", errs.Fields())
		c.render(w, r, state{status: http.StatusUnprocessableEntity, draft: draft, errs: errs})
		return
	}

	payload, err := draft.Payload()
	if err != nil {
		log.Errorw("build prediction payload", "err", err)
		c.deps.Views.Error(w, r, http.StatusInternalServerError, "Internal error.")
		return
	}

	res, err := c.deps.Predictor.Predict(r.Context(), payload)
	if err != nil {
		metrics.Predictions.WithLabelValues(metrics.OutcomeUpstreamError).Inc()
		log.Warnw("prediction failed", "err", err)
		c.render(w, r, state{status: http.StatusBadGateway, draft: draft, banner: msgPredictFailed + err.Error()})
		return
	}

	metrics.Predictions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Infow("prediction", "rings", res.Rings, "age", res.Age)
	c.render(w, r, state{status: http.StatusOK, draft: measurement.NewDraft(), result: res})
}

// render fetches model info, builds the form, and writes the page.
func (c *Comp) render(w http.ResponseWriter, r *http.Request, st state) {
	log := logger.FromContext(r.Context())

	data := pageData{
		Banner:     st.banner,
		Result:     st.result,
		ErrorCount: len(st.errs),
	}

	info, err := c.deps.ModelInfo.ModelInfo(r.Context())
	if err != nil {
		log.Warnw("model info unavailable", "err", err)
		data.InfoBanner = MsgInfoUnavailable
	} else {
		data.Info = info
	}

	tok, err := c.deps.CSRF.Generate()
	if err != nil {
		log.Errorw("csrf token", "err", err)
		c.deps.Views.Error(w, r, http.StatusInternalServerError, "Internal error.")
		return
	}

	data.Form, err = form.Render(c.def, form.RenderOptions{
		Action: "/predict",
		Token:  tok,
		Values: st.draft.Values(),
		Errors: st.errs,
	})
	if err != nil {
		log.Errorw("render form", "err", err)
		c.deps.Views.Error(w, r, http.StatusInternalServerError, "Internal error.")
		return
	}

	p := c.deps.Views.NewPage(r, "predict")
	p.Head.SetTitle("Age Predictor")
	p.Head.Description("Predict the age of an abalone from its physical measurements.")
	p.Data = data
	if err := c.deps.Views.Render(w, r, st.status, c.Name(), "predict", p); err != nil {
		log.Errorw("render page", "err", err)
		c.deps.Views.Error(w, r, http.StatusInternalServerError, "Internal error.")
	}
}

