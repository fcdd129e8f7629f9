// components/landing/landing.go
//
// Landing component: the marketing page at "/".
package landing

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/abalone/internal/component"
	"github.com/yanizio/abalone/internal/logger"
)

//go:embed templates/*.html
var templates embed.FS

// compile-time assertion
var _ component.Component = (*Comp)(nil)

// Comp implements component.Component.
type Comp struct {
	deps component.Deps
}

func (c *Comp) Name() string { return "landing" }

func (c *Comp) Init(d component.Deps) error {
	c.deps = d
	d.Views.Register(c.Name(), templates)
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.home)
	return r
}

func init() {
	component.Register(&Comp{})
}

// webApp is the schema.org description embedded as JSON-LD.
type webApp struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"applicationCategory"`
	CodeRepo    string `json:"codeRepository,omitempty"`
}

const description = "Predict the age of abalone from physical measurements with a machine learning model instead of counting shell rings."

func (c *Comp) home(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	views := c.deps.Views

	p := views.NewPage(r, "home")
	p.Head.SetTitle("Home")
	p.Head.Description(description)
	if err := p.Head.StructuredData(webApp{
		Context:     "https://schema.org",
		Type:        "WebApplication",
		Name:        p.Site.Title,
		Description: description,
		Category:    "ScientificApplication",
		CodeRepo:    p.Site.RepoURL,
	}); err != nil {
		log.Warnw("landing json-ld", "err", err)
	}

	if err := views.Render(w, r, http.StatusOK, c.Name(), "home", p); err != nil {
		log.Errorw("render page", "err", err)
		views.Error(w, r, http.StatusInternalServerError, "Internal error.")
	}
}
