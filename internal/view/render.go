// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Register  – a component hands over its embedded templates.
//   - NewPage   – per-request page model with head defaults.
//   - Render    – execute a page into a buffer, then write status + body.
//
// Template sets
// -------------
// One set per (component, page): the shared layout and partials embedded in
// this package plus `templates/<page>.html` from the component.  Pages wrap
// their markup in {{ define "content" }} and the layout pulls it in, so
// every page of a component can reuse the same block names without
// clashing.
//
// execName() chooses the template to execute:
//   – If the set contains "layout", we run that (full page).
//   – Else we fall back to "<name>.html" (fragment file).
//
// Style
// -----
// • Two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yanizio/abalone/internal/cache"
	"github.com/yanizio/abalone/internal/head"
	"github.com/yanizio/abalone/internal/logger"
	"github.com/yanizio/abalone/internal/requestinfo"
	"github.com/yanizio/abalone/internal/theme"
)

//go:embed templates
var shared embed.FS

// Site carries presentation strings shared by every page.
type Site struct {
	Title   string
	RepoURL string
}

// Page is the root object every template receives.
type Page struct {
	Head *head.Builder
	Site Site
	Nav  string            // active nav entry: "home", "predict"
	Req  *requestinfo.Info // nil outside the middleware chain
	Year int
	Data any
}

// Engine renders component pages.  Safe for concurrent use.
type Engine struct {
	theme *theme.Theme
	lru   *cache.LRU

	mu    sync.RWMutex
	site  Site
	comps map[string]fs.FS
}

// New returns an Engine.  Parsed sets are cached; capacity 64 covers every
// page many times over.
func New(th *theme.Theme, site Site) *Engine {
	return &Engine{
		theme: th,
		site:  site,
		lru:   cache.New(64),
		comps: make(map[string]fs.FS),
	}
}

// Register makes comp's templates available.  fsys must contain
// templates/<page>.html.
func (e *Engine) Register(comp string, fsys fs.FS) {
	e.mu.Lock()
	e.comps[comp] = fsys
	e.mu.Unlock()
}

// SetSite replaces the site strings used by pages created afterwards.
func (e *Engine) SetSite(site Site) {
	e.mu.Lock()
	e.site = site
	e.mu.Unlock()
}

// NewPage seeds the head with the site title and stylesheet.
func (e *Engine) NewPage(r *http.Request, nav string) *Page {
	e.mu.RLock()
	site := e.site
	e.mu.RUnlock()

	h := head.New(site.Title)
	h.Meta(`<meta charset="utf-8">`)
	h.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.Stylesheet(e.theme.Asset(theme.StylesheetName))
	return &Page{
		Head: h,
		Site: site,
		Nav:  nav,
		Req:  requestinfo.FromContext(r.Context()),
		Year: time.Now().Year(),
	}
}

// Render executes comp/name with p and writes it with status.  Nothing is
// written when execution fails, so the caller can still send a 500.
func (e *Engine) Render(w http.ResponseWriter, r *http.Request, status int, comp, name string, p *Page) error {
	t, err := e.load(comp, name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), p); err != nil {
		return fmt.Errorf("render %s/%s: %w", comp, name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Debugw("write page", "comp", comp, "page", name, "err", err)
	}
	return nil
}

// Error renders the shared error page, falling back to plain text if even
// that fails.
func (e *Engine) Error(w http.ResponseWriter, r *http.Request, status int, msg string) {
	p := e.NewPage(r, "")
	p.Head.SetTitle(http.StatusText(status))
	p.Data = map[string]any{"Status": status, "Message": msg}
	if err := e.Render(w, r, status, "", "error", p); err != nil {
		logger.FromContext(r.Context()).Errorw("error page", "err", err)
		http.Error(w, msg, status)
	}
}

//
// internal: load
//

// load returns the cached set for (comp, name), parsing it on first use.
// comp "" selects the pages embedded in this package (the error page).
func (e *Engine) load(comp, name string) (*template.Template, error) {
	key := comp + "::" + name
	if v, ok := e.lru.Get(key); ok {
		return v.(*template.Template), nil
	}

	t, err := template.New(name).Funcs(e.funcMap()).ParseFS(shared, "templates/layout/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	fsys, dir := fs.FS(shared), "templates/pages/"
	if comp != "" {
		e.mu.RLock()
		cfs, ok := e.comps[comp]
		e.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("view: component %q not registered", comp)
		}
		fsys, dir = cfs, "templates/"
	}
	if t, err = t.ParseFS(fsys, dir+name+".html"); err != nil {
		return nil, fmt.Errorf("parse %s/%s: %w", comp, name, err)
	}

	e.lru.Add(key, t)
	return t, nil
}

//
// func-map builders
//

func (e *Engine) funcMap() template.FuncMap {
	fm := template.FuncMap{
		"dict":  dict,
		"asset": e.theme.Asset,
		"lower": strings.ToLower,
	}
	for k, v := range uaFuncMap() {
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. "layout" when the set has it (full page).
//  2. "<name>.html" otherwise.
func execName(t *template.Template, name string) string {
	if t.Lookup("layout") != nil {
		return "layout"
	}
	return name + ".html"
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
