// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single request.  Handlers push tags
// into the builder, then the base layout decides where to emit each slice.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Description        – <meta name="description">.
//   - Canonical          – <link rel="canonical">.
//   - Stylesheet         – <link rel="stylesheet">.
//   - Meta, Link         – raw, pre-escaped tags with deduplication.
//   - JSONLD             – stores JSON-LD documents and wraps them in
//     <script type="application/ld+json">…</script>.
//   - Render helpers     – concat methods that return template.HTML.
package head

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"html/template"
	"strings"
	"sync"
)

// Builder is guarded by a mutex so a handler may fan out work that adds
// tags, but typical use is one goroutine per request.
type Builder struct {
	mu sync.Mutex

	title  string
	suffix string

	metas  []string
	links  []string
	jsonLD []string

	seen map[string]struct{}
}

// New returns a Builder whose titles are suffixed with " | site", unless
// site is empty.
func New(site string) *Builder {
	return &Builder{suffix: site, seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag.  With no page title the site
// name stands alone.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.title
	switch {
	case t == "":
		t = b.suffix
	case b.suffix != "" && t != b.suffix:
		t += " | " + b.suffix
	}
	if t == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(t) + "</title>")
}

// ------------------------------------------------------------------
// Typed helpers
// ------------------------------------------------------------------

// Description sets the meta description.
func (b *Builder) Description(s string) {
	b.Meta(`<meta name="description" content="` + template.HTMLEscapeString(s) + `">`)
}

// Canonical adds <link rel="canonical">.
func (b *Builder) Canonical(href string) {
	b.Link(`<link rel="canonical" href="` + template.HTMLEscapeString(href) + `">`)
}

// Stylesheet adds <link rel="stylesheet">.
func (b *Builder) Stylesheet(href string) {
	b.Link(`<link rel="stylesheet" href="` + template.HTMLEscapeString(href) + `">`)
}

// StructuredData marshals v as JSON-LD.
func (b *Builder) StructuredData(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b.JSONLD(string(raw))
	return nil
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

func (b *Builder) Meta(tag string)  { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)  { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) JSONLD(js string) { b.add("jsonld:"+hash(js), &b.jsonLD, js) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hash creates a short, stable key for JSON-LD strings.
func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

// ------------------------------------------------------------------
// Rendering helpers called from the layout
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML { return b.concat(b.metas) }
func (b *Builder) Links() template.HTML { return b.concat(b.links) }

// JSON returns all JSON-LD blocks wrapped in <script> tags.  "</" is escaped
// so a document can never close the script element early.
func (b *Builder) JSON() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(strings.ReplaceAll(js, "</", `<\/`))
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags without a separator.
func (b *Builder) concat(sl []string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return template.HTML(strings.Join(sl, ""))
}
