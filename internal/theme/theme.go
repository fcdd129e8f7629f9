// Package theme holds the design tokens that describe the site's look and
// renders them into the one stylesheet every page links.
//
// A Theme combines:
//
//   - Name         – the token set name (for example, “ocean”).
//   - Tokens       – colours, fonts, radius, shadow, transition, max width.
//   - CSS          – the stylesheet rendered from Tokens at start-up.
//   - Asset        – helper injected into templates so they can resolve
//     `{{ asset "site.css" }}` to a fingerprinted URL.
//
// The stylesheet never changes while the process runs, so its URL carries a
// short content hash and is served with a one-year immutable cache header.
package theme

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"text/template"
	"time"
)

// AssetPrefix is where Handler is mounted.
const AssetPrefix = "/assets/"

// StylesheetName is the only asset the theme serves.
const StylesheetName = "site.css"

// Colors is the palette.
type Colors struct {
	DeepBlue  string
	Teal      string
	LightBlue string
	Sand      string
	Coral     string
	White     string
	LightGrey string
	DarkText  string
	Success   string
	Error     string
}

// Fonts names the primary (body) and secondary (numbers, tables) stacks.
type Fonts struct {
	Primary   string
	Secondary string
	ImportURL string // stylesheet @import for web fonts, optional
}

// Tokens is one complete design token set.
type Tokens struct {
	Colors     Colors
	Fonts      Fonts
	Radius     string
	Shadow     string
	Transition string
	MaxWidth   string
}

// Ocean is the default palette.
func Ocean() Tokens {
	return Tokens{
		Colors: Colors{
			DeepBlue:  "#003366",
			Teal:      "#008080",
			LightBlue: "#66b2b2",
			Sand:      "#f5f5dc",
			Coral:     "#ff7f50",
			White:     "#ffffff",
			LightGrey: "#f0f5f9",
			DarkText:  "#333333",
			Success:   "#2ecc71",
			Error:     "#e74c3c",
		},
		Fonts: Fonts{
			Primary:   `"Poppins", sans-serif`,
			Secondary: `"Roboto", sans-serif`,
			ImportURL: "https://fonts.googleapis.com/css2?family=Poppins:wght@300;400;500;600;700" +
				"&family=Roboto:wght@300;400;500;700&display=swap",
		},
		Radius:     "8px",
		Shadow:     "0 4px 12px rgba(0, 51, 102, 0.15)",
		Transition: "all 0.3s ease",
		MaxWidth:   "1200px",
	}
}

//go:embed site.css.tmpl
var stylesheetSrc string

var stylesheetTpl = template.Must(template.New(StylesheetName).Parse(stylesheetSrc))

// Theme is immutable after New.
type Theme struct {
	Name   string
	Tokens Tokens

	css     []byte
	sum     string
	builtAt time.Time
}

// New renders the stylesheet for t.
func New(name string, t Tokens) (*Theme, error) {
	var buf bytes.Buffer
	if err := stylesheetTpl.Execute(&buf, t); err != nil {
		return nil, fmt.Errorf("theme %s: render stylesheet: %w", name, err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return &Theme{
		Name:    name,
		Tokens:  t,
		css:     buf.Bytes(),
		sum:     hex.EncodeToString(sum[:6]),
		builtAt: time.Now().UTC().Truncate(time.Second),
	}, nil
}

// CSS returns the rendered stylesheet.
func (th *Theme) CSS() []byte { return th.css }

// Version is the short content hash used in asset URLs.
func (th *Theme) Version() string { return th.sum }

// Asset resolves a theme asset name to its public URL.
func (th *Theme) Asset(name string) string {
	if name == StylesheetName {
		return AssetPrefix + name + "?v=" + th.sum
	}
	return AssetPrefix + name
}
