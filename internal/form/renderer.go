// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Given a parsed FormDef (from definition.go) the renderer converts the
//   definition into safe, accessible HTML markup.  Each section becomes a
//   <fieldset>, HTML5 hint attributes are attached, a CSRF token is injected
//   as a hidden input, and previously entered values and server-side error
//   messages are written back so a rejected submission re-renders intact.
//
// Workflow
//   •  Render selects the FormDef, writes each section, then each field via
//      writeField.
//   •  The caller receives the markup as template.HTML so the surrounding
//      page template does not double-escape it.
//
// Style
//   Output HTML carries plain class hooks only.  Each input gets
//   id="fld-{name}" and is wrapped in <div class="form-field">; a field with
//   an error also gets the "has-error" class and aria-invalid.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
)

// TokenField is the hidden input that carries the CSRF token.
const TokenField = "csrf_token"

// RenderOptions bundles the per-request data for one render.
type RenderOptions struct {
	Action string            // form action URL
	Token  string            // CSRF token from CSRF.Generate
	Values map[string]string // prefill keyed by field name
	Errors map[string]string // messages keyed by field name
}

// Render returns the HTML markup for fd.
func Render(fd *FormDef, opts RenderOptions) (template.HTML, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<form class="measure-form" method="post" action="%s" novalidate>`+"\n",
		html.EscapeString(opts.Action))
	fmt.Fprintf(&buf, `<input type="hidden" name="%s" value="%s">`+"\n",
		TokenField, html.EscapeString(opts.Token))

	for _, s := range fd.Sections {
		fmt.Fprintf(&buf, `<fieldset class="form-section" id="sec-%s">`+"\n", html.EscapeString(s.ID))
		if s.Title != "" {
			buf.WriteString(`<legend>` + html.EscapeString(s.Title) + `</legend>` + "\n")
		}
		buf.WriteString(`<div class="form-row">` + "\n")
		for i := range s.Fields {
			if err := writeField(&buf, &s.Fields[i], opts); err != nil {
				return "", err
			}
		}
		buf.WriteString(`</div>` + "\n</fieldset>\n")
	}

	buf.WriteString(`<div class="form-buttons">` + "\n")
	if fd.Reset != "" {
		fmt.Fprintf(&buf, `<a class="btn btn-secondary" href="%s">%s</a>`+"\n",
			html.EscapeString(opts.Action), html.EscapeString(fd.Reset))
	}
	fmt.Fprintf(&buf, `<button class="btn btn-primary" type="submit">%s</button>`+"\n",
		html.EscapeString(fd.Submit))
	buf.WriteString(`</div>` + "\n</form>")

	return template.HTML(buf.String()), nil
}

// writeField emits HTML for an individual field into buf.
func writeField(buf *bytes.Buffer, f *FieldDef, opts RenderOptions) error {
	val := opts.Values[f.Name]
	msg := opts.Errors[f.Name]
	name := html.EscapeString(f.Name)

	class := "form-field"
	if msg != "" {
		class += " has-error"
	}
	buf.WriteString(`<div class="` + class + `">` + "\n")
	buf.WriteString(`<label for="fld-` + name + `">` + html.EscapeString(f.DisplayLabel()) + `</label>` + "\n")

	attrs := `id="fld-` + name + `" name="` + name + `"`
	if f.Required {
		attrs += ` required`
	}
	if f.Help != "" {
		attrs += ` aria-describedby="help-` + name + `"`
	}
	if msg != "" {
		attrs += ` aria-invalid="true"`
	}

	switch f.Type {
	case "text", "number":
		buf.WriteString(`<input ` + attrs + ` type="` + f.Type + `"`)
		if f.Step != "" {
			buf.WriteString(` step="` + html.EscapeString(f.Step) + `"`)
		}
		if f.Min != "" {
			buf.WriteString(` min="` + html.EscapeString(f.Min) + `"`)
		}
		if f.Placeholder != "" {
			buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
		}
		buf.WriteString(` value="` + html.EscapeString(val) + `">` + "\n")

	case "select":
		buf.WriteString(`<select ` + attrs + `>` + "\n")
		for _, o := range f.Options {
			sel := ""
			if val == o.Value {
				sel = ` selected`
			}
			label := o.Label
			if label == "" {
				label = o.Value
			}
			buf.WriteString(`<option value="` + html.EscapeString(o.Value) + `"` + sel + `>` +
				html.EscapeString(label) + `</option>` + "\n")
		}
		buf.WriteString(`</select>` + "\n")

	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", f.Type, f.Name)
	}

	if f.Help != "" {
		buf.WriteString(`<div class="help" id="help-` + name + `">` + html.EscapeString(f.Help) + `</div>` + "\n")
	}
	if msg != "" {
		buf.WriteString(`<div class="error" role="alert">` + html.EscapeString(msg) + `</div>` + "\n")
	}
	buf.WriteString(`</div>` + "\n")
	return nil
}
