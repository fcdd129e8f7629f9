package theme

import (
	"bytes"
	"net/http"
)

// ServeCSS serves the stylesheet.  Requests carrying the current ?v= hash
// may be cached forever; anything else revalidates via ETag.
func (th *Theme) ServeCSS(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "text/css; charset=utf-8")
	h.Set("ETag", `"`+th.sum+`"`)
	if r.URL.Query().Get("v") == th.sum {
		h.Set("Cache-Control", "public, max-age=31536000, immutable")
	} else {
		h.Set("Cache-Control", "no-cache")
	}
	http.ServeContent(w, r, StylesheetName, th.builtAt, bytes.NewReader(th.css))
}
