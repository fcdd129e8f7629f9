//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP and geo hints, preferred language, URL, and
//  timestamp).  These structs are inert.  They contain no pointers to
//  connections or large buffers, so they are safe to log or JSON-encode.
//
//  Dependencies
//  • internal/ua (github.com/avct/uasurfer)
//  • github.com/oschwald/geoip2-golang (optional, see geo.go)
//

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/yanizio/abalone/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Info is attached to the request context by Enrich and read by the request
// log, page templates, and the status endpoint.
type Info struct {
	UA          ua.Info   `json:"ua"`
	IP          net.IP    `json:"ip,omitempty"`
	Geo         Geo       `json:"geo"`
	PrimaryLang string    `json:"lang,omitempty"` // first tag from Accept-Language
	URL         *url.URL  `json:"-"`              // pointer copy, read-only
	Timestamp   time.Time `json:"ts"`
}

//
//  -----------------------------
//  Public helpers
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// WithInfo stores info in ctx.  Enrich is the normal caller; tests use it
// directly.
func WithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(strings.TrimSpace(tag), ";")
	return strings.ToLower(tag)
}
