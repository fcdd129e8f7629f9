// internal/form/submit.go
//
// Forms subsystem: submission parsing.
//
// Context
//   Handlers want one call that parses the POST body, checks the CSRF token,
//   and returns the posted values.  Validation of the values belongs to the
//   caller’s domain package, not to the form layer.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
	"net/url"
)

// maxBody caps a form post.  Eight short numeric inputs never get close.
const maxBody = 64 << 10

// ErrBadToken means the CSRF token was missing, forged, or expired.
var ErrBadToken = errors.New("security token invalid, please reload the form and try again")

// ParseSubmission parses r and verifies its CSRF token.  On ErrBadToken the
// posted values are still returned so the caller can re-render them.
func ParseSubmission(w http.ResponseWriter, r *http.Request, c *CSRF) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	posted := r.PostForm
	if !c.Verify(posted.Get(TokenField)) {
		return posted, ErrBadToken
	}
	return posted, nil
}
