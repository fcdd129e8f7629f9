// internal/form/csrf.go
//
// Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input generated at render
//   time.  The server verifies this token on POST to ensure the request
//   originated from a form it rendered.  The token is *stateless*:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(key, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – calculated with the process key.  Verifies authenticity.
//
//   Validation checks the signature and ensures the timestamp is within
//   MaxAge.  No server-side sessions are required, so any replica can verify
//   a token issued by another one that shares the key.
//
// Workflow
//   •  NewCSRF(key)   → signer from `security.csrf_key`.
//   •  Generate()     → token string for the renderer.
//   •  Verify(tok)    → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size // nonce + ts + sig
	keyBytes   = 32

	// MaxAge is how long a rendered form stays submittable.
	MaxAge = 2 * time.Hour
	// maxSkew tolerates replicas whose clocks run slightly ahead.
	maxSkew = time.Minute
)

// CSRF signs and verifies form tokens.  Safe for concurrent use.
type CSRF struct {
	key       []byte
	ephemeral bool
	now       func() time.Time
}

// NewCSRF decodes a base64url key of at least 32 bytes.  An empty key yields
// a random per-process key; check Ephemeral() and warn about it.
func NewCSRF(key string) (*CSRF, error) {
	c := &CSRF{now: time.Now}
	if key == "" {
		c.key = make([]byte, keyBytes)
		if _, err := rand.Read(c.key); err != nil {
			return nil, err
		}
		c.ephemeral = true
		return c, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("csrf key: %w", err)
	}
	if len(b) < keyBytes {
		return nil, fmt.Errorf("csrf key: need %d bytes, got %d", keyBytes, len(b))
	}
	c.key = b
	return c, nil
}

// Ephemeral reports whether the key was generated at start-up.
func (c *CSRF) Ephemeral() bool { return c.ephemeral }

// Generate creates a new token.  Call once per form render.
func (c *CSRF) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks.
func (c *CSRF) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := c.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > maxSkew {
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, tsBytes))
}

func (c *CSRF) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
