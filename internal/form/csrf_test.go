package form

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() string {
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
}

func TestCSRF_RoundTrip(t *testing.T) {
	c, err := NewCSRF(testKey())
	require.NoError(t, err)
	assert.False(t, c.Ephemeral())

	tok, err := c.Generate()
	require.NoError(t, err)
	assert.True(t, c.Verify(tok))
}

func TestCSRF_RejectsTampering(t *testing.T) {
	c, err := NewCSRF(testKey())
	require.NoError(t, err)
	tok, err := c.Generate()
	require.NoError(t, err)

	raw, _ := base64.RawURLEncoding.DecodeString(tok)
	raw[len(raw)-1] ^= 0xff
	assert.False(t, c.Verify(base64.RawURLEncoding.EncodeToString(raw)))

	assert.False(t, c.Verify(""))
	assert.False(t, c.Verify("not-a-token"))
}

func TestCSRF_KeyMismatch(t *testing.T) {
	a, err := NewCSRF(testKey())
	require.NoError(t, err)
	b, err := NewCSRF("")
	require.NoError(t, err)
	assert.True(t, b.Ephemeral())

	tok, err := a.Generate()
	require.NoError(t, err)
	assert.False(t, b.Verify(tok))
}

func TestCSRF_Age(t *testing.T) {
	c, err := NewCSRF(testKey())
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	tok, err := c.Generate()
	require.NoError(t, err)

	now = now.Add(MaxAge - time.Second)
	assert.True(t, c.Verify(tok))

	now = now.Add(2 * time.Second)
	assert.False(t, c.Verify(tok), "expired")
}

func TestCSRF_FutureToken(t *testing.T) {
	c, err := NewCSRF(testKey())
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now.Add(5 * time.Minute) }
	tok, err := c.Generate()
	require.NoError(t, err)

	c.now = func() time.Time { return now }
	assert.False(t, c.Verify(tok))
}

func TestNewCSRF_BadKey(t *testing.T) {
	_, err := NewCSRF("!!!")
	assert.Error(t, err)

	_, err = NewCSRF(base64.RawURLEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
