package measurement

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_WireNamesAndOrder(t *testing.T) {
	p, err := validDraft().Payload()
	require.NoError(t, err)

	body, err := json.Marshal(p)
	require.NoError(t, err)

	want := `{"Sex":"M","Length":0.455,"Diameter":0.365,"Height":0.095,` +
		`"Whole weight":0.514,"Shucked weight":0.2245,"Viscera weight":0.105,"Shell weight":0.15}`
	assert.Equal(t, want, string(body))
}

func TestPayload_Values(t *testing.T) {
	p, err := validDraft().Payload()
	require.NoError(t, err)

	assert.Equal(t, Male, p.Sex)
	assert.InDelta(t, 0.514, p.Value(FieldWholeWeight), 1e-12)
	assert.InDelta(t, 0.15, p.Value(FieldShellWeight), 1e-12)
}

func TestPayload_RejectsInvalidDraft(t *testing.T) {
	d := validDraft()
	d.Height = "1"

	_, err := d.Payload()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDraft))
}

func TestLookup(t *testing.T) {
	f, ok := Lookup(FieldShuckedWeight)
	require.True(t, ok)
	assert.Equal(t, "Shucked weight", f.Wire)
	assert.True(t, f.Numeric)

	_, ok = Lookup("Rings")
	assert.False(t, ok)
}

func TestPayload_TrimsLikeValidate(t *testing.T) {
	d := validDraft()
	d.Sex = " M"
	d.Length = " 0.455 "
	d.ShellWeight = "\t0.15\n"
	require.True(t, Validate(d).Valid())

	p, err := d.Payload()
	require.NoError(t, err)
	assert.Equal(t, Male, p.Sex)
	assert.InDelta(t, 0.455, p.Value(FieldLength), 1e-12)
	assert.InDelta(t, 0.15, p.Value(FieldShellWeight), 1e-12)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Sex":"M","Length":0.455,`)
}
