package component

import (
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stub struct{ name string }

func (s stub) Name() string       { return s.name }
func (s stub) Init(Deps) error    { return nil }
func (s stub) Routes() chi.Router { return chi.NewRouter() }

func TestRegistry_SortedAndReplaces(t *testing.T) {
	Register(stub{"zeta"})
	Register(stub{"alpha"})
	Register(stub{"alpha"})

	var names []string
	for _, c := range All() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"alpha", "zeta"})
	assert.True(t, indexOf(names, "alpha") < indexOf(names, "zeta"))

	count := 0
	for _, n := range names {
		if n == "alpha" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
