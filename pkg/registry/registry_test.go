package registry_test

import (
	"testing"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named string

func (n named) Name() string                                { return string(n) }
func (n named) Contains(domain.Trajectory) bool             { return true }
func (n named) CanAppend(domain.Trajectory) bool            { return true }
func (n named) CanPrepend(domain.Trajectory) bool           { return true }
func (n named) Split(domain.Trajectory) []domain.Trajectory { return nil }

func TestRegistry(t *testing.T) {
	r := registry.New[int]("number")
	require.NoError(t, r.Register("b", 2))
	require.NoError(t, r.Register("a", 1))

	v, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = r.Get("c")
	assert.ErrorContains(t, err, "number not found: c")

	assert.Error(t, r.Register("a", 3))
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestCatalog_LookupEnsembles(t *testing.T) {
	c := registry.NewCatalog()
	require.NoError(t, c.Ensembles.Register("tis0", named("tis0")))
	require.NoError(t, c.Ensembles.Register("tis1", named("tis1")))

	got, err := c.LookupEnsembles("tis1", "tis0")
	require.NoError(t, err)
	assert.Equal(t, []domain.Ensemble{named("tis1"), named("tis0")}, got)

	_, err = c.LookupEnsembles("tis0", "missing")
	assert.Error(t, err)
}
