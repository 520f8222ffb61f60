package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioconv/folioconv/internal/config"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(newFidelity())

	c := r.Get("fidelity")
	require.NotNil(t, c)
	assert.Equal(t, "fidelity", c.Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(newFidelity())
	assert.NotNil(t, r.Get("Fidelity"))
	assert.NotNil(t, r.Get("FIDELITY"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(newFidelity())
	assert.Panics(t, func() { r.Register(newFidelity()) })
}

func TestRegistry_AllSorted(t *testing.T) {
	r := NewDefaultRegistry(config.Default())

	all := r.All()
	require.Len(t, all, 4)
	assert.Equal(t, "fidelity", all[0].Format())
	assert.Equal(t, "morganstanley", all[1].Format())
	assert.Equal(t, "vanguard-brokerage", all[2].Format())
	assert.Equal(t, "vanguard-retirement", all[3].Format())
}

func TestDetect(t *testing.T) {
	r := NewDefaultRegistry(config.Default())

	cases := []struct {
		fixture string
		format  string
	}{
		{"fidelity_401k.csv", "fidelity"},
		{"fidelity_ira.csv", "fidelity"},
		{"morganstanley_releases.csv", "morganstanley"},
		{"morganstanley_withdrawals.csv", "morganstanley"},
		{"vanguard_401k.csv", "vanguard-retirement"},
		{"vanguard_roth.csv", "vanguard-retirement"},
		{"vanguard_brokerage.csv", "vanguard-brokerage"},
	}

	for _, tc := range cases {
		c, err := r.Detect(readFixture(t, tc.fixture))
		require.NoError(t, err, tc.fixture)
		assert.Equal(t, tc.format, c.Format(), tc.fixture)
	}
}

func TestDetect_Unknown(t *testing.T) {
	r := NewDefaultRegistry(config.Default())

	_, err := r.Detect([]byte("Some,Other,Bank\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized export format")
	assert.Contains(t, err.Error(), "--format")
}
