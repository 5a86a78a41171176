package research_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec429/hbuilder/internal/catalog/catalogtest"
	"github.com/ec429/hbuilder/internal/research"
	"github.com/ec429/hbuilder/internal/tech"
)

func TestApplyOverlaysInCatalogOrder(t *testing.T) {
	cat := catalogtest.New(t)
	unlocked := map[string]bool{"BAS": true, "FUL": true, "ESH": true, "MRL": true}

	s := research.Apply(cat, unlocked)
	assert.EqualValues(t, 70, s.Numbers.Mark.FUT, "later tech overrides baseline")
	assert.EqualValues(t, 60, s.Numbers.Mark.FUV, "zero in later tech keeps baseline")
	assert.EqualValues(t, 1, s.Numbers.Mark.ESL)
	assert.True(t, s.EngineUnlocked("MERL"))
	assert.True(t, s.EngineUnlocked("PEGA"))
	assert.False(t, s.EngineUnlocked("HERC"))
	assert.True(t, s.TurretUnlocked("FN5N"))
	assert.False(t, s.TurretUnlocked("FN20"))
	assert.Equal(t, []string{"BAS", "MRL", "ESH", "FUL"}, s.Unlocked(cat))

	again := research.Apply(cat, unlocked)
	assert.Equal(t, s, again)
	assert.Len(t, unlocked, 4, "input untouched")
}

func TestToggleReturnsNewState(t *testing.T) {
	cat := catalogtest.New(t)
	s0 := research.Apply(cat, map[string]bool{"BAS": true})

	s1, err := s0.Toggle(cat, "MRL")
	require.NoError(t, err)
	assert.Equal(t, s0.Version+1, s1.Version)
	assert.True(t, s1.EngineUnlocked("MERL"))
	assert.False(t, s0.EngineUnlocked("MERL"), "original state unchanged")

	s2, err := s1.Toggle(cat, "MRL")
	require.NoError(t, err)
	assert.False(t, s2.EngineUnlocked("MERL"))
	assert.Equal(t, s0.Numbers, s2.Numbers)
}

func TestToggleChecksRequirements(t *testing.T) {
	cat := catalogtest.New(t)
	s := research.Apply(cat, map[string]bool{"BAS": true})

	assert.False(t, research.HaveReqs(cat, s, "ESS"))
	_, err := s.Toggle(cat, "ESS")
	assert.ErrorIs(t, err, research.ErrMissingReqs)

	s, err = s.Toggle(cat, "ESH")
	require.NoError(t, err)
	assert.True(t, research.HaveReqs(cat, s, "ESS"))
	s, err = s.Toggle(cat, "ESS")
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.Numbers.Mark.ESL)

	_, err = s.Toggle(cat, "XYZ")
	assert.ErrorIs(t, err, research.ErrUnknownTech)
}

func TestRefreshKeepsUnlockSet(t *testing.T) {
	cat := catalogtest.New(t)
	s := research.Apply(cat, map[string]bool{"BAS": true, "SST": true})
	r := s.Refresh(cat)
	assert.Equal(t, s.Version+1, r.Version)
	assert.Equal(t, s.Techs, r.Techs)
	assert.NotZero(t, r.Numbers.Mod.SFT)
	var zero tech.Numbers
	assert.NotEqual(t, zero, r.Numbers)
}
