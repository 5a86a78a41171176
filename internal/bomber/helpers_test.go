package bomber_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/catalog/catalogtest"
	"github.com/ec429/hbuilder/internal/research"
)

type fixture struct {
	cat  *catalog.Catalog
	st   research.State
	calc *bomber.Calculator
}

// everything unlocks every tech in the fixture catalog.
func everything(t *testing.T) fixture {
	t.Helper()
	cat := catalogtest.New(t)
	all := map[string]bool{}
	for _, tc := range cat.Techs {
		all[tc.Ident] = true
	}
	return fixture{cat: cat, st: research.Apply(cat, all), calc: bomber.NewCalculator()}
}

func (f fixture) engine(t *testing.T, id string) *catalog.Engine {
	t.Helper()
	e, ok := f.cat.Engine(id)
	require.True(t, ok, id)
	return e
}

func (f fixture) turret(t *testing.T, id string) *catalog.Turret {
	t.Helper()
	g, ok := f.cat.Turret(id)
	require.True(t, ok, id)
	return g
}

func (f fixture) manf(t *testing.T, id string) *catalog.Manufacturer {
	t.Helper()
	m, ok := f.cat.Manufacturer(id)
	require.True(t, ok, id)
	return m
}

func (f fixture) fresh(t *testing.T) *bomber.Bomber {
	return bomber.Init(f.manf(t, "AV"), f.engine(t, "MERL"))
}

func (f fixture) calculate(t *testing.T, b *bomber.Bomber) {
	t.Helper()
	require.NoError(t, f.calc.Calculate(b, f.st.Numbers, f.st))
}

func diagnosed(b *bomber.Bomber, sev bomber.Severity, substr string) bool {
	for _, d := range b.Diagnostics {
		if d.Severity == sev && strings.Contains(d.String(), substr) {
			return true
		}
	}
	return false
}

func messages(b *bomber.Bomber) []string {
	var out []string
	for _, d := range b.Diagnostics {
		out = append(out, d.Severity.String()+": "+d.String())
	}
	return out
}
