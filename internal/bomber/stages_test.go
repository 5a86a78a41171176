package bomber_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

// stageCase edits the default design and the live numbers, then checks
// which diagnostics the pipeline reports.
type stageCase struct {
	name     string
	setup    func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers)
	errors   []string
	warnings []string
	absent   []string
}

func runStageCases(t *testing.T, cases []stageCase) {
	t.Helper()
	f := everything(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := f.fresh(t)
			n := f.st.Numbers
			if tc.setup != nil {
				tc.setup(t, f, b, &n)
			}
			require.NoError(t, f.calc.Calculate(b, n, f.st))
			for _, s := range tc.errors {
				assert.True(t, diagnosed(b, bomber.Error, s), "want error %q in %v", s, messages(b))
			}
			for _, s := range tc.warnings {
				assert.True(t, diagnosed(b, bomber.Warning, s), "want warning %q in %v", s, messages(b))
			}
			for _, s := range tc.absent {
				for _, m := range messages(b) {
					assert.NotContains(t, m, s)
				}
			}
		})
	}
}

func TestElectricsRules(t *testing.T) {
	runStageCases(t, []stageCase{
		{
			name: "gee on high supply",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Elec.ESL = bomber.ESLHigh
				b.Elec.NavAids[tech.NavGee] = true
			},
			absent: []string{"Gee", "electrics"},
		},
		{
			name: "h2s needs stable supply",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Elec.ESL = bomber.ESLHigh
				b.Elec.NavAids[tech.NavH2S] = true
			},
			errors: []string{"H2S needs Stable electrics!"},
		},
		{
			name: "h2s on stable supply",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Elec.ESL = bomber.ESLStable
				b.Elec.NavAids[tech.NavH2S] = true
			},
			absent: []string{"H2S"},
		},
		{
			name: "h2s against ventral mount",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Elec.ESL = bomber.ESLStable
				b.Elec.NavAids[tech.NavH2S] = true
				b.Turrets.Type[catalog.LocVentral] = f.turret(t, "FN21")
			},
			errors: []string{"H2S scanner conflicts with ventral turret mount!"},
		},
		{
			name: "locked nav aid",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Elec.ESL = bomber.ESLHigh
				b.Elec.NavAids[tech.NavGee] = true
				n.Mod.NA[tech.NavGee] = 0
			},
			errors: []string{"Gee not developed yet!"},
		},
		{
			name: "supply level not developed",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Elec.ESL = bomber.ESLStable
				n.Mark.ESL = 1
			},
			errors: []string{"Electrics Stable not developed yet!"},
		},
	})
}

func TestTankRules(t *testing.T) {
	runStageCases(t, []stageCase{
		{
			name: "self-sealing not developed",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Tanks.SST = true
				n.Mod.SFT = 0
			},
			errors: []string{"Self sealing tanks not developed yet!"},
		},
		{
			name: "self-sealing developed",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Tanks.SST = true
			},
			absent: []string{"Self sealing"},
		},
		{
			name: "overfilled",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Tanks.Pct = 101
			},
			errors: []string{"beyond 100%"},
		},
	})
}

func TestCrammedFuelThreshold(t *testing.T) {
	f := everything(t)
	base := f.fresh(t)
	f.calculate(t, base)
	perLb := base.Tanks.Ratio / base.Tanks.Mass

	// fill sets the fuel mass so the wing ratio lands near want.
	fill := func(b *bomber.Bomber, want float64) {
		mass := want / perLb
		b.Tanks.HLB = int(math.Ceil(mass / 100))
		b.Tanks.Pct = int(math.Round(mass / (float64(b.Tanks.HLB) * 100) * 100))
	}
	for _, tc := range []struct {
		ratio   float64
		sealed  bool
		crammed bool
	}{
		{1.8, false, false},
		{2.25, false, true},
		{2.25, true, false},
		{2.7, true, true},
	} {
		b := f.fresh(t)
		b.Tanks.SST = tc.sealed
		fill(b, tc.ratio)
		f.calculate(t, b)
		require.InDelta(t, tc.ratio, b.Tanks.Ratio, 0.1)
		assert.Equal(t, tc.crammed, diagnosed(b, bomber.Warning, "crammed with fuel"),
			"ratio %.2f sealed %v: %v", b.Tanks.Ratio, tc.sealed, messages(b))
	}
}

func TestTankMultipliers(t *testing.T) {
	f := everything(t)
	n := f.st.Numbers

	plain := f.fresh(t)
	f.calculate(t, plain)
	sealed := f.fresh(t)
	sealed.Tanks.SST = true
	f.calculate(t, sealed)

	assert.InDelta(t, plain.Tanks.Tare*float64(n.Mod.SFT)/100, sealed.Tanks.Tare, 1e-9)
	assert.InDelta(t, plain.Tanks.Cost*float64(n.Mod.SFC)/100, sealed.Tanks.Cost, 1e-9)
	assert.InDelta(t, plain.Tanks.Vuln*float64(n.Mod.SFV)/100, sealed.Tanks.Vuln, 1e-9)

	vi := f.manf(t, "VI")
	normal := bomber.Init(vi, f.engine(t, "MERL"))
	f.calculate(t, normal)
	geo := bomber.Init(vi, f.engine(t, "MERL"))
	geo.Fuse.Type = tech.FuseGeodetic
	f.calculate(t, geo)
	require.Equal(t, normal.Tanks.Ratio, geo.Tanks.Ratio)
	assert.InDelta(t, normal.Tanks.Vuln*float64(n.Mark.FGV)/100, geo.Tanks.Vuln, 1e-9)
}

func TestBombBayRules(t *testing.T) {
	runStageCases(t, []stageCase{
		{
			name: "big bay without structures",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Bay.Cap = 6000
				n.Core.BBF = 0
			},
			errors: []string{"Bomb bay too large for current structures!"},
		},
		{
			name: "big bay with structures",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Bay.Cap = 6000
			},
			absent: []string{"too large"},
		},
		{
			name: "medium bay not developed",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Bay.Girth = tech.GirthMedium
				n.Core.BT[tech.GirthMedium] = 0
			},
			errors: []string{"Bay for medium bombs not developed yet!"},
		},
	})
}

func TestBombBayBigFactorAndCookies(t *testing.T) {
	f := everything(t)
	n := f.st.Numbers
	threshold := float64(n.Core.BBB) * 1000 // the fixture manufacturer adds none

	small := f.fresh(t)
	small.Bay.Cap = int(threshold)
	f.calculate(t, small)
	assert.Zero(t, small.Bay.BigFactor)

	big := f.fresh(t)
	big.Bay.Cap = int(threshold) + 2000
	f.calculate(t, big)
	assert.InDelta(t, 2000/(float64(n.Core.BBF)*1e5), big.Bay.BigFactor, 1e-12)
	assert.InDelta(t, float64(big.Bay.Cap)*(big.Bay.Factor+big.Bay.BigFactor)+20, big.Bay.Tare, 1e-9)

	for _, tc := range []struct {
		girth  int
		bmc    uint32
		cookie bool
	}{
		{tech.GirthSmall, 1, false},
		{tech.GirthMedium, 0, false},
		{tech.GirthMedium, 1, true},
		{tech.GirthCookie, 0, true},
	} {
		b := f.fresh(t)
		b.Bay.Girth = tc.girth
		live := n
		live.Doctrine.BMC = tc.bmc
		require.NoError(t, f.calc.Calculate(b, live, f.st))
		assert.Equal(t, tc.cookie, b.Bay.Cookie, "girth %d BMC %d", tc.girth, tc.bmc)
	}
}

func TestRunwayRules(t *testing.T) {
	runStageCases(t, []stageCase{
		{
			name:   "fits grass",
			absent: []string{"runway", "airfield"},
		},
		{
			name: "needs concrete",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				n.Doctrine.RGG = 1
			},
			warnings: []string{"Design needs concrete runways."},
			absent:   []string{"airfield"},
		},
		{
			name: "too fast for grass",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				n.Doctrine.RGS = 1
			},
			warnings: []string{"Design needs concrete runways."},
		},
		{
			name: "too heavy for concrete",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				n.Doctrine.RGG, n.Doctrine.RCG = 1, 1
			},
			warnings: []string{"Design is too heavy for any airfield!"},
			absent:   []string{"concrete"},
		},
		{
			name: "concrete undeveloped",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				n.Doctrine.RGG, n.Doctrine.RCS, n.Doctrine.RCG = 1, 0, 0
			},
			warnings: []string{"Design is too heavy for any airfield!"},
		},
		{
			name: "no limits",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				n.Doctrine.RGS, n.Doctrine.RGG, n.Doctrine.RCS, n.Doctrine.RCG = 0, 0, 0, 0
			},
			absent: []string{"runway", "airfield"},
		},
	})
}

func TestUnarmedBomberRule(t *testing.T) {
	runStageCases(t, []stageCase{
		{
			name:   "at the limit",
			absent: []string{"Unarmed"},
		},
		{
			name: "over the limit",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Engines.Number = 2
			},
			warnings: []string{"Unarmed bomber with 2 engines is a sitting duck."},
		},
		{
			name: "armed",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Engines.Number = 2
				b.Turrets.Type[catalog.LocTail] = f.turret(t, "FN20")
			},
			absent: []string{"Unarmed"},
		},
		{
			name: "limit raised",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Engines.Number = 2
				n.Core.UBL = 2
			},
			absent: []string{"Unarmed"},
		},
	})
}

func TestGeodeticNeedsCapableManufacturer(t *testing.T) {
	runStageCases(t, []stageCase{
		{
			name: "avro",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Fuse.Type = tech.FuseGeodetic
			},
			errors: []string{"This manufacturer cannot design geodetics!"},
		},
		{
			name: "vickers",
			setup: func(t *testing.T, f fixture, b *bomber.Bomber, n *tech.Numbers) {
				b.Manf = f.manf(t, "VI")
				b.Fuse.Type = tech.FuseGeodetic
			},
			absent: []string{"geodetics"},
		},
	})
}

func TestDualRoleAssignment(t *testing.T) {
	f := everything(t)
	crew := func(men ...bomber.Crewman) []bomber.Crewman { return men }
	p := bomber.Crewman{Class: bomber.Pilot}

	// The navigator takes the nose first; the bomb-aimer finds nothing left.
	b := f.fresh(t)
	b.Engines.Number = 2
	b.Turrets.Type[catalog.LocNose] = f.turret(t, "FN5N")
	b.Crew.Men = crew(p, bomber.Crewman{Class: bomber.Navigator, Gun: true}, bomber.Crewman{Class: bomber.BombAimer, Gun: true})
	f.calculate(t, b)
	assert.True(t, b.Turrets.Manned[catalog.LocNose])
	assert.Equal(t, 1, b.Crew.Gunners)
	assert.True(t, diagnosed(b, bomber.Warning, "No turrets found for Bomb-aimer"), messages(b))
	assert.False(t, diagnosed(b, bomber.Warning, "No turrets found for Navigator"), messages(b))

	// A second turret the bomb-aimer can operate takes him.
	b = f.fresh(t)
	b.Engines.Number = 2
	b.Fuse.Type = tech.FuseSlabby
	b.Turrets.Type[catalog.LocNose] = f.turret(t, "FN5N")
	b.Turrets.Type[catalog.LocWaist] = f.turret(t, "SLBW")
	b.Crew.Men = crew(p, bomber.Crewman{Class: bomber.Navigator, Gun: true}, bomber.Crewman{Class: bomber.BombAimer, Gun: true})
	f.calculate(t, b)
	assert.True(t, b.Turrets.Manned[catalog.LocNose])
	assert.True(t, b.Turrets.Manned[catalog.LocWaist])
	assert.Equal(t, 2, b.Crew.Gunners)
	assert.False(t, diagnosed(b, bomber.Warning, "No turrets found"), messages(b))
	assert.False(t, diagnosed(b, bomber.Warning, "Fewer gunners than turrets"), messages(b))

	// Pilots cannot work the nose turret.
	b = f.fresh(t)
	b.Engines.Number = 2
	b.Turrets.Type[catalog.LocNose] = f.turret(t, "FN5N")
	b.Crew.Men = crew(bomber.Crewman{Class: bomber.Pilot, Gun: true}, bomber.Crewman{Class: bomber.Navigator})
	f.calculate(t, b)
	assert.False(t, b.Turrets.Manned[catalog.LocNose])
	assert.True(t, diagnosed(b, bomber.Warning, "No turrets found for Pilot"), messages(b))
	assert.True(t, diagnosed(b, bomber.Warning, "Fewer gunners than turrets"), messages(b))

	// Wireless operators and gunners need no turret; engineers cannot double up.
	b = f.fresh(t)
	b.Crew.Men = crew(p, bomber.Crewman{Class: bomber.Navigator},
		bomber.Crewman{Class: bomber.Wireless, Gun: true}, bomber.Crewman{Class: bomber.Gunner},
		bomber.Crewman{Class: bomber.Engineer, Gun: true})
	f.calculate(t, b)
	assert.Equal(t, 2, b.Crew.Gunners)
	assert.True(t, diagnosed(b, bomber.Error, "Engineer cannot dual-role as gunner!"), messages(b))
}
