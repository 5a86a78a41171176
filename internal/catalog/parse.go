package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ec429/hbuilder/internal/tech"
)

var (
	ErrBadIdent   = errors.New("bad ident")
	ErrUnknownKey = errors.New("unrecognised key")
	ErrBadValue   = errors.New("bad value")
	ErrNoDefaults = errors.New("manufacturer defaults row ** must come first")
)

// word is one colon-separated item of a record line.
type word struct {
	key   string
	value string
}

// splitRecord splits "IDENT:K=v:K=v" into the ident and its words.
func splitRecord(line string, identLen int) (string, []word, error) {
	parts := strings.Split(line, ":")
	ident := parts[0]
	if len(ident) != identLen {
		return "", nil, fmt.Errorf("%w %q: want %d chars", ErrBadIdent, ident, identLen)
	}
	words := make([]word, 0, len(parts)-1)
	for _, p := range parts[1:] {
		k, v, _ := strings.Cut(p, "=")
		words = append(words, word{key: k, value: v})
	}
	return ident, words, nil
}

// forEachLine calls fn for every non-blank, non-comment line of r.
func forEachLine(r io.Reader, fn func(line string) error) (int, error) {
	sc := bufio.NewScanner(r)
	n, count := 0, 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return count, fmt.Errorf("line %d: %w", n, err)
		}
		count++
	}
	return count, sc.Err()
}

func atoi(w word) (int, error) {
	v, err := strconv.ParseUint(w.value, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrBadValue, w.key, w.value)
	}
	return int(v), nil
}

func flag(w word) (bool, error) {
	v, err := atoi(w)
	return v != 0, err
}

// intKeys binds numeric keys to record fields.
type intKeys map[string]*int

func (k intKeys) set(w word) (bool, error) {
	p, ok := k[w.key]
	if !ok {
		return false, nil
	}
	v, err := atoi(w)
	if err != nil {
		return true, err
	}
	*p = v
	return true, nil
}

func parseEngine(line string) (*Engine, error) {
	ident, words, err := splitRecord(line, 4)
	if err != nil {
		return nil, err
	}
	e := &Engine{Ident: ident}
	keys := intKeys{
		"BHP": &e.BHP, "VUL": &e.VUL, "FAI": &e.FAI, "SVC": &e.SVC,
		"COS": &e.COS, "SCL": &e.SCL, "TWT": &e.TWT, "DRG": &e.DRG,
	}
	for _, w := range words {
		if ok, err := keys.set(w); ok {
			if err != nil {
				return nil, fmt.Errorf("engine %s: %w", ident, err)
			}
			continue
		}
		switch w.key {
		case "u":
			e.Upgrade = w.value
		case "m":
			e.Maker = w.value
		case "n":
			e.Name = w.value
		default:
			return nil, fmt.Errorf("engine %s: %w %q", ident, ErrUnknownKey, w.key)
		}
	}
	return e, nil
}

func parseTurret(line string) (*Turret, error) {
	ident, words, err := splitRecord(line, 4)
	if err != nil {
		return nil, err
	}
	t := &Turret{Ident: ident}
	var lxn int
	keys := intKeys{
		"SRV": &t.SRV, "TWT": &t.TWT, "DRG": &t.DRG, "LXN": &lxn,
		"GUN": &t.Guns, "ESL": &t.ESL,
		"GCF": &t.Coverage[CoverFront], "GCD": &t.Coverage[CoverBeamHigh],
		"GCV": &t.Coverage[CoverBeamLow], "GCH": &t.Coverage[CoverTailHigh],
		"GCL": &t.Coverage[CoverTailLow], "GCB": &t.Coverage[CoverBeneath],
	}
	flags := map[string]*bool{"OCP": &t.OCP, "OCN": &t.OCN, "OCB": &t.OCB, "SLB": &t.Slab}
	for _, w := range words {
		if ok, err := keys.set(w); ok {
			if err != nil {
				return nil, fmt.Errorf("turret %s: %w", ident, err)
			}
			continue
		}
		if p, ok := flags[w.key]; ok {
			if *p, err = flag(w); err != nil {
				return nil, fmt.Errorf("turret %s: %w", ident, err)
			}
			continue
		}
		switch w.key {
		case "n":
			t.Name = w.value
		default:
			return nil, fmt.Errorf("turret %s: %w %q", ident, ErrUnknownKey, w.key)
		}
	}
	t.Location = Location(lxn)
	return t, nil
}

// parseManufacturer starts from defaults (the ** row) when given.
func parseManufacturer(line string, defaults *Manufacturer) (*Manufacturer, error) {
	ident, words, err := splitRecord(line, 2)
	if err != nil {
		return nil, err
	}
	m := &Manufacturer{}
	if defaults != nil {
		*m = *defaults
		m.EngineMaker, m.Name = "", ""
	}
	m.Ident = ident
	var geo int
	if m.Geodetic {
		geo = 1
	}
	keys := intKeys{
		"WAP": &m.WAP, "WLD": &m.WLD, "BBB": &m.BBB,
		"BTS": &m.BT[tech.GirthSmall], "BTM": &m.BT[tech.GirthMedium], "BTC": &m.BT[tech.GirthCookie],
		"WCF": &m.WCF, "WCP": &m.WCP, "WC4": &m.WC4, "WT4": &m.WT4,
		"ACC": &m.ACC, "ACT": &m.ACT, "GEO": &geo, "TPL": &m.TPL,
		"FDN": &m.FD[tech.FuseNormal], "FDT": &m.FD[tech.FuseSlender],
		"FDS": &m.FD[tech.FuseSlabby], "FDG": &m.FD[tech.FuseGeodetic],
		"FTN": &m.FT[tech.FuseNormal], "FTT": &m.FT[tech.FuseSlender],
		"FTS": &m.FT[tech.FuseSlabby], "FTG": &m.FT[tech.FuseGeodetic],
		"SVP": &m.SVP, "BOF": &m.BOF,
	}
	for _, w := range words {
		if ok, err := keys.set(w); ok {
			if err != nil {
				return nil, fmt.Errorf("manufacturer %s: %w", ident, err)
			}
			continue
		}
		switch w.key {
		case "e":
			m.EngineMaker = w.value
		case "n":
			m.Name = w.value
		default:
			return nil, fmt.Errorf("manufacturer %s: %w %q", ident, ErrUnknownKey, w.key)
		}
	}
	m.Geodetic = geo != 0
	return m, nil
}

func parseTech(line string) (*Tech, error) {
	ident, words, err := splitRecord(line, 3)
	if err != nil {
		return nil, err
	}
	t := &Tech{Ident: ident}
	for _, w := range words {
		if f, ok := tech.Lookup(w.key); ok {
			v, err := atoi(w)
			if err != nil {
				return nil, fmt.Errorf("tech %s: %w", ident, err)
			}
			f.Set(&t.Numbers, uint32(v))
			continue
		}
		switch w.key {
		case "y":
			t.Year, err = atoi(w)
		case "m":
			t.Month, err = atoi(w)
		case "i":
			t.interim, err = flag(w)
		case "r":
			t.Requires = append(t.Requires, w.value)
		case "e":
			t.Engines = append(t.Engines, w.value)
		case "t":
			t.Turrets = append(t.Turrets, w.value)
		case "n":
			t.Name = w.value
		default:
			err = fmt.Errorf("%w %q", ErrUnknownKey, w.key)
		}
		if err != nil {
			return nil, fmt.Errorf("tech %s: %w", ident, err)
		}
	}
	return t, nil
}
