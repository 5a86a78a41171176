// Package record reads and writes the line-oriented design record.
//
// A record holds a design's inputs, its refit tier and its tech snapshot.
// It does not name a parent; the hangar links designs together.
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/tech"
)

var (
	ErrMalformed    = errors.New("malformed record line")
	ErrUnknownIdent = errors.New("unknown catalog ident")
	ErrMissing      = errors.New("record line missing")
	ErrNoEOD        = errors.New("record ends without EOD")
)

const null = "null"

// Save writes b's inputs in record form.
func Save(w io.Writer, b *bomber.Bomber) error {
	if b.Manf == nil || b.Engines.Type == nil {
		return fmt.Errorf("save: %w: design has no manufacturer or engine", ErrMalformed)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "MAN=%s\n", b.Manf.Ident)
	fmt.Fprintf(bw, "ENG=%d:TYP=%s:MOU=%s:EGG=%d\n",
		b.Engines.Number, b.Engines.Type.Ident, b.Engines.Mounted().Ident, bit(b.Engines.Egg))
	for loc := catalog.LocNose; loc < catalog.LocCount; loc++ {
		fmt.Fprintf(bw, "TUR=%d:TYP=%s:MOU=%s\n",
			loc, turretIdent(b.Turrets.Type[loc]), turretIdent(b.Turrets.Prepared(loc)))
	}
	fmt.Fprintf(bw, "WIN=%d:ART=%d\n", b.Wing.Area, b.Wing.Art)

	var crew strings.Builder
	for _, m := range b.Crew.Men {
		crew.WriteByte(m.Class.Letter())
		if m.Gun {
			crew.WriteByte('*')
		}
	}
	fmt.Fprintf(bw, "CRW=%s\n", crew.String())
	fmt.Fprintf(bw, "BOM=%d:CAP=%d:GIR=%d:CSB=%d\n", b.Bay.Load, b.Bay.Cap, b.Bay.Girth, bit(b.Bay.CSBS))
	fmt.Fprintf(bw, "FUS=%d\n", b.Fuse.Type)

	var nav strings.Builder
	for _, on := range b.Elec.NavAids {
		nav.WriteByte('0' + byte(bit(on)))
	}
	fmt.Fprintf(bw, "ESL=%d:NAV=%s\n", b.Elec.ESL, nav.String())
	fmt.Fprintf(bw, "TAN=%d:PCT=%d:SST=%d\n", b.Tanks.HLB, b.Tanks.Pct, bit(b.Tanks.SST))
	fmt.Fprintf(bw, "MTW=%d:USR=%d\n", b.MTOW, bit(b.UserMTOW))
	fmt.Fprintf(bw, "RFL=%d\n", b.Refit)
	d := b.Dice
	fmt.Fprintf(bw, "RND=%d:DRG=%d:SRV=%d:VUL=%d:MAN=%d:ACC=%d\n",
		bit(d.Rolled), d.Drag, d.Serv, d.Vuln, d.Manu, d.Accu)

	fields := tech.Fields()
	kv := make([]string, 0, len(fields))
	for _, f := range fields {
		kv = append(kv, f.Key+"="+strconv.FormatUint(uint64(f.Get(&b.Tech)), 10))
	}
	fmt.Fprintf(bw, "TEC=%s\n", strings.Join(kv, ":"))
	fmt.Fprintln(bw, "EOD")
	return bw.Flush()
}

// Load reads one record, resolving idents against cat. Lines after EOD
// are left unread.
func Load(r io.Reader, cat *catalog.Catalog) (*bomber.Bomber, error) {
	b := &bomber.Bomber{}
	seen := map[string]bool{}
	sc := bufio.NewScanner(r)
	// TEC lines carry every coefficient.
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "EOD" {
			for _, tag := range required {
				if !seen[tag] {
					return nil, fmt.Errorf("%w: %s", ErrMissing, tag)
				}
			}
			return b, nil
		}
		tag, err := loadLine(b, cat, line)
		if err != nil {
			return nil, fmt.Errorf("record line %d: %w", n, err)
		}
		seen[tag] = true
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoEOD
}

// required lists the lines a record cannot do without. Older records
// lack MTW, RND and TEC.
var required = []string{"MAN", "ENG", "WIN", "CRW", "BOM", "FUS", "ESL", "TAN", "RFL"}

type field struct {
	key, value string
}

func split(line string) []field {
	parts := strings.Split(line, ":")
	out := make([]field, len(parts))
	for i, p := range parts {
		k, v, _ := strings.Cut(p, "=")
		out[i] = field{k, v}
	}
	return out
}

// ints parses the values of fs, which must carry exactly the given keys
// in order.
func ints(fs []field, keys ...string) ([]int, error) {
	if len(fs) != len(keys) {
		return nil, fmt.Errorf("%w: %s wants %d fields, got %d", ErrMalformed, keys[0], len(keys), len(fs))
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		if f.key != keys[i] {
			return nil, fmt.Errorf("%w: expected %s, got %q", ErrMalformed, keys[i], f.key)
		}
		v, err := strconv.Atoi(f.value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", ErrMalformed, f.key, f.value)
		}
		out[i] = v
	}
	return out, nil
}

func loadLine(b *bomber.Bomber, cat *catalog.Catalog, line string) (string, error) {
	fs := split(line)
	tag := fs[0].key
	switch tag {
	case "MAN":
		m, ok := cat.Manufacturer(fs[0].value)
		if !ok {
			return tag, fmt.Errorf("%w: manufacturer %q", ErrUnknownIdent, fs[0].value)
		}
		b.Manf = m
	case "ENG":
		if len(fs) != 4 || fs[1].key != "TYP" || fs[2].key != "MOU" || fs[3].key != "EGG" {
			return tag, fmt.Errorf("%w: %s", ErrMalformed, line)
		}
		num, err := strconv.Atoi(fs[0].value)
		if err != nil {
			return tag, fmt.Errorf("%w: ENG=%q", ErrMalformed, fs[0].value)
		}
		typ, ok := cat.Engine(fs[1].value)
		if !ok {
			return tag, fmt.Errorf("%w: engine %q", ErrUnknownIdent, fs[1].value)
		}
		mou, ok := cat.Engine(fs[2].value)
		if !ok {
			return tag, fmt.Errorf("%w: engine %q", ErrUnknownIdent, fs[2].value)
		}
		b.Engines.Number, b.Engines.Type, b.Engines.Mount = num, typ, mou
		b.Engines.Egg = fs[3].value == "1"
	case "TUR":
		if len(fs) != 3 || fs[1].key != "TYP" || fs[2].key != "MOU" {
			return tag, fmt.Errorf("%w: %s", ErrMalformed, line)
		}
		loc, err := strconv.Atoi(fs[0].value)
		if err != nil || loc <= int(catalog.LocNone) || loc >= int(catalog.LocCount) {
			return tag, fmt.Errorf("%w: turret location %q", ErrMalformed, fs[0].value)
		}
		typ, err := turret(cat, fs[1].value)
		if err != nil {
			return tag, err
		}
		mou, err := turret(cat, fs[2].value)
		if err != nil {
			return tag, err
		}
		b.Turrets.Type[loc] = typ
		if mou != typ {
			b.Turrets.Mount[loc] = mou
		}
	case "WIN":
		v, err := ints(fs, "WIN", "ART")
		if err != nil {
			return tag, err
		}
		b.Wing.Area, b.Wing.Art = v[0], v[1]
	case "CRW":
		men, err := parseCrew(fs[0].value)
		if err != nil {
			return tag, err
		}
		b.Crew.Men = men
	case "BOM":
		v, err := ints(fs, "BOM", "CAP", "GIR", "CSB")
		if err != nil {
			return tag, err
		}
		b.Bay.Load, b.Bay.Cap, b.Bay.Girth, b.Bay.CSBS = v[0], v[1], v[2], v[3] != 0
	case "FUS":
		v, err := ints(fs, "FUS")
		if err != nil {
			return tag, err
		}
		b.Fuse.Type = v[0]
	case "ESL":
		if len(fs) != 2 || fs[1].key != "NAV" || len(fs[1].value) != tech.NavCount {
			return tag, fmt.Errorf("%w: %s", ErrMalformed, line)
		}
		esl, err := strconv.Atoi(fs[0].value)
		if err != nil {
			return tag, fmt.Errorf("%w: ESL=%q", ErrMalformed, fs[0].value)
		}
		b.Elec.ESL = esl
		for i := 0; i < tech.NavCount; i++ {
			switch fs[1].value[i] {
			case '0':
			case '1':
				b.Elec.NavAids[i] = true
			default:
				return tag, fmt.Errorf("%w: NAV=%q", ErrMalformed, fs[1].value)
			}
		}
	case "TAN":
		v, err := ints(fs, "TAN", "PCT", "SST")
		if err != nil {
			return tag, err
		}
		b.Tanks.HLB, b.Tanks.Pct, b.Tanks.SST = v[0], v[1], v[2] != 0
	case "MTW":
		v, err := ints(fs, "MTW", "USR")
		if err != nil {
			return tag, err
		}
		b.MTOW, b.UserMTOW = v[0], v[1] != 0
	case "RFL":
		v, err := ints(fs, "RFL")
		if err != nil {
			return tag, err
		}
		b.Refit = tech.Tier(v[0])
	case "RND":
		v, err := ints(fs, "RND", "DRG", "SRV", "VUL", "MAN", "ACC")
		if err != nil {
			return tag, err
		}
		b.Dice = bomber.Dice{Rolled: v[0] != 0, Drag: v[1], Serv: v[2], Vuln: v[3], Manu: v[4], Accu: v[5]}
	case "TEC":
		// The first field is "TEC=KEY=value".
		k, v, _ := strings.Cut(fs[0].value, "=")
		fs[0] = field{k, v}
		for _, f := range fs {
			if f.key == "" {
				continue
			}
			tf, ok := tech.Lookup(f.key)
			if !ok {
				return tag, fmt.Errorf("%w: unknown tech key %q", ErrMalformed, f.key)
			}
			v, err := strconv.ParseUint(f.value, 10, 32)
			if err != nil {
				return tag, fmt.Errorf("%w: %s=%q", ErrMalformed, f.key, f.value)
			}
			tf.Set(&b.Tech, uint32(v))
		}
	default:
		return tag, fmt.Errorf("%w: unknown tag %q", ErrMalformed, tag)
	}
	return tag, nil
}

func parseCrew(s string) ([]bomber.Crewman, error) {
	var men []bomber.Crewman
	for i := 0; i < len(s); i++ {
		if s[i] == '*' {
			if len(men) == 0 {
				return nil, fmt.Errorf("%w: crew %q starts with *", ErrMalformed, s)
			}
			men[len(men)-1].Gun = true
			continue
		}
		c, ok := bomber.CrewClassFor(s[i])
		if !ok {
			return nil, fmt.Errorf("%w: crew letter %q", ErrMalformed, s[i])
		}
		men = append(men, bomber.Crewman{Class: c})
	}
	return men, nil
}

func turret(cat *catalog.Catalog, ident string) (*catalog.Turret, error) {
	if ident == null {
		return nil, nil
	}
	t, ok := cat.Turret(ident)
	if !ok {
		return nil, fmt.Errorf("%w: turret %q", ErrUnknownIdent, ident)
	}
	return t, nil
}

func turretIdent(t *catalog.Turret) string {
	if t == nil {
		return null
	}
	return t.Ident
}

func bit(v bool) int {
	if v {
		return 1
	}
	return 0
}
