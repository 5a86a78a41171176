package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Paths names the four flat files of a catalog directory.
type Paths struct {
	BaseDir string // e.g. /usr/share/hbuilder
}

func (p Paths) EnginePath() string       { return filepath.Join(p.BaseDir, "eng") }
func (p Paths) TurretPath() string       { return filepath.Join(p.BaseDir, "guns") }
func (p Paths) ManufacturerPath() string { return filepath.Join(p.BaseDir, "manu") }
func (p Paths) TechPath() string         { return filepath.Join(p.BaseDir, "tech") }

// All returns every catalog file path, in load order.
func (p Paths) All() []string {
	return []string{p.EnginePath(), p.TurretPath(), p.ManufacturerPath(), p.TechPath()}
}

// Loader reads a catalog directory and caches the result until Invalidate.
type Loader struct {
	paths Paths
	log   *zap.Logger

	mu    sync.RWMutex
	cache *Catalog
}

// NewLoader creates a catalog loader for baseDir. A nil logger is allowed.
func NewLoader(baseDir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{paths: Paths{BaseDir: baseDir}, log: log}
}

// Paths returns the files this loader reads.
func (l *Loader) Paths() Paths { return l.paths }

// Load returns the cached catalog, reading it from disk on first use.
func (l *Loader) Load() (*Catalog, error) {
	l.mu.RLock()
	if c := l.cache; c != nil {
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	c, err := l.read()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cache = c
	l.mu.Unlock()
	return c, nil
}

// Invalidate clears the cache. Call after the watcher reports a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = nil
}

func (l *Loader) read() (*Catalog, error) {
	var (
		engines []*Engine
		turrets []*Turret
		manfs   []*Manufacturer
		techs   []*Tech
	)
	err := readFile(l.paths.EnginePath(), func(r io.Reader) (err error) {
		engines, err = ReadEngines(r)
		return err
	})
	if err == nil {
		err = readFile(l.paths.TurretPath(), func(r io.Reader) (err error) {
			turrets, err = ReadTurrets(r)
			return err
		})
	}
	if err == nil {
		err = readFile(l.paths.ManufacturerPath(), func(r io.Reader) (err error) {
			manfs, err = ReadManufacturers(r)
			return err
		})
	}
	if err == nil {
		err = readFile(l.paths.TechPath(), func(r io.Reader) (err error) {
			techs, err = ReadTechs(r)
			return err
		})
	}
	if err != nil {
		return nil, err
	}

	c, err := New(engines, turrets, manfs, techs)
	if err != nil {
		return nil, err
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	l.log.Info("loaded catalog",
		zap.String("dir", l.paths.BaseDir),
		zap.Int("engines", len(engines)),
		zap.Int("turrets", len(turrets)),
		zap.Int("manufacturers", len(manfs)),
		zap.Int("techs", len(techs)))
	return c, nil
}

func readFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadEngines parses an engine file.
func ReadEngines(r io.Reader) ([]*Engine, error) {
	var out []*Engine
	_, err := forEachLine(r, func(line string) error {
		e, err := parseEngine(line)
		if err == nil {
			out = append(out, e)
		}
		return err
	})
	return out, err
}

// ReadTurrets parses a turret file.
func ReadTurrets(r io.Reader) ([]*Turret, error) {
	var out []*Turret
	_, err := forEachLine(r, func(line string) error {
		t, err := parseTurret(line)
		if err == nil {
			out = append(out, t)
		}
		return err
	})
	return out, err
}

// ReadManufacturers parses a manufacturer file. The first row must be the
// ** defaults row; it is not returned.
func ReadManufacturers(r io.Reader) ([]*Manufacturer, error) {
	var (
		out      []*Manufacturer
		defaults *Manufacturer
	)
	_, err := forEachLine(r, func(line string) error {
		star := len(line) >= 2 && line[:2] == "**"
		if !star && defaults == nil {
			return ErrNoDefaults
		}
		if star && defaults != nil {
			return errors.New("second ** row")
		}
		m, err := parseManufacturer(line, defaults)
		if err != nil {
			return err
		}
		if star {
			defaults = m
		} else {
			out = append(out, m)
		}
		return nil
	})
	if err == nil && defaults == nil {
		err = ErrNoDefaults
	}
	return out, err
}

// ReadTechs parses a tech file. References are checked by New.
func ReadTechs(r io.Reader) ([]*Tech, error) {
	var out []*Tech
	_, err := forEachLine(r, func(line string) error {
		t, err := parseTech(line)
		if err == nil {
			out = append(out, t)
		}
		return err
	})
	return out, err
}
