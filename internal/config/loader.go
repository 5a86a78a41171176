package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/research"
)

func ptr[T any](v T) *T { return &v }

// Defaults is the built-in bottom layer.
func Defaults() Raw {
	tl := research.DefaultTimeline()
	return Raw{
		DataDir:     ".",
		LogLevel:    "info",
		Coverage:    CoverageRaw{Form: string(bomber.CurveQuadratic), K: ptr(3.0)},
		Diagnostics: DiagnosticsRaw{Capacity: ptr(bomber.DefaultCapacity)},
		Server:      &ServerRaw{HTTPAddr: ":8080", GRPCAddr: ":9090", Watch: ptr(false)},
		Hangar:      &HangarRaw{},
		Research: &ResearchRaw{
			StartYear:  ptr(tl.StartYear),
			StartMonth: ptr(tl.StartMonth),
			EndYear:    ptr(tl.EndYear),
			EndMonth:   ptr(tl.EndMonth),
			SkipProb:   ptr(tl.SkipProb),
			Trials:     ptr(1000),
			Seed:       ptr(uint64(0)),
		},
	}
}

// Load merges defaults <- file <- overrides, validates the result and
// resolves it. An empty path or a missing file contributes nothing.
func Load(path string, overrides Raw) (Config, error) {
	file, err := ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	merged := Merge(Merge(Defaults(), file), overrides)
	if err := Validate(merged); err != nil {
		return Config{}, err
	}
	return Resolve(merged)
}

// ReadFile loads one YAML layer. Missing files return a zero layer.
func ReadFile(path string) (Raw, error) {
	var raw Raw
	if path == "" {
		return raw, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Raw{}, nil
		}
		return Raw{}, err
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Raw{}, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// Merge returns a with every non-zero field of b laid over it.
func Merge(a, b Raw) Raw {
	out := a

	if b.DataDir != "" {
		out.DataDir = b.DataDir
	}
	if b.LogLevel != "" {
		out.LogLevel = b.LogLevel
	}
	if b.Coverage.Form != "" {
		out.Coverage.Form = b.Coverage.Form
	}
	if b.Coverage.K != nil {
		out.Coverage.K = b.Coverage.K
	}
	if b.Diagnostics.Capacity != nil {
		out.Diagnostics.Capacity = b.Diagnostics.Capacity
	}

	switch {
	case out.Server == nil && b.Server != nil:
		c := *b.Server
		out.Server = &c
	case out.Server != nil && b.Server != nil:
		c := *out.Server
		if b.Server.HTTPAddr != "" {
			c.HTTPAddr = b.Server.HTTPAddr
		}
		if b.Server.GRPCAddr != "" {
			c.GRPCAddr = b.Server.GRPCAddr
		}
		if b.Server.Watch != nil {
			c.Watch = b.Server.Watch
		}
		out.Server = &c
	}

	switch {
	case out.Hangar == nil && b.Hangar != nil:
		c := *b.Hangar
		out.Hangar = &c
	case out.Hangar != nil && b.Hangar != nil && b.Hangar.Path != "":
		out.Hangar = &HangarRaw{Path: b.Hangar.Path}
	}

	switch {
	case out.Research == nil && b.Research != nil:
		c := *b.Research
		out.Research = &c
	case out.Research != nil && b.Research != nil:
		c := *out.Research
		if b.Research.StartYear != nil {
			c.StartYear = b.Research.StartYear
		}
		if b.Research.StartMonth != nil {
			c.StartMonth = b.Research.StartMonth
		}
		if b.Research.EndYear != nil {
			c.EndYear = b.Research.EndYear
		}
		if b.Research.EndMonth != nil {
			c.EndMonth = b.Research.EndMonth
		}
		if b.Research.SkipProb != nil {
			c.SkipProb = b.Research.SkipProb
		}
		if b.Research.Trials != nil {
			c.Trials = b.Research.Trials
		}
		if b.Research.Seed != nil {
			c.Seed = b.Research.Seed
		}
		out.Research = &c
	}

	return out
}

// Resolve turns a validated, fully merged layer into a Config. Fields the
// layer leaves unset take their built-in defaults.
func Resolve(raw Raw) (Config, error) {
	raw = Merge(Defaults(), raw)
	level, err := zapcore.ParseLevel(raw.LogLevel)
	if err != nil {
		return Config{}, err
	}
	tl := research.DefaultTimeline()
	r := raw.Research
	tl.StartYear, tl.StartMonth = *r.StartYear, *r.StartMonth
	tl.EndYear, tl.EndMonth = *r.EndYear, *r.EndMonth
	tl.SkipProb = *r.SkipProb
	return Config{
		DataDir:      raw.DataDir,
		LogLevel:     level,
		Curve:        bomber.Curve{Form: bomber.CurveForm(raw.Coverage.Form), K: *raw.Coverage.K},
		DiagCapacity: *raw.Diagnostics.Capacity,
		HTTPAddr:     raw.Server.HTTPAddr,
		GRPCAddr:     raw.Server.GRPCAddr,
		Watch:        *raw.Server.Watch,
		HangarPath:   raw.Hangar.Path,
		Timeline:     tl,
		Trials:       *r.Trials,
		Seed:         *r.Seed,
	}, nil
}
