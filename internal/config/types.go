// types.go
package config

import (
	"go.uber.org/zap/zapcore"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/research"
)

// Raw is one configuration layer as read from YAML. Nil and empty fields
// leave the layer below unchanged.
type Raw struct {
	DataDir     string         `yaml:"data_dir"`
	LogLevel    string         `yaml:"log_level"`
	Coverage    CoverageRaw    `yaml:"coverage"`
	Diagnostics DiagnosticsRaw `yaml:"diagnostics"`
	Server      *ServerRaw     `yaml:"server,omitempty"`
	Hangar      *HangarRaw     `yaml:"hangar,omitempty"`
	Research    *ResearchRaw   `yaml:"research,omitempty"`
}

type CoverageRaw struct {
	Form string   `yaml:"form"` // "quadratic" | "linear"
	K    *float64 `yaml:"k,omitempty"`
}

type DiagnosticsRaw struct {
	Capacity *int `yaml:"capacity,omitempty"`
}

type ServerRaw struct {
	HTTPAddr string `yaml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr"`
	Watch    *bool  `yaml:"watch,omitempty"`
}

type HangarRaw struct {
	Path string `yaml:"path"` // empty: in-memory
}

type ResearchRaw struct {
	StartYear  *int     `yaml:"start_year,omitempty"`
	StartMonth *int     `yaml:"start_month,omitempty"`
	EndYear    *int     `yaml:"end_year,omitempty"`
	EndMonth   *int     `yaml:"end_month,omitempty"`
	SkipProb   *float64 `yaml:"skip_prob,omitempty"`
	Trials     *int     `yaml:"trials,omitempty"`
	Seed       *uint64  `yaml:"seed,omitempty"`
}

// Config is the resolved configuration used by the CLI and server.
type Config struct {
	DataDir      string
	LogLevel     zapcore.Level
	Curve        bomber.Curve
	DiagCapacity int
	HTTPAddr     string
	GRPCAddr     string
	Watch        bool
	HangarPath   string
	Timeline     research.TimelineParams
	Trials       int
	Seed         uint64 // 0: unseeded
}

// CalculatorOptions configures a bomber.Calculator from c.
func (c Config) CalculatorOptions() []bomber.Option {
	return []bomber.Option{bomber.WithCurve(c.Curve), bomber.WithDiagCapacity(c.DiagCapacity)}
}
