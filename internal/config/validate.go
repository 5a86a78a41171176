package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/ec429/hbuilder/internal/bomber"
)

// Validate checks semantic constraints of a merged layer and reports
// every problem at once.
func Validate(cfg Raw) error {
	var errs []string

	if cfg.LogLevel != "" {
		if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
			errs = append(errs, "log_level must be one of: debug, info, warn, error")
		}
	}

	switch bomber.CurveForm(cfg.Coverage.Form) {
	case "", bomber.CurveQuadratic, bomber.CurveLinear:
	default:
		errs = append(errs, "coverage.form must be one of: quadratic, linear")
	}
	if cfg.Coverage.K != nil && *cfg.Coverage.K <= 0 {
		errs = append(errs, "coverage.k must be > 0")
	}
	if cfg.Diagnostics.Capacity != nil && *cfg.Diagnostics.Capacity < 1 {
		errs = append(errs, "diagnostics.capacity must be >= 1")
	}

	if cfg.Server != nil && cfg.Server.HTTPAddr != "" && cfg.Server.HTTPAddr == cfg.Server.GRPCAddr {
		errs = append(errs, "server.http_addr and server.grpc_addr must differ")
	}

	if r := cfg.Research; r != nil {
		for _, m := range []struct {
			name string
			v    *int
		}{{"start_month", r.StartMonth}, {"end_month", r.EndMonth}} {
			if m.v != nil && (*m.v < 1 || *m.v > 12) {
				errs = append(errs, fmt.Sprintf("research.%s must be in [1,12]", m.name))
			}
		}
		if r.StartYear != nil && r.EndYear != nil && *r.EndYear < *r.StartYear {
			errs = append(errs, "research.end_year must be >= start_year")
		}
		if r.SkipProb != nil && (*r.SkipProb < 0 || *r.SkipProb >= 1) {
			errs = append(errs, "research.skip_prob must be in [0,1)")
		}
		if r.Trials != nil && *r.Trials < 1 {
			errs = append(errs, "research.trials must be >= 1")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
