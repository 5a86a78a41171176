package bomber

import "fmt"

// Severity of a diagnostic.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a design-rule finding. It is formatted only when shown.
type Diagnostic struct {
	Severity Severity
	Format   string
	Args     []any
}

func (d Diagnostic) String() string {
	return fmt.Sprintf(d.Format, d.Args...)
}

// DefaultCapacity is the diagnostic buffer size.
const DefaultCapacity = 16

// diagBuffer is a bounded diagnostic list. Once full, warnings are
// dropped; the first error overwrites the last slot so that an error is
// always visible when one occurred.
type diagBuffer struct {
	b   *Bomber
	cap int
}

func (d *diagBuffer) reset() {
	d.b.Diagnostics = nil
	d.b.HasError = false
}

func (d *diagBuffer) errorf(format string, args ...any) {
	diag := Diagnostic{Severity: Error, Format: format, Args: args}
	switch {
	case len(d.b.Diagnostics) < d.cap:
		d.b.Diagnostics = append(d.b.Diagnostics, diag)
	case !d.b.HasError && d.cap > 0:
		d.b.Diagnostics[len(d.b.Diagnostics)-1] = diag
	}
	d.b.HasError = true
}

func (d *diagBuffer) warnf(format string, args ...any) {
	if len(d.b.Diagnostics) < d.cap {
		d.b.Diagnostics = append(d.b.Diagnostics, Diagnostic{Severity: Warning, Format: format, Args: args})
	}
}
