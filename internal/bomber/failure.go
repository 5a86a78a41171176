package bomber

import (
	"errors"
	"fmt"
)

// FailureKind classifies a structural pipeline abort.
type FailureKind int

const (
	FailBadEnum FailureKind = iota + 1
	FailNoParent
	FailAspectRatio
)

var (
	ErrBadEnum     = errors.New("value out of range")
	ErrNoParent    = errors.New("refit has no parent design")
	ErrAspectRatio = errors.New("wing aspect ratio below 1.0")
)

func (k FailureKind) sentinel() error {
	switch k {
	case FailBadEnum:
		return ErrBadEnum
	case FailNoParent:
		return ErrNoParent
	case FailAspectRatio:
		return ErrAspectRatio
	}
	return nil
}

// Failure is returned when a design is structurally impossible to compute.
// It matches the kind's sentinel under errors.Is.
type Failure struct {
	Kind   FailureKind
	Detail string
}

func (f *Failure) Error() string {
	if s := f.Kind.sentinel(); s != nil {
		return fmt.Sprintf("%v: %s", s, f.Detail)
	}
	return f.Detail
}

func (f *Failure) Is(target error) bool {
	return target == f.Kind.sentinel()
}

func fail(kind FailureKind, format string, args ...any) error {
	return &Failure{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
