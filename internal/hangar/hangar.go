// Package hangar stores named design records and rebuilds refit lineages
// from them.
package hangar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/record"
)

var (
	ErrNotFound    = errors.New("design not found")
	ErrBadName     = errors.New("invalid design name")
	ErrCycle       = errors.New("design lineage has a cycle")
	ErrHasChildren = errors.New("design is the parent of another design")
)

// Entry is one stored design. Parent names another entry; empty for a
// fresh design.
type Entry struct {
	Name    string    `json:"name"`
	Parent  string    `json:"parent,omitempty"`
	Record  string    `json:"record"`
	Updated time.Time `json:"updated"`
}

// Store persists entries by name.
type Store interface {
	Put(ctx context.Context, e Entry) error
	Get(ctx context.Context, name string) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, name string) error
}

func checkEntry(e Entry) error {
	if err := CheckName(e.Name); err != nil {
		return err
	}
	if e.Parent == e.Name {
		return fmt.Errorf("%s: %w", e.Name, ErrCycle)
	}
	return nil
}

// CheckName rejects names that cannot appear in a URL path segment.
func CheckName(name string) error {
	if name == "" || len(name) > 64 || strings.ContainsAny(name, "/?#% \t\n") {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return nil
}

// Lineage loads name and its ancestors and returns the designs root first,
// each linked to its parent. Derived fields are not computed.
func Lineage(ctx context.Context, s Store, cat *catalog.Catalog, name string) ([]*bomber.Bomber, error) {
	var entries []Entry
	seen := map[string]bool{}
	for n := name; n != ""; {
		if seen[n] {
			return nil, fmt.Errorf("%s: %w", n, ErrCycle)
		}
		seen[n] = true
		e, err := s.Get(ctx, n)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
		n = e.Parent
	}

	chain := make([]*bomber.Bomber, 0, len(entries))
	var parent *bomber.Bomber
	for i := len(entries) - 1; i >= 0; i-- {
		b, err := record.Load(strings.NewReader(entries[i].Record), cat)
		if err != nil {
			return nil, fmt.Errorf("design %s: %w", entries[i].Name, err)
		}
		b.Parent = parent
		chain = append(chain, b)
		parent = b
	}
	return chain, nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)
