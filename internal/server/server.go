// Package server exposes the calculator over HTTP, websocket and gRPC.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog"
	"github.com/ec429/hbuilder/internal/hangar"
	"github.com/ec429/hbuilder/internal/record"
	"github.com/ec429/hbuilder/internal/research"
)

// Server holds the live catalog, the current research state and the
// design store. Its methods are safe for concurrent use.
type Server struct {
	log     *zap.Logger
	calc    *bomber.Calculator
	store   hangar.Store
	reg     *prometheus.Registry
	metrics *Metrics

	mu    sync.RWMutex
	cat   *catalog.Catalog
	state research.State
}

// Options configures New. Zero fields get defaults.
type Options struct {
	Calculator *bomber.Calculator
	Store      hangar.Store
	Logger     *zap.Logger
	// Unlocked seeds the research state. Nil unlocks every tech dated
	// before 1940.
	Unlocked map[string]bool
}

// New returns a Server for cat with its own metrics registry.
func New(cat *catalog.Catalog, o Options) *Server {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Calculator == nil {
		o.Calculator = bomber.NewCalculator()
	}
	if o.Store == nil {
		o.Store = hangar.NewMemoryStore()
	}
	if o.Unlocked == nil {
		o.Unlocked = make(map[string]bool)
		for _, t := range cat.Techs {
			if t.Year < 1940 {
				o.Unlocked[t.Ident] = true
			}
		}
	}
	reg := prometheus.NewRegistry()
	return &Server{
		log:     o.Logger,
		calc:    o.Calculator,
		store:   o.Store,
		reg:     reg,
		metrics: NewMetrics(reg),
		cat:     cat,
		state:   research.Apply(cat, o.Unlocked),
	}
}

// SetCatalog swaps in a reloaded catalog and recomputes the research
// state against it. Techs that no longer exist are dropped.
func (s *Server) SetCatalog(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat = c
	s.state = s.state.Refresh(c)
	s.metrics.Reloads.Inc()
	s.log.Info("catalog swapped", zap.Uint64("state_version", s.state.Version))
}

func (s *Server) snapshot() (*catalog.Catalog, research.State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cat, s.state
}

// State returns the current research state.
func (s *Server) State() research.State {
	_, st := s.snapshot()
	return st
}

// Toggle flips one tech and returns the new state.
func (s *Server) Toggle(ident string) (research.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state.Toggle(s.cat, ident)
	if err != nil {
		return s.state, err
	}
	s.state = st
	s.log.Debug("toggled tech", zap.String("tech", ident), zap.Bool("on", st.Techs[ident]))
	return st, nil
}

// Evaluate loads a design record, links it to the named stored parent
// (if any) and computes it against the current research state.
func (s *Server) Evaluate(ctx context.Context, text, parent string) (*bomber.Bomber, error) {
	start := time.Now()
	b, err := s.evaluate(ctx, text, parent)
	s.metrics.Duration.Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		s.metrics.Calculations.WithLabelValues("failed").Inc()
	case b.HasError:
		s.metrics.Calculations.WithLabelValues("invalid").Inc()
	default:
		s.metrics.Calculations.WithLabelValues("ok").Inc()
	}
	return b, err
}

func (s *Server) evaluate(ctx context.Context, text, parent string) (*bomber.Bomber, error) {
	cat, st := s.snapshot()
	b, err := record.Load(strings.NewReader(text), cat)
	if err != nil {
		return nil, err
	}
	if parent != "" {
		chain, err := hangar.Lineage(ctx, s.store, cat, parent)
		if err != nil {
			return nil, err
		}
		for _, p := range chain {
			if err := s.calc.Replay(p, st.Numbers, st); err != nil {
				return nil, fmt.Errorf("parent design: %w", err)
			}
		}
		b.Parent = chain[len(chain)-1]
	}
	if err := s.calc.Calculate(b, st.Numbers, st); err != nil {
		return nil, err
	}
	return b, nil
}

// PutDesign stores a record under name after checking it loads.
func (s *Server) PutDesign(ctx context.Context, name, parent, text string) error {
	cat, _ := s.snapshot()
	if _, err := record.Load(strings.NewReader(text), cat); err != nil {
		return err
	}
	if parent != "" {
		if _, err := s.store.Get(ctx, parent); err != nil {
			return err
		}
	}
	return s.store.Put(ctx, hangar.Entry{Name: name, Parent: parent, Record: text})
}

// Registry returns the server's metrics registry.
func (s *Server) Registry() *prometheus.Registry { return s.reg }

func isBadInput(err error) bool {
	for _, target := range []error{
		record.ErrMalformed, record.ErrUnknownIdent, record.ErrMissing, record.ErrNoEOD,
		hangar.ErrBadName, research.ErrUnknownTech,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isUnprocessable(err error) bool {
	for _, target := range []error{
		bomber.ErrBadEnum, bomber.ErrNoParent, bomber.ErrAspectRatio,
		hangar.ErrCycle, hangar.ErrHasChildren, research.ErrMissingReqs,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
