package hangar_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ec429/hbuilder/internal/bomber"
	"github.com/ec429/hbuilder/internal/catalog/catalogtest"
	"github.com/ec429/hbuilder/internal/hangar"
	"github.com/ec429/hbuilder/internal/record"
	"github.com/ec429/hbuilder/internal/tech"
)

func stores(t *testing.T) map[string]hangar.Store {
	t.Helper()
	mem, err := hangar.OpenSQLite(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })
	file, err := hangar.OpenSQLite(filepath.Join(t.TempDir(), "sub", "hangar.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return map[string]hangar.Store{
		"memory":        hangar.NewMemoryStore(),
		"sqlite-memory": mem,
		"sqlite-file":   file,
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(1940, 5, 10, 12, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "Manchester")
			require.ErrorIs(t, err, hangar.ErrNotFound)

			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Manchester", Record: "a", Updated: stamp}))
			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Lancaster", Parent: "Manchester", Record: "b"}))
			got, err := s.Get(ctx, "Manchester")
			require.NoError(t, err)
			assert.Equal(t, "a", got.Record)
			assert.True(t, stamp.Equal(got.Updated))

			lanc, err := s.Get(ctx, "Lancaster")
			require.NoError(t, err)
			assert.False(t, lanc.Updated.IsZero(), "stamped on put")

			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Manchester", Record: "a2", Updated: stamp}))
			got, err = s.Get(ctx, "Manchester")
			require.NoError(t, err)
			assert.Equal(t, "a2", got.Record)

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "Lancaster", list[0].Name)
			assert.Equal(t, "Manchester", list[1].Name)

			assert.ErrorIs(t, s.Delete(ctx, "Manchester"), hangar.ErrHasChildren)
			require.NoError(t, s.Delete(ctx, "Lancaster"))
			require.NoError(t, s.Delete(ctx, "Manchester"))
			assert.ErrorIs(t, s.Delete(ctx, "Manchester"), hangar.ErrNotFound)

			assert.ErrorIs(t, s.Put(ctx, hangar.Entry{Name: "bad/name"}), hangar.ErrBadName)
			assert.ErrorIs(t, s.Put(ctx, hangar.Entry{Name: "Self", Parent: "Self"}), hangar.ErrCycle)
		})
	}
}

func TestLineage(t *testing.T) {
	ctx := context.Background()
	cat := catalogtest.New(t)
	av, _ := cat.Manufacturer("AV")
	merl, _ := cat.Engine("MERL")
	fresh := bomber.Init(av, merl)
	mark, err := bomber.NewRefit(fresh, tech.Mark)
	require.NoError(t, err)
	mark.Tanks.HLB = 24
	mod, err := bomber.NewRefit(mark, tech.Mod)
	require.NoError(t, err)

	text := func(b *bomber.Bomber) string {
		var buf bytes.Buffer
		require.NoError(t, record.Save(&buf, b))
		return buf.String()
	}

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Mk.I", Record: text(fresh)}))
			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Mk.II", Parent: "Mk.I", Record: text(mark)}))
			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Mk.IIa", Parent: "Mk.II", Record: text(mod)}))

			chain, err := hangar.Lineage(ctx, s, cat, "Mk.IIa")
			require.NoError(t, err)
			require.Len(t, chain, 3)
			assert.Nil(t, chain[0].Parent)
			assert.Same(t, chain[0], chain[1].Parent)
			assert.Same(t, chain[1], chain[2].Parent)
			assert.Equal(t, tech.Mod, chain[2].Refit)
			assert.Equal(t, 24, chain[2].Tanks.HLB)
			assert.Same(t, chain[1], chain[2].LineageRoot())

			_, err = hangar.Lineage(ctx, s, cat, "Mk.III")
			assert.ErrorIs(t, err, hangar.ErrNotFound)

			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Loop1", Parent: "Loop2", Record: text(mark)}))
			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Loop2", Parent: "Loop1", Record: text(mark)}))
			_, err = hangar.Lineage(ctx, s, cat, "Loop1")
			assert.ErrorIs(t, err, hangar.ErrCycle)

			require.NoError(t, s.Put(ctx, hangar.Entry{Name: "Broken", Record: "MAN=ZZ\nEOD\n"}))
			_, err = hangar.Lineage(ctx, s, cat, "Broken")
			assert.ErrorIs(t, err, record.ErrUnknownIdent)
		})
	}
}
