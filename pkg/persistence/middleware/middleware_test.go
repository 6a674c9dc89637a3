package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/galvani/pkg/adapters/memory"
	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/persistence/middleware"
	"github.com/aretw0/galvani/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLayout(model string) *discretise.Layout {
	return &discretise.Layout{Model: model, Size: 2, Entries: []discretise.Entry{
		{Variable: "c", Start: 0, Stop: 1, Differential: true, Y0: []float64{1}},
		{Variable: "phi", Start: 1, Stop: 2},
	}}
}

func TestValidationMiddleware(t *testing.T) {
	ctx := context.Background()
	underlying := NewMockStore()
	store := middleware.NewValidationMiddleware()(underlying)

	t.Run("accepts valid layout", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, validLayout("ok")))
		got, err := store.Load(ctx, "ok")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Size)
	})

	t.Run("rejects invalid layout before saving", func(t *testing.T) {
		bad := validLayout("bad")
		bad.Size = 3
		err := store.Save(ctx, bad)
		assert.ErrorIs(t, err, discretise.ErrInvalidLayout)
		assert.Equal(t, 1, underlying.saves, "invalid layout must not reach the store")

		assert.ErrorIs(t, store.Save(ctx, nil), discretise.ErrInvalidLayout)
	})

	t.Run("rejects corrupted layout on load", func(t *testing.T) {
		bad := validLayout("planted")
		bad.Entries[1].Start = 0
		underlying.data["planted"] = bad

		_, err := store.Load(ctx, "planted")
		assert.ErrorIs(t, err, discretise.ErrInvalidLayout)
		assert.ErrorContains(t, err, `load "planted"`)
	})

	t.Run("passes through not found", func(t *testing.T) {
		_, err := store.Load(ctx, "missing")
		assert.ErrorIs(t, err, ports.ErrLayoutNotFound)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.NewLoggingMiddleware(logger)(NewMockStore())

	require.NoError(t, store.Save(ctx, validLayout("cell")))
	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrLayoutNotFound)

	out := buf.String()
	assert.Contains(t, out, "op=save model=cell")
	assert.Contains(t, out, "size=2")
	assert.Contains(t, out, "op=load model=missing")
	assert.Contains(t, out, "found=false")
	assert.NotContains(t, out, "level=WARN", "a missing layout is not a failure")
}

func TestChain_Contract(t *testing.T) {
	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(nil),
		middleware.NewValidationMiddleware(),
	)
	ports.RunLayoutStoreContract(t, store)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	trace := func(name string) middleware.Middleware {
		return func(next ports.LayoutStore) ports.LayoutStore {
			return tracingStore{LayoutStore: next, name: name, calls: &calls}
		}
	}
	store := middleware.Chain(NewMockStore(), trace("outer"), trace("inner"))

	_, _ = store.List(context.Background())
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type tracingStore struct {
	ports.LayoutStore
	name  string
	calls *[]string
}

func (s tracingStore) List(ctx context.Context) ([]string, error) {
	*s.calls = append(*s.calls, s.name)
	return s.LayoutStore.List(ctx)
}
