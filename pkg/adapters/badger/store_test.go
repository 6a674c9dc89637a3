package badger_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/adapters/badger"
	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/ports"
)

func TestBadgerStore_Contract(t *testing.T) {
	store, err := badger.Open(badger.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunLayoutStoreContract(t, store)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "layouts")
	ctx := context.Background()
	layout := &discretise.Layout{Model: "spm", Size: 2, Entries: []discretise.Entry{
		{Variable: "c", Start: 0, Stop: 2, Differential: true, Y0: []float64{1, 1}},
	}}

	// 1. Save and close
	store, err := badger.Open(badger.DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, layout))
	require.NoError(t, store.Close())

	// 2. Reopen and load
	store, err = badger.Open(badger.DefaultConfig(dir))
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load(ctx, "spm")
	require.NoError(t, err)
	assert.True(t, layout.Equal(loaded))
	assert.Equal(t, []float64{1, 1}, loaded.Entries[0].Y0)
}

func TestBadgerStore_Prefix(t *testing.T) {
	ctx := context.Background()
	store, err := badger.Open(badger.InMemoryConfig(), badger.WithPrefix("cells:"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, &discretise.Layout{Model: "b"}))
	require.NoError(t, store.Save(ctx, &discretise.Layout{Model: "a"}))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names, "names come back in key order without the prefix")
}

func TestBadgerStore_Errors(t *testing.T) {
	_, err := badger.Open(badger.Config{})
	assert.ErrorContains(t, err, "path is required")

	store, err := badger.Open(badger.InMemoryConfig())
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Load(ctx, "spm")
	assert.ErrorIs(t, err, context.Canceled)
}
