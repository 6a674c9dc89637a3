package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/galvani/pkg/discretise"
)

// RunLayoutStoreContract runs a suite of tests to verify that a LayoutStore
// implementation adheres to the defined interface contract.
func RunLayoutStoreContract(t *testing.T, store LayoutStore) {
	ctx := context.Background()
	name := "contract-test-model-" + time.Now().Format("20060102150405")

	newLayout := func(model string) *discretise.Layout {
		return &discretise.Layout{
			Model: model,
			Size:  4,
			Entries: []discretise.Entry{
				{Variable: "c", Domain: []string{"negative electrode"}, Start: 0, Stop: 3, Differential: true, Y0: []float64{1, 1, 1}},
				{Variable: "phi", Start: 3, Stop: 4, Y0: []float64{0.5}},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Save
		layout := newLayout(name)
		require.NoError(t, store.Save(ctx, layout), "Save should not return error")

		// 2. Load
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, layout.Equal(loaded), "loaded layout should place variables identically")
		assert.Equal(t, []float64{1, 1, 1}, loaded.Entries[0].Y0)

		// 3. Stored copies are isolated from the caller
		layout.Entries[0].Start = 99
		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Entries[0].Start)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ErrLayoutNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		layout := newLayout(name)
		layout.Entries[1].Y0 = []float64{2}
		require.NoError(t, store.Save(ctx, layout))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, []float64{2}, loaded.Entries[1].Y0)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newLayout(name)))

		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrLayoutNotFound, "Load after Delete should return ErrLayoutNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, newLayout(id1)))
		require.NoError(t, store.Save(ctx, newLayout(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		models, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, models, id1)
		assert.Contains(t, models, id2)
	})
}

// RunLockerContract verifies mutual exclusion and release of a
// DistributedLocker.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()
	key := "contract-lock-" + time.Now().Format("20060102150405")

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		require.NoError(t, unlock(ctx))
	})

	t.Run("Contention", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)

		// A second holder blocks until its context expires.
		short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(short, key, 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, unlock(ctx))

		unlock2, err := locker.Lock(ctx, key, 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock2(ctx))
	})

	t.Run("Independent Keys", func(t *testing.T) {
		unlockA, err := locker.Lock(ctx, key+"-a", 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlockA(ctx) }()

		short, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlockB, err := locker.Lock(short, key+"-b", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlockB(ctx))
	})
}
