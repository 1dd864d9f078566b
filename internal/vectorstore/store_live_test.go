package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsobczak/cookidoo-agent/internal/testhelpers"
)

func TestStore_Live(t *testing.T) {
	ctx := context.Background()
	dsn := testhelpers.SetupVectorDatabase(t)

	store, err := NewStore(ctx, dsn, "recipes_collection", 3)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	assert.Equal(t, "recipes_collection", store.Collection())

	require.NoError(t, store.CreateCollection(ctx))
	require.NoError(t, store.InsertBatch(ctx,
		[]string{"r1", "r2", "r3"},
		[]string{"one", "two", "three"},
		[]string{"text one", "text two", "text three"},
		[][]float32{{2, 0, 0}, {0, 0, 0}, {1, 0, 0}},
	))

	t.Run("should order results by non-decreasing distance", func(t *testing.T) {
		texts, err := store.Search(ctx, []float32{0, 0, 0}, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"text two", "text three", "text one"}, texts)
	})

	t.Run("should return at most top_k rows", func(t *testing.T) {
		texts, err := store.Search(ctx, []float32{0, 0, 0}, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"text two", "text three"}, texts)
	})

	t.Run("should drop previous rows on rebuild", func(t *testing.T) {
		require.NoError(t, store.CreateCollection(ctx))

		texts, err := store.Search(ctx, []float32{0, 0, 0}, 10)
		require.NoError(t, err)
		assert.Empty(t, texts, "rebuild starts from an empty collection")

		require.NoError(t, store.InsertBatch(ctx,
			[]string{"r9"},
			[]string{"nine"},
			[]string{"text nine"},
			[][]float32{{0, 1, 0}},
		))
		texts, err = store.Search(ctx, []float32{0, 1, 0}, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"text nine"}, texts, "only rows from after the rebuild survive")
	})

	t.Run("should build the index idempotently", func(t *testing.T) {
		require.NoError(t, store.BuildIndex(ctx))
		require.NoError(t, store.BuildIndex(ctx), "an existing index is left untouched")
	})
}
