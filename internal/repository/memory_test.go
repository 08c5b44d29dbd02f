package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "todos")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Set(ctx, "todos", "[]"))

	value, ok, err := store.Get(ctx, "todos")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)

	assert.NoError(t, store.Set(ctx, "todos", "[1]"))
	value, _, _ = store.Get(ctx, "todos")
	assert.Equal(t, "[1]", value)

	assert.NoError(t, store.Delete(ctx, "todos"))
	_, ok, err = store.Get(ctx, "todos")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key stays silent.
	assert.NoError(t, store.Delete(ctx, "todos"))
}
