package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

func newTestAuth(t *testing.T) (*AuthService, *TaskService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	tasks := NewTaskService(store, zap.NewNop(), testClock())
	auth, err := NewAuthService(store, tasks, zap.NewNop(), model.Identity{ID: "1234", Username: "1234"}, "1234", []byte("test-secret"))
	require.NoError(t, err)
	return auth, tasks, store
}

func TestLoginMatchesKnownIdentity(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	identity, err := auth.Login(ctx, "1234", "1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", identity.ID)
	assert.Equal(t, "1234", identity.Username)

	current, ok := auth.Current()
	require.True(t, ok)
	assert.Equal(t, identity, current)
}

func TestLoginRejectsEverythingElse(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	for _, pair := range [][2]string{
		{"1234", "wrong"},
		{"wrong", "1234"},
		{"", ""},
		{"1234", ""},
	} {
		_, err := auth.Login(ctx, pair[0], pair[1])
		assert.ErrorIs(t, err, ErrInvalidCredentials, "pair %v", pair)
	}

	_, ok := auth.Current()
	assert.False(t, ok)

	// Retry after a failure succeeds immediately.
	_, err := auth.Login(ctx, "1234", "1234")
	assert.NoError(t, err)
}

func TestRegisterIsClosed(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	err := auth.Register(context.Background(), "new", "user")
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestLogoutClearsEverything(t *testing.T) {
	auth, tasks, store := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, "1234", "1234")
	require.NoError(t, err)
	for _, raw := range []string{"one", "two", "three"} {
		_, err := tasks.Add(ctx, raw, nil, model.PriorityMedium)
		require.NoError(t, err)
	}

	auth.Logout(ctx)

	_, ok := auth.Current()
	assert.False(t, ok)
	assert.Empty(t, tasks.Tasks())

	_, ok, err = store.Get(ctx, keyUser)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Get(ctx, keyTodos)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestoreReopensSavedSession(t *testing.T) {
	auth, tasks, store := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, "1234", "1234")
	require.NoError(t, err)
	_, err = tasks.Add(ctx, "survives restart #persisted", nil, model.PriorityHigh)
	require.NoError(t, err)

	// Fresh services over the same store stand in for a process restart.
	tasks2 := NewTaskService(store, zap.NewNop(), testClock())
	auth2, err := NewAuthService(store, tasks2, zap.NewNop(), model.Identity{ID: "1234", Username: "1234"}, "1234", []byte("test-secret"))
	require.NoError(t, err)

	identity, ok := auth2.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "1234", identity.Username)

	restored := tasks2.Tasks()
	require.Len(t, restored, 1)
	assert.Equal(t, "survives restart", restored[0].Text)
	assert.Equal(t, []string{"persisted"}, restored[0].Labels)
}

func TestRestoreWithNothingSaved(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	_, ok := auth.Restore(context.Background())
	assert.False(t, ok)
}

func TestRestoreDiscardsInvalidToken(t *testing.T) {
	auth, _, store := newTestAuth(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, keyUser, "not-a-token"))

	_, ok := auth.Restore(ctx)
	assert.False(t, ok)

	_, ok, err := store.Get(ctx, keyUser)
	require.NoError(t, err)
	assert.False(t, ok, "invalid token should be removed")
}

func TestRestoreRejectsForeignSignature(t *testing.T) {
	auth, tasks, store := newTestAuth(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, "1234", "1234")
	require.NoError(t, err)

	// Same store, different signing secret: the saved token must not parse.
	auth2, err := NewAuthService(store, tasks, zap.NewNop(), model.Identity{ID: "1234", Username: "1234"}, "1234", []byte("other-secret"))
	require.NoError(t, err)

	_, ok := auth2.Restore(ctx)
	assert.False(t, ok)
}
