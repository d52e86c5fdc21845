package keyvalue_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/kv/file"
	"github.com/slok/staffboard/internal/kv/memory"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
	"github.com/slok/staffboard/internal/storage/keyvalue"
	"github.com/slok/staffboard/internal/storage/storagetest"
)

func TestRepositoryMemoryStore(t *testing.T) {
	storagetest.RunRepositoryTests(t, func(t *testing.T) storage.Repository {
		repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: memory.NewStore()})
		require.NoError(t, err)
		return repo
	})
}

func TestRepositoryFileStore(t *testing.T) {
	storagetest.RunRepositoryTests(t, func(t *testing.T) storage.Repository {
		store, err := file.NewStore(file.StoreConfig{Dir: t.TempDir()})
		require.NoError(t, err)
		repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
		require.NoError(t, err)
		return repo
	})
}

func TestNewRepositoryRequiresStore(t *testing.T) {
	_, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{})
	assert.Error(t, err)
}

func TestRepositoryReadsBrowserLayout(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	store := memory.NewStore()
	require.NoError(store.Set(ctx, conventions.TasksKey, []byte(`[
		{
			"id": "1738231200000",
			"codename": "falcon",
			"staffingTime": "02:00",
			"columnId": "waiting",
			"notes": "",
			"createdAt": 1738231200000,
			"doingTime": 125,
			"waitingTime": 0,
			"fixingTime": 0,
			"activeTimerType": "waiting",
			"timerStartedAt": 1738231500000,
			"isActive": true
		}
	]`)))
	require.NoError(store.Set(ctx, conventions.ActiveTaskKey, []byte(`"1738231200000"`)))

	repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
	require.NoError(err)

	task, err := repo.GetTask(ctx, "1738231200000")
	require.NoError(err)
	assert.Equal(model.ColumnWaiting, task.Column)
	assert.Equal(model.PhaseWaiting, task.ActiveTimer)
	assert.Equal(int64(125), task.Times.Doing)
	assert.Equal(time.UnixMilli(1738231500000).UTC(), *task.TimerStartedAt)
	assert.NoError(task.Validate())

	id, err := repo.GetActiveTaskID(ctx)
	require.NoError(err)
	assert.Equal("1738231200000", id)
}

func TestRepositoryWritesBrowserLayout(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	store := memory.NewStore()
	repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
	require.NoError(err)

	require.NoError(repo.CreateTask(ctx, storagetest.TaskFixture("t1", 0)))
	require.NoError(repo.SetActiveTaskID(ctx, ""))

	data, ok, err := store.Get(ctx, conventions.TasksKey)
	require.NoError(err)
	require.True(ok)
	var raw []map[string]any
	require.NoError(json.Unmarshal(data, &raw))
	require.Len(raw, 1)
	assert.Equal("incoming", raw[0]["columnId"])
	assert.Equal("01:30", raw[0]["staffingTime"])
	assert.Nil(raw[0]["activeTimerType"])
	assert.Nil(raw[0]["timerStartedAt"])
	assert.Equal(false, raw[0]["isActive"])

	data, _, err = store.Get(ctx, conventions.ActiveTaskKey)
	require.NoError(err)
	assert.Equal("null", string(data))
}

// flakyStore fails every Set while failing is true.
type flakyStore struct {
	*memory.Store
	mu      sync.Mutex
	failing bool
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = v
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("quota exceeded")
	}
	return f.Store.Set(ctx, key, value)
}

func TestRepositoryKeepsWritesInMemoryWhenStoreFails(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	store := &flakyStore{Store: memory.NewStore()}
	repo, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
	require.NoError(err)

	store.setFailing(true)

	// The operation proceeds and reads see the new state.
	require.NoError(repo.CreateTask(ctx, storagetest.TaskFixture("t1", 0)))
	_, err = repo.GetTask(ctx, "t1")
	require.NoError(err)
	assert.Equal([]string{conventions.TasksKey}, repo.PendingKeys())

	_, ok, err := store.Get(ctx, conventions.TasksKey)
	require.NoError(err)
	assert.False(ok)

	// Next natural write persists everything.
	store.setFailing(false)
	require.NoError(repo.CreateTask(ctx, storagetest.TaskFixture("t2", time.Minute)))
	assert.Empty(repo.PendingKeys())

	fresh, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
	require.NoError(err)
	tasks, err := fresh.ListTasks(ctx)
	require.NoError(err)
	assert.Len(tasks, 2)
}

func TestRepositorySharedStoreSeesOtherWriters(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := memory.NewStore()
	repo1, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
	require.NoError(err)
	repo2, err := keyvalue.NewRepository(keyvalue.RepositoryConfig{Store: store})
	require.NoError(err)

	require.NoError(repo1.CreateTask(ctx, storagetest.TaskFixture("t1", 0)))
	task, err := repo2.GetTask(ctx, "t1")
	require.NoError(err)

	// A stale writer loses against the first one.
	stale := task.Copy()
	task.Notes = "first"
	require.NoError(repo2.UpdateTask(ctx, *task))
	stale.Notes = "second"
	err = repo1.UpdateTask(ctx, stale)
	assert.True(t, errors.Is(err, model.ErrConflict))
}
