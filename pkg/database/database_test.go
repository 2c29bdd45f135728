package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/pkg/utils"
)

// exerciseKV runs the behavior every KV implementation shares.
func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	_, ok := kv.Get(TasksKey)
	assert.False(t, ok)

	kv.Set(TasksKey, `[]`)
	v, ok := kv.Get(TasksKey)
	require.True(t, ok)
	assert.Equal(t, `[]`, v)

	kv.Set(TasksKey, `[{"id":"task-1"}]`)
	v, _ = kv.Get(TasksKey)
	assert.Equal(t, `[{"id":"task-1"}]`, v)

	kv.Set(ThemeKey, `"dark"`)
	v, _ = kv.Get(ThemeKey)
	assert.Equal(t, `"dark"`, v)
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestSQLStore_SQLiteMemory(t *testing.T) {
	kv, closer, err := Open(":memory:", "")
	require.NoError(t, err)
	defer closer.Close()

	require.IsType(t, &SQLStore{}, kv)
	exerciseKV(t, kv)
}

func TestSQLStore_SQLiteFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kanban.db")

	kv, closer, err := Open(path, "")
	require.NoError(t, err)
	kv.Set(LabelsKey, `{"home":"tag-1"}`)
	require.NoError(t, closer.Close())

	kv, closer, err = Open(path, "")
	require.NoError(t, err)
	defer closer.Close()
	v, ok := kv.Get(LabelsKey)
	require.True(t, ok)
	assert.Equal(t, `{"home":"tag-1"}`, v)
}

func TestSQLStore_FailuresAreAbsorbed(t *testing.T) {
	db, driver, err := ConnectDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var logs bytes.Buffer
	utils.SetOutput(&logs, logrus.WarnLevel)
	defer utils.CloseLogger()

	// no schema, so every statement fails
	s := NewSQLStore(db, driver)
	s.Set(TasksKey, "[]")
	_, ok := s.Get(TasksKey)
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "write failed")
	assert.Contains(t, logs.String(), "read failed")
}

func TestSQLStore_BindPostgres(t *testing.T) {
	s := NewSQLStore(nil, DriverPostgres)
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", s.bind("SELECT a FROM t WHERE x = ? AND y = ?"))

	s = NewSQLStore(nil, DriverSQLite)
	assert.Equal(t, "x = ?", s.bind("x = ?"))
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, DriverPostgres, DriverFor("postgres://user@localhost/kanban"))
	assert.Equal(t, DriverPostgres, DriverFor("postgresql://localhost/kanban"))
	assert.Equal(t, DriverSQLite, DriverFor("~/.local/share/kanban/kanban.db"))
	assert.Equal(t, DriverSQLite, DriverFor(":memory:"))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	kv := NewRedisStore(client, RedisPrefix)
	exerciseKV(t, kv)

	raw, err := mr.Get(RedisPrefix + TasksKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"task-1"}]`, raw)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	kv, closer, err := Open("", mr.Addr())
	require.NoError(t, err)
	defer closer.Close()

	kv.Set(ViewKey, `"todo"`)
	mr.Close()

	_, ok := kv.Get(ViewKey)
	assert.False(t, ok)
	kv.Set(ViewKey, `"done"`)
}
