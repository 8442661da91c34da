package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s KeyStore) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, APIKeyName)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	require.NoError(t, s.Set(ctx, APIKeyName, "key-one"))
	require.NoError(t, s.Set(ctx, APIKeyName, "key-two"))
	got, err = s.Get(ctx, APIKeyName)
	require.NoError(t, err)
	assert.Equal(t, "key-two", got)
	assert.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	exerciseStore(t, NewFileStore(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "patmaApiKey: key-two\n", string(data))

	// A fresh store sees the persisted value.
	got, err := NewFileStore(path).Get(context.Background(), APIKeyName)
	require.NoError(t, err)
	assert.Equal(t, "key-two", got)
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	s := NewFileStore(path)
	_, err := s.Get(context.Background(), APIKeyName)
	assert.Error(t, err)
	assert.Error(t, s.Ping(context.Background()))
}

// fakeDB is an in-memory DBTX understanding the three settings statements.
type fakeDB struct {
	values map[string]string
	execs  []string
	err    error
}

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.value
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	if sql == upsertSetting {
		f.values[args[0].(string)] = args[1].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	v, ok := f.values[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

func (f *fakeDB) Ping(context.Context) error { return f.err }

func TestPostgresStore(t *testing.T) {
	db := &fakeDB{values: map[string]string{}}
	s := NewPostgresStore(db)
	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.Equal(t, createSettingsTable, db.execs[0])

	exerciseStore(t, s)
}

func TestPostgresStoreErrors(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewPostgresStore(&fakeDB{values: map[string]string{}, err: boom})

	_, err := s.Get(context.Background(), APIKeyName)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Set(context.Background(), APIKeyName, "x"), boom)
	assert.ErrorIs(t, s.EnsureSchema(context.Background()), boom)
	assert.ErrorIs(t, s.Ping(context.Background()), boom)
}
