package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpload(name string, createdAt time.Time) Upload {
	return Upload{
		ID:        uuid.New(),
		FileName:  name,
		Content:   "a,b\n1,2\n",
		Size:      8,
		CreatedAt: createdAt,
	}
}

func TestMemoryStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := newUpload("data.csv", time.Now())
	require.NoError(t, s.Save(ctx, u))

	got, err := s.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	_, err = s.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"old.csv", "mid.csv", "new.csv"} {
		require.NoError(t, s.Save(ctx, newUpload(name, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new.csv", all[0].FileName)
	assert.Equal(t, "old.csv", all[2].FileName)

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestMemoryStore_PurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()

	old := newUpload("old.csv", now.Add(-48*time.Hour))
	fresh := newUpload("fresh.csv", now)
	require.NoError(t, s.Save(ctx, old))
	require.NoError(t, s.Save(ctx, fresh))

	n, err := s.PurgeOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	assert.ErrorIs(t, s.Save(ctx, newUpload("x.csv", time.Now())), context.Canceled)
	_, err := s.List(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := newUpload("c.csv", time.Now())
			assert.NoError(t, s.Save(ctx, u))
			_, err := s.Get(ctx, u.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

// fakeDB records statements and answers QueryRow with canned values.
type fakeDB struct {
	execSQL  []string
	execArgs [][]interface{}
	execTag  string
	execErr  error

	row    []interface{}
	rowErr error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return pgconn.NewCommandTag(f.execTag), f.execErr
}

func (f *fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("query not supported by fake")
}

func (f *fakeDB) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return fakeRow{values: f.row, err: f.rowErr}
}

type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func TestPostgresStore_Save(t *testing.T) {
	db := &fakeDB{execTag: "INSERT 0 1"}
	s := NewPostgresStore(db)

	u := newUpload("data.csv", time.Now())
	u.RemoteAddr = "10.0.0.1"
	require.NoError(t, s.Save(context.Background(), u))

	require.Len(t, db.execArgs, 1)
	args := db.execArgs[0]
	assert.Equal(t, pgtype.UUID{Bytes: u.ID, Valid: true}, args[0])
	assert.Equal(t, "data.csv", args[1])
	assert.Equal(t, pgtype.Text{String: "10.0.0.1", Valid: true}, args[4])
	assert.Equal(t, pgtype.Text{}, args[5])
}

func TestPostgresStore_SaveError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("duplicate key value")}
	err := NewPostgresStore(db).Save(context.Background(), newUpload("x.csv", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert upload")
}

func TestPostgresStore_Get(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{row: []interface{}{
		pgtype.UUID{Bytes: id, Valid: true},
		"data.csv",
		"a\n1\n",
		int64(4),
		pgtype.Text{String: "10.0.0.1", Valid: true},
		pgtype.Text{},
		pgtype.Timestamptz{Time: created, Valid: true},
	}}

	got, err := NewPostgresStore(db).Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "data.csv", got.FileName)
	assert.Equal(t, int64(4), got.Size)
	assert.Equal(t, "10.0.0.1", got.RemoteAddr)
	assert.Equal(t, "", got.UserAgent)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	db := &fakeDB{rowErr: pgx.ErrNoRows}
	_, err := NewPostgresStore(db).Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_PurgeOlderThan(t *testing.T) {
	db := &fakeDB{execTag: "DELETE 3"}
	n, err := NewPostgresStore(db).PurgeOlderThan(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Contains(t, db.execSQL[0], "DELETE FROM csv_uploads")
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewPostgresStore(db).EnsureSchema(context.Background()))
	assert.Contains(t, db.execSQL[0], "CREATE TABLE IF NOT EXISTS csv_uploads")
}
