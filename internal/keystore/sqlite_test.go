package keystore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/fintrack/pkg/domain"
)

const (
	selectSQL = "SELECT key, value FROM session_entries WHERE scope = ?"
	deleteSQL = "DELETE FROM session_entries WHERE scope = ?"
	insertTwo = "INSERT INTO session_entries (scope,key,value) VALUES (?,?,?),(?,?,?)"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLStore(db, "default"), mock
}

func TestSQLStore_Load(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("token", "abc").
		AddRow("user", `{"id":1,"username":"alice"}`)
	mock.ExpectQuery(selectSQL).WithArgs("default").WillReturnRows(rows)

	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.Token)
	require.NotNil(t, rec.User)
	assert.Equal(t, "alice", rec.User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_LoadEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(selectSQL).WithArgs("default").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, rec.Empty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_LoadBadUser(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(selectSQL).WithArgs("default").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).AddRow("user", "{"))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Contains(t, err.Error(), "decode user")
}

func TestSQLStore_SaveWritesBothInOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(deleteSQL).WithArgs("default").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(insertTwo).
		WithArgs("default", "token", "abc", "default", "user", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := store.Save(context.Background(), Record{
		Token: "abc",
		User:  &domain.User{ID: 1, Username: "alice"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SaveRollsBackOnInsertFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(deleteSQL).WithArgs("default").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertTwo).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := store.Save(context.Background(), Record{
		Token: "abc",
		User:  &domain.User{ID: 1, Username: "alice"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SaveEmptyOnlyDeletes(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(deleteSQL).WithArgs("default").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background(), Record{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_Clear(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(deleteSQL).WithArgs("default").WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, store.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "fintrack.db")

	store, err := OpenSQLite(ctx, path, "work")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	want := Record{Token: "abc", User: &domain.User{ID: 3, Username: "carol"}}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other := NewSQLStore(store.db, "home")
	rec, err := other.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Empty(), "scopes must not share entries")

	require.NoError(t, store.Clear(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())

	// Reopening runs the migrations again without error.
	again, err := OpenSQLite(ctx, path, "work")
	require.NoError(t, err)
	require.NoError(t, again.Close())
}
