package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestToggle_RoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepo(db)

	// First toggle: no row for the pair yet, one is inserted.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM likes WHERE event_id = ? AND user_id = ? LIMIT 1").
		WithArgs(3, 9).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO likes (event_id, user_id) VALUES (?,?)").
		WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	liked, err := repo.Toggle(context.Background(), 3, 9)
	assert.NoError(t, err)
	assert.True(t, liked)

	// Second toggle: the row exists and is deleted, back to the
	// original state. At no point does a second row appear.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM likes WHERE event_id = ? AND user_id = ? LIMIT 1").
		WithArgs(3, 9).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("DELETE FROM likes WHERE id = ?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	liked, err = repo.Toggle(context.Background(), 3, 9)
	assert.NoError(t, err)
	assert.False(t, liked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggle_DuplicateKeyMeansAlreadyLiked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepo(db)

	// A racing request inserted between our SELECT and INSERT; the
	// unique key rejects the duplicate and the state is liked.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM likes WHERE event_id = ? AND user_id = ? LIMIT 1").
		WithArgs(3, 9).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO likes (event_id, user_id) VALUES (?,?)").
		WithArgs(3, 9).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-9' for key 'uq_likes_event_user'"))
	mock.ExpectCommit()

	liked, err := repo.Toggle(context.Background(), 3, 9)
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
