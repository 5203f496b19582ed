package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCommentID = "3c2b1a0f-9e8d-4c7b-a6f5-e4d3c2b1a0f9"

var commentRowColumns = []string{"id", "post_id", "user_id", "body", "edited", "created_at", "updated_at"}

func TestCommentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectExec(`INSERT INTO comments`).
		WithArgs(sqlmock.AnyArg(), testPostID, testUserID, "nice", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	comment := &domain.Comment{PostID: testPostID, UserID: testUserID, Body: "nice"}
	require.NoError(t, repo.Create(context.Background(), comment))
	assert.NotEmpty(t, comment.ID)
}

func TestCommentRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectExec(`UPDATE comments`).
		WithArgs(testCommentID, "edited body", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	comment := &domain.Comment{ID: testCommentID, Body: "edited body", Edited: true}
	require.NoError(t, repo.Update(context.Background(), comment))
}

func TestCommentRepository_DeleteMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectExec(`DELETE FROM comments`).
		WithArgs(testCommentID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), testCommentID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCommentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments WHERE post_id = \$1`).
		WithArgs(testPostID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`FROM comments`).
		WithArgs(testPostID, 0, 10).
		WillReturnRows(sqlmock.NewRows(commentRowColumns).
			AddRow(testCommentID, testPostID, testUserID, "first", false, now, now).
			AddRow("c-2", testPostID, otherUserID, "second", true, now, now))

	comments, total, err := repo.ListByPost(context.Background(), testPostID, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, comments, 2)
	assert.True(t, comments[1].Edited)
}
