package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var likeRowColumns = []string{"id", "user_id", "post_id", "comment_id", "created_at"}

func TestLikeRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db)

	postID := testPostID
	mock.ExpectExec(`INSERT INTO likes`).
		WithArgs(anyArgs(5)...).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "likes_user_post_key"})

	err := repo.Create(context.Background(), &domain.Like{UserID: testUserID, PostID: &postID})
	assert.ErrorIs(t, err, ErrDuplicateLike)
}

func TestLikeRepository_GetByUserAndTarget(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectQuery(`WHERE user_id = \$1 AND comment_id = \$2`).
		WithArgs(testUserID, testCommentID).
		WillReturnRows(sqlmock.NewRows(likeRowColumns).AddRow("like-1", testUserID, nil, testCommentID, time.Now()))

	like, err := repo.GetByUserAndTarget(context.Background(), testUserID, LikeTarget{CommentID: testCommentID})
	require.NoError(t, err)

	assert.Nil(t, like.PostID)
	require.NotNil(t, like.CommentID)
	assert.Equal(t, testCommentID, *like.CommentID)
}

func TestLikeRepository_GetByUserAndTargetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectQuery(`WHERE user_id = \$1 AND post_id = \$2`).
		WithArgs(testUserID, testPostID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserAndTarget(context.Background(), testUserID, LikeTarget{PostID: testPostID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLikeRepository_ListByTarget(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM likes WHERE post_id = \$1`).
		WithArgs(testPostID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM likes`).
		WithArgs(testPostID, 0, 10).
		WillReturnRows(sqlmock.NewRows(likeRowColumns).AddRow("like-1", testUserID, testPostID, nil, time.Now()))

	likes, total, err := repo.ListByTarget(context.Background(), LikeTarget{PostID: testPostID}, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, likes, 1)
	require.NotNil(t, likes[0].PostID)
	assert.Equal(t, testPostID, *likes[0].PostID)
}
