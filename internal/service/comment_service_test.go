package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewCommentService(store.repositories())
	alice := store.addUser("alice", "Alice Doe")
	bob := store.addUser("bob", "Bob Roe")

	post := newTestPost(alice.ID)
	require.NoError(t, store.repositories().Post.Create(ctx, post))

	created, err := svc.Create(ctx, bob.ID, &dto.CommentRequest{PostID: post.ID, Comment: " nice "})
	require.NoError(t, err)
	assert.Equal(t, "nice", created.Comment.Body)
	assert.False(t, created.Comment.Edited)
	assert.Equal(t, bob.ID, created.Author.ID)

	_, err = svc.Update(ctx, alice.ID, created.Comment.ID, "hijack")
	assert.Equal(t, KindForbidden, KindOf(err))

	updated, err := svc.Update(ctx, bob.ID, created.Comment.ID, "very nice")
	require.NoError(t, err)
	assert.Equal(t, "very nice", updated.Comment.Body)
	assert.True(t, updated.Comment.Edited)

	fetched, err := svc.Get(ctx, created.Comment.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Comment.Edited)

	_, err = svc.Delete(ctx, alice.ID, created.Comment.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = svc.Delete(ctx, bob.ID, created.Comment.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.Comment.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCommentValidation(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewCommentService(store.repositories())
	alice := store.addUser("alice", "Alice Doe")

	_, err := svc.Create(ctx, alice.ID, &dto.CommentRequest{PostID: uuid.New().String(), Comment: "hi"})
	assert.Equal(t, KindNotFound, KindOf(err))

	post := newTestPost(alice.ID)
	require.NoError(t, store.repositories().Post.Create(ctx, post))

	_, err = svc.Create(ctx, alice.ID, &dto.CommentRequest{PostID: post.ID, Comment: "   "})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestListCommentsByPost(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewCommentService(store.repositories())
	alice := store.addUser("alice", "Alice Doe")
	bob := store.addUser("bob", "Bob Roe")

	post := newTestPost(alice.ID)
	require.NoError(t, store.repositories().Post.Create(ctx, post))

	for i := 0; i < 11; i++ {
		author := alice
		if i%2 == 0 {
			author = bob
		}
		_, err := svc.Create(ctx, author.ID, &dto.CommentRequest{PostID: post.ID, Comment: "hello"})
		require.NoError(t, err)
	}

	page, err := svc.ListByPost(ctx, post.ID, 1)
	require.NoError(t, err)
	assert.Len(t, page.Docs, 10)
	assert.Equal(t, 11, page.TotalDocs)
	assert.True(t, page.HasNextPage)
	for _, doc := range page.Docs {
		assert.Equal(t, doc.Comment.UserID, doc.Author.ID)
	}

	page, err = svc.ListByPost(ctx, post.ID, 2)
	require.NoError(t, err)
	assert.Len(t, page.Docs, 1)
	assert.False(t, page.HasNextPage)
}
