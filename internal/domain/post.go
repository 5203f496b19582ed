package domain

import (
	"math"
	"time"
)

// Post is a user's media post
type Post struct {
	ID        string    `json:"postId" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Caption   *string   `json:"caption" db:"caption"`
	Media     []string  `json:"post" db:"media"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Comment on a post
type Comment struct {
	ID        string    `json:"commentId" db:"id"`
	PostID    string    `json:"postId" db:"post_id"`
	UserID    string    `json:"userId" db:"user_id"`
	Body      string    `json:"comment" db:"body"`
	Edited    bool      `json:"edited" db:"edited"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Like targets exactly one of a post or a comment
type Like struct {
	ID        string    `json:"likeId" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	PostID    *string   `json:"postId" db:"post_id"`
	CommentID *string   `json:"commentId" db:"comment_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PageSize is the number of documents per page in paginated listings
const PageSize = 10

// MaxPage is the highest page whose offset still fits in an int
const MaxPage = math.MaxInt/PageSize + 1

// Page is one page of a paginated listing
type Page[T any] struct {
	Docs        []T  `json:"docs"`
	TotalDocs   int  `json:"totalDocs"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
}

// NewPage assembles a page from its documents and the total count
func NewPage[T any](docs []T, total, page int) Page[T] {
	if docs == nil {
		docs = []T{}
	}
	pages := (total + PageSize - 1) / PageSize
	return Page[T]{
		Docs:        docs,
		TotalDocs:   total,
		Page:        page,
		TotalPages:  pages,
		HasNextPage: page < pages,
	}
}

// PageOffset converts a 1-based page number into a row offset
func PageOffset(page int) int {
	page = max(1, min(page, MaxPage))
	return (page - 1) * PageSize
}
