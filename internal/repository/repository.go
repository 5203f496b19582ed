package repository

import (
	"github.com/prperemyshlev/social-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User             UserRepository
	VerificationCode VerificationCodeRepository
	Blacklist        BlacklistRepository
	Follow           FollowRepository
	Post             PostRepository
	Comment          CommentRepository
	Like             LikeRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:             NewUserRepository(db),
		VerificationCode: NewVerificationCodeRepository(db),
		Blacklist:        NewBlacklistRepository(db),
		Follow:           NewFollowRepository(db),
		Post:             NewPostRepository(db),
		Comment:          NewCommentRepository(db),
		Like:             NewLikeRepository(db),
	}
}
