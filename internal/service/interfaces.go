package service

import (
	"context"
	"io"

	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/pkg/mailer"
)

// Mailer hands a message to background delivery. Failures never reach the caller.
type Mailer interface {
	Send(msg mailer.Message)
}

// ObjectStorage stores an object and returns the URL it is served from
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// FileUpload is a file received from a client
type FileUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AuthService defines methods for authentication operations
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*domain.User, error)
	Signin(ctx context.Context, req *dto.SigninRequest) (*AuthResult, error)
	Verify(ctx context.Context, req *dto.VerifyRequest, login bool) (*AuthResult, error)
	ResendVerificationCode(ctx context.Context, req *dto.ResendVerificationCodeRequest) (*domain.User, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*domain.User, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) (*domain.User, error)
	RefreshUserTokens(ctx context.Context, refreshToken string) (*AuthResult, error)
	GetLoggedInUser(ctx context.Context, userID string) (*Profile, error)
	EditProfile(ctx context.Context, userID string, req *dto.EditProfileRequest) (*domain.User, error)
	UpdateProfilePicture(ctx context.Context, userID string, file *FileUpload) (*domain.User, error)
	RemoveProfilePicture(ctx context.Context, userID string) (*domain.User, error)
	ValidateAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// UserService defines the follow graph, user lookup and search operations
type UserService interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	Followers(ctx context.Context, userID string) ([]*domain.User, error)
	Following(ctx context.Context, userID string) ([]*domain.User, error)
	Follow(ctx context.Context, userID, targetID string) (*Profile, error)
	Unfollow(ctx context.Context, userID, targetID string) (*domain.User, error)
	Posts(ctx context.Context, userID string, page int) (domain.Page[PostDetails], error)
	Search(ctx context.Context, callerID, query string) ([]*domain.User, error)
}

// PostService defines post operations
type PostService interface {
	Create(ctx context.Context, userID string, caption *string, files []FileUpload) (*PostDetails, error)
	Get(ctx context.Context, postID string) (*PostDetails, error)
	Update(ctx context.Context, userID, postID string, caption *string) (*PostDetails, error)
	Delete(ctx context.Context, userID, postID string) (*PostDetails, error)
}

// CommentService defines comment operations
type CommentService interface {
	Create(ctx context.Context, userID string, req *dto.CommentRequest) (*CommentDetails, error)
	Get(ctx context.Context, commentID string) (*CommentDetails, error)
	Update(ctx context.Context, userID, commentID, body string) (*CommentDetails, error)
	Delete(ctx context.Context, userID, commentID string) (*CommentDetails, error)
	ListByPost(ctx context.Context, postID string, page int) (domain.Page[CommentDetails], error)
}

// LikeService defines like operations
type LikeService interface {
	Like(ctx context.Context, userID string, req *dto.LikeRequest) (*LikeDetails, error)
	Unlike(ctx context.Context, userID string, req *dto.UnlikeRequest) (*domain.Like, error)
	List(ctx context.Context, postID, commentID string, page int) (domain.Page[LikeDetails], error)
}
