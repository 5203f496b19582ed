package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/prperemyshlev/social-service/internal/domain"
	"github.com/prperemyshlev/social-service/internal/dto"
	"github.com/prperemyshlev/social-service/internal/repository"
	"github.com/prperemyshlev/social-service/internal/utils"
	"github.com/prperemyshlev/social-service/pkg/mailer"
	"github.com/prperemyshlev/social-service/pkg/observability"
	"go.uber.org/zap"
)

const passwordRule = "Password must contain at least one lower case letter, one uppercase letter, " +
	"at least 1 digit, at least one special character and minimum 8 characters"

var profilePictureTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// authService implements AuthService interface
type authService struct {
	userRepo     repository.UserRepository
	codeRepo     repository.VerificationCodeRepository
	followRepo   repository.FollowRepository
	tokenManager *utils.TokenManager
	blacklist    *TokenBlacklistService
	mailer       Mailer
	storage      ObjectStorage
	metrics      *observability.AuthMetrics
	logger       *zap.Logger
	bcryptCost   int
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repository.Repositories,
	tokenManager *utils.TokenManager,
	blacklist *TokenBlacklistService,
	mailer Mailer,
	storage ObjectStorage,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:     repos.User,
		codeRepo:     repos.VerificationCode,
		followRepo:   repos.Follow,
		tokenManager: tokenManager,
		blacklist:    blacklist,
		mailer:       mailer,
		storage:      storage,
		metrics:      metrics,
		logger:       logger,
		bcryptCost:   bcryptCost,
	}
}

// observe records a failed operation and logs internal causes
func (s *authService) observe(ctx context.Context, op string, err *error) {
	if *err == nil {
		return
	}
	kind := KindOf(*err)
	s.metrics.Failure(ctx, op, kind.String())
	if kind == KindInternal {
		s.logger.Error("auth operation failed", zap.String("operation", op), zap.Error(*err))
	}
}

// Signup registers a new unverified user and mails a verification code
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (_ *domain.User, err error) {
	defer s.observe(ctx, "signup", &err)

	email := utils.SanitizeEmail(req.Email)
	username := utils.SanitizeUsername(req.Username)

	if !utils.ValidatePassword(req.Password) {
		return nil, newError(KindValidation, "ValidationError", passwordRule)
	}
	if !utils.ValidatePhoneNumber(req.PhoneNumber) {
		return nil, newError(KindValidation, "ValidationError", "Phone number must be 8 digits")
	}
	if !utils.ValidateUsername(username) {
		return nil, newError(KindValidation, "ValidationError", "Username must be at most 15 characters")
	}

	// email > phone > username
	if err := s.checkAvailable(ctx, email, req.CountryCode, req.PhoneNumber, username); err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashSecret(req.Password, s.bcryptCost)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	code, codeHash, err := GenerateVerificationCode(s.bcryptCost)
	if err != nil {
		return nil, internalError("generate verification code", err)
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  req.PhoneNumber,
		CountryCode:  req.CountryCode,
		Verified:     false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if conflict := userConflictError(err); conflict != nil {
			return nil, conflict
		}
		return nil, internalError("create user", err)
	}

	if err := s.codeRepo.Create(ctx, &domain.VerificationCode{UserID: user.ID, CodeHash: codeHash}); err != nil {
		return nil, internalError("create verification code", err)
	}

	s.mailer.Send(verificationMail(user.Email, code))
	s.metrics.Signup(ctx)

	return user, nil
}

func (s *authService) checkAvailable(ctx context.Context, email, countryCode, phoneNumber, username string) error {
	taken, err := userExists(s.userRepo.GetByEmail(ctx, email))
	if err != nil {
		return internalError("check email", err)
	}
	if taken {
		return newError(KindConflict, "Already Exists", "A user with this email already exists")
	}

	taken, err = userExists(s.userRepo.GetByPhone(ctx, countryCode, phoneNumber))
	if err != nil {
		return internalError("check phone number", err)
	}
	if taken {
		return newError(KindConflict, "Already Exists", "A user with this phone number already exists")
	}

	taken, err = userExists(s.userRepo.GetByUsername(ctx, username))
	if err != nil {
		return internalError("check username", err)
	}
	if taken {
		return newError(KindConflict, "Already Exists", "A user with this username already exists")
	}

	return nil
}

// userConflictError maps a unique violation that slipped past the checks
func userConflictError(err error) *Error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return newError(KindConflict, "Already Exists", "A user with this email already exists")
	case errors.Is(err, repository.ErrDuplicatePhone):
		return newError(KindConflict, "Already Exists", "A user with this phone number already exists")
	case errors.Is(err, repository.ErrDuplicateUsername):
		return newError(KindConflict, "Already Exists", "A user with this username already exists")
	}
	return nil
}

// Signin authenticates by email or username. Both failure causes share one message.
func (s *authService) Signin(ctx context.Context, req *dto.SigninRequest) (_ *AuthResult, err error) {
	defer s.observe(ctx, "signin", &err)

	login := strings.ToLower(strings.TrimSpace(req.EmailOrUsername))

	user, err := s.userRepo.GetByEmailOrUsername(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errBadLogin
		}
		return nil, internalError("get user", err)
	}

	if !utils.CheckSecretHash(req.Password, user.PasswordHash) {
		return nil, errBadLogin
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.metrics.Signin(ctx)
	return result, nil
}

// Verify consumes the user's verification code and marks the user verified.
// Tokens are issued only when login is set.
func (s *authService) Verify(ctx context.Context, req *dto.VerifyRequest, login bool) (_ *AuthResult, err error) {
	defer s.observe(ctx, "verify", &err)

	user, code, err := s.userWithCode(ctx, req.Email, errUserNotFound)
	if err != nil {
		return nil, err
	}

	if code.AlreadyUsed {
		return nil, errCodeUsed
	}
	if user.Verified && login {
		return nil, newError(KindAlreadyVerified, "Already Verified", "User already verified")
	}
	if !CheckVerificationCode(req.VerificationCode, code.CodeHash) {
		return nil, errWrongCode
	}

	if err := s.consumeCode(ctx, user.ID); err != nil {
		return nil, err
	}

	user.Verified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("update user", err)
	}

	s.metrics.Verification(ctx)

	if !login {
		return &AuthResult{User: user}, nil
	}
	return s.issueTokens(user)
}

// ResendVerificationCode replaces the user's code with a fresh one and mails it
func (s *authService) ResendVerificationCode(ctx context.Context, req *dto.ResendVerificationCodeRequest) (_ *domain.User, err error) {
	defer s.observe(ctx, "resend_verification_code", &err)

	user, _, err := s.userWithCode(ctx, req.Email, errUserNotFound)
	if err != nil {
		return nil, err
	}

	code, codeHash, err := GenerateVerificationCode(s.bcryptCost)
	if err != nil {
		return nil, internalError("generate verification code", err)
	}

	if err := s.codeRepo.Replace(ctx, user.ID, codeHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errCodeNotFound
		}
		return nil, internalError("replace verification code", err)
	}

	s.mailer.Send(verificationMail(user.Email, code))

	return user, nil
}

// ResetPassword sets a new password after checking the mailed code
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (_ *domain.User, err error) {
	defer s.observe(ctx, "reset_password", &err)

	if !utils.ValidatePassword(req.NewPassword) {
		return nil, newError(KindValidation, "ValidationError", passwordRule)
	}

	user, code, err := s.userWithCode(ctx, req.Email,
		newError(KindUnauthorized, "Unauthorized", "Invalid credentials"))
	if err != nil {
		return nil, err
	}

	if !CheckVerificationCode(req.VerificationCode, code.CodeHash) {
		return nil, errWrongCode
	}

	passwordHash, err := utils.HashSecret(req.NewPassword, s.bcryptCost)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	if err := s.consumeCode(ctx, user.ID); err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("update user", err)
	}

	return user, nil
}

// userWithCode loads a user by email and the user's verification code
func (s *authService) userWithCode(ctx context.Context, email string, userMissing *Error) (*domain.User, *domain.VerificationCode, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, userMissing
		}
		return nil, nil, internalError("get user", err)
	}

	code, err := s.codeRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, errCodeNotFound
		}
		return nil, nil, internalError("get verification code", err)
	}

	return user, code, nil
}

// consumeCode marks the code used. Of two concurrent consumers only one succeeds.
func (s *authService) consumeCode(ctx context.Context, userID string) error {
	err := s.codeRepo.Consume(ctx, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrAlreadyUsed):
		return errCodeUsed
	default:
		return internalError("consume verification code", err)
	}
}

// ChangePassword replaces the password of an authenticated user
func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) (_ *domain.User, err error) {
	defer s.observe(ctx, "change_password", &err)

	if !utils.ValidatePassword(req.NewPassword) {
		return nil, newError(KindValidation, "ValidationError", passwordRule)
	}

	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	if !utils.CheckSecretHash(req.OldPassword, user.PasswordHash) {
		return nil, newError(KindWrongEntry, "Wrong Entry", "Incorrect old password")
	}

	passwordHash, err := utils.HashSecret(req.NewPassword, s.bcryptCost)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	user.PasswordHash = passwordHash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("update user", err)
	}

	return user, nil
}

// RefreshUserTokens exchanges a refresh token for a new pair. The presented
// token is blacklisted before the new pair is minted; the new refresh token
// stays valid until it is spent in turn.
func (s *authService) RefreshUserTokens(ctx context.Context, refreshToken string) (_ *AuthResult, err error) {
	defer s.observe(ctx, "refresh", &err)

	spent, err := s.blacklist.Contains(ctx, refreshToken)
	if err != nil {
		return nil, internalError("check blacklist", err)
	}
	if spent {
		return nil, errInvalidToken
	}

	claims, err := s.tokenManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenFailure(err)
	}

	user, err := findUser(ctx, s.userRepo, claims.UserID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	if err := s.blacklist.Add(ctx, refreshToken, user.ID, claims.ExpiresAt); err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			return nil, errInvalidToken
		}
		return nil, internalError("blacklist refresh token", err)
	}

	result, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.metrics.Refresh(ctx)
	return result, nil
}

// ValidateAccessToken verifies a bearer token and requires the access grant type
func (s *authService) ValidateAccessToken(_ context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.tokenManager.ParseAccessToken(token)
	if err != nil {
		return nil, tokenFailure(err)
	}
	return claims, nil
}

// tokenFailure forwards the verifier's failure name and message
func tokenFailure(err error) *Error {
	if errors.Is(err, utils.ErrWrongGrantType) {
		return errInvalidToken
	}

	var tokenErr *utils.TokenError
	if errors.As(err, &tokenErr) {
		return &Error{Kind: KindTokenInvalid, Name: tokenErr.Name, Message: tokenErr.Error(), Err: err}
	}

	return &Error{Kind: KindTokenInvalid, Name: "TokenInvalid", Message: err.Error(), Err: err}
}

// GetLoggedInUser returns the caller with followers and following
func (s *authService) GetLoggedInUser(ctx context.Context, userID string) (_ *Profile, err error) {
	defer s.observe(ctx, "me", &err)

	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	return loadProfile(ctx, s.followRepo, user)
}

// EditProfile replaces the caller's username, full name and phone number
func (s *authService) EditProfile(ctx context.Context, userID string, req *dto.EditProfileRequest) (_ *domain.User, err error) {
	defer s.observe(ctx, "edit_profile", &err)

	username := utils.SanitizeUsername(req.Username)
	if !utils.ValidateUsername(username) {
		return nil, newError(KindValidation, "ValidationError", "Username must be at most 15 characters")
	}
	if !utils.ValidatePhoneNumber(req.PhoneNumber) {
		return nil, newError(KindValidation, "ValidationError", "Phone number must be 8 digits")
	}

	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	other, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil && other.ID != user.ID:
		return nil, newError(KindConflict, "Already Exists", "A user with this username already exists")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, internalError("check username", err)
	}

	user.Username = username
	user.FullName = strings.TrimSpace(req.FullName)
	user.PhoneNumber = req.PhoneNumber
	user.CountryCode = req.CountryCode

	if err := s.userRepo.Update(ctx, user); err != nil {
		if conflict := userConflictError(err); conflict != nil {
			return nil, conflict
		}
		return nil, internalError("update user", err)
	}

	return user, nil
}

// UpdateProfilePicture uploads a jpeg or png image and stores its URL on the user
func (s *authService) UpdateProfilePicture(ctx context.Context, userID string, file *FileUpload) (_ *domain.User, err error) {
	defer s.observe(ctx, "profile_picture", &err)

	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	if file == nil {
		return nil, newError(KindConflict, "Invalid", "Invalid profile picture")
	}
	ext, ok := profilePictureTypes[file.ContentType]
	if !ok {
		return nil, newError(KindConflict, "Invalid", "Profile picture must be a jpeg or png image")
	}

	key := path.Join("profile-pictures", user.ID, uuid.New().String()+ext)
	url, err := s.storage.Upload(ctx, key, file.Body, file.ContentType)
	if err != nil {
		return nil, &Error{Kind: KindUploadFailed, Name: "Upload Failed", Message: "Could not upload file to S3", Err: err}
	}

	user.ProfilePicture = &url
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("update user", err)
	}

	return user, nil
}

// RemoveProfilePicture clears the caller's profile picture
func (s *authService) RemoveProfilePicture(ctx context.Context, userID string) (_ *domain.User, err error) {
	defer s.observe(ctx, "remove_profile_picture", &err)

	user, err := findUser(ctx, s.userRepo, userID, errUserNotFound)
	if err != nil {
		return nil, err
	}

	user.ProfilePicture = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("update user", err)
	}

	return user, nil
}

func verificationMail(to string, code int) mailer.Message {
	return mailer.Message{
		To:      to,
		Subject: "Account activation code",
		Text: fmt.Sprintf("Welcome! Your verification code is: %d. "+
			"If you did not signup for our services, please ignore this email.", code),
		HTML: fmt.Sprintf("<div><h1>Welcome!</h1><div>Your verification code is: %d</div>"+
			"<div>If you did not signup for our services, please ignore this email.</div></div>", code),
	}
}
