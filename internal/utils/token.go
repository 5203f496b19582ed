package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prperemyshlev/social-service/internal/domain"
)

// ErrWrongGrantType is returned when a valid token is presented where the
// other grant type is expected.
var ErrWrongGrantType = errors.New("invalid token grant type")

// Failure classes reported in TokenError.Name
const (
	TokenMalformed     = "TokenMalformed"
	TokenDecryptFailed = "DecryptionFailed"
	TokenExpired       = "TokenExpired"
	TokenNotYetValid   = "TokenNotYetValid"
	TokenInvalidClaims = "TokenInvalidClaims"
)

// TokenError is returned for every token that fails to decrypt or validate.
// Name classifies the failure, the message is the underlying error's.
type TokenError struct {
	Name string
	Err  error
}

func (e *TokenError) Error() string {
	return e.Err.Error()
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// tokenClaims is the JSON payload carried inside the encrypted token
type tokenClaims struct {
	domain.TokenSubject
	GrantType domain.GrantType `json:"grant_type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies encrypted JWTs (compact JWE, alg=dir,
// enc=A128CBC-HS256) with a single process-wide symmetric key.
type TokenManager struct {
	key                []byte
	issuer             string
	audience           string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	encrypter          jose.Encrypter
	now                func() time.Time
}

// TokenManagerConfig configures a TokenManager
type TokenManagerConfig struct {
	Key                []byte
	Issuer             string
	Audience           string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// NewTokenManager creates a new token manager. The key must be 32 bytes.
func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	if len(cfg.Key) != 32 {
		return nil, fmt.Errorf("token key must be 32 bytes, got %d", len(cfg.Key))
	}

	key := make([]byte, len(cfg.Key))
	copy(key, cfg.Key)

	encrypter, err := jose.NewEncrypter(
		jose.A128CBC_HS256,
		jose.Recipient{Algorithm: jose.DIRECT, Key: key},
		(&jose.EncrypterOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token encrypter: %w", err)
	}

	return &TokenManager{
		key:                key,
		issuer:             cfg.Issuer,
		audience:           cfg.Audience,
		accessTokenExpiry:  cfg.AccessTokenExpiry,
		refreshTokenExpiry: cfg.RefreshTokenExpiry,
		encrypter:          encrypter,
		now:                time.Now,
	}, nil
}

// GenerateAccessToken generates a new access token
func (m *TokenManager) GenerateAccessToken(subject domain.TokenSubject) (string, error) {
	token, _, err := m.issue(subject, domain.GrantTypeAccess, m.accessTokenExpiry)
	return token, err
}

// GenerateRefreshToken generates a new refresh token
func (m *TokenManager) GenerateRefreshToken(subject domain.TokenSubject) (string, error) {
	token, _, err := m.issue(subject, domain.GrantTypeRefresh, m.refreshTokenExpiry)
	return token, err
}

// GeneratePair issues an access and a refresh token for the subject. ExpiresAt
// is taken from the access token's exp claim.
func (m *TokenManager) GeneratePair(subject domain.TokenSubject) (*domain.TokenPair, error) {
	accessToken, accessClaims, err := m.issue(subject, domain.GrantTypeAccess, m.accessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := m.issue(subject, domain.GrantTypeRefresh, m.refreshTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessClaims.ExpiresAt.UTC().Format(domain.ExpiryLayout),
	}, nil
}

func (m *TokenManager) issue(subject domain.TokenSubject, grant domain.GrantType, ttl time.Duration) (string, *tokenClaims, error) {
	now := m.now()

	claims := &tokenClaims{
		TokenSubject: subject,
		GrantType:    grant,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode token claims: %w", err)
	}

	object, err := m.encrypter.Encrypt(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encrypt token: %w", err)
	}

	token, err := object.CompactSerialize()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize token: %w", err)
	}

	return token, claims, nil
}

// ParseToken decrypts and validates a token of either grant type.
// Every failure is a *TokenError.
func (m *TokenManager) ParseToken(raw string) (*domain.TokenClaims, error) {
	object, err := jose.ParseEncrypted(raw,
		[]jose.KeyAlgorithm{jose.DIRECT},
		[]jose.ContentEncryption{jose.A128CBC_HS256},
	)
	if err != nil {
		return nil, &TokenError{Name: TokenMalformed, Err: err}
	}

	payload, err := object.Decrypt(m.key)
	if err != nil {
		return nil, &TokenError{Name: TokenDecryptFailed, Err: err}
	}

	var claims tokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, &TokenError{Name: TokenMalformed, Err: fmt.Errorf("invalid token payload: %w", err)}
	}

	validator := jwt.NewValidator(
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err := validator.Validate(&claims); err != nil {
		return nil, &TokenError{Name: classifyValidationError(err), Err: err}
	}

	return &domain.TokenClaims{
		TokenSubject: claims.TokenSubject,
		GrantType:    claims.GrantType,
		ID:           claims.ID,
		IssuedAt:     claims.IssuedAt.Time,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// ParseAccessToken validates a token and requires the access grant type
func (m *TokenManager) ParseAccessToken(raw string) (*domain.TokenClaims, error) {
	return m.parseGrant(raw, domain.GrantTypeAccess)
}

// ParseRefreshToken validates a token and requires the refresh grant type
func (m *TokenManager) ParseRefreshToken(raw string) (*domain.TokenClaims, error) {
	return m.parseGrant(raw, domain.GrantTypeRefresh)
}

func (m *TokenManager) parseGrant(raw string, grant domain.GrantType) (*domain.TokenClaims, error) {
	claims, err := m.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	if claims.GrantType != grant {
		return nil, ErrWrongGrantType
	}
	return claims, nil
}

// AccessTokenExpiry returns the access token lifetime
func (m *TokenManager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

// RefreshTokenExpiry returns the refresh token lifetime
func (m *TokenManager) RefreshTokenExpiry() time.Duration {
	return m.refreshTokenExpiry
}

func classifyValidationError(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return TokenExpired
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenNotValidYet):
		return TokenNotYetValid
	default:
		return TokenInvalidClaims
	}
}
