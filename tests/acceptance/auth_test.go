package acceptance

import (
	"net/http"

	"github.com/prperemyshlev/social-service/internal/dto"
)

const testPassword = "Passw0rd!"

func signupRequest(email, username, phone string) dto.SignupRequest {
	return dto.SignupRequest{
		Email:       email,
		Username:    username,
		Password:    testPassword,
		FullName:    "Test User",
		PhoneNumber: phone,
		CountryCode: "+1",
	}
}

// registerVerified signs a user up, verifies them with the mailed code and
// returns their token pair.
func (s *Suite) registerVerified(email, username, phone string) dto.AuthResponse {
	resp := s.request(http.MethodPost, "/api/auth/signup", "", signupRequest(email, username, phone))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	code := s.infra.mail.lastCode(email)
	s.Require().NotZero(code, "verification code should be mailed")

	resp = s.request(http.MethodPut, "/api/auth/verify?login=true", "", dto.VerifyRequest{
		Email:            email,
		VerificationCode: code,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var auth dto.AuthResponse
	s.decode(resp, &auth)
	return auth
}

func (s *Suite) TestSignup_Success() {
	resp := s.request(http.MethodPost, "/api/auth/signup", "", signupRequest("new@example.com", "newbie", "12345678"))

	s.Equal(http.StatusCreated, resp.StatusCode)

	var body dto.UserResponse
	s.decode(resp, &body)
	s.Equal("new@example.com", body.User.Email)
	s.Equal("newbie", body.User.Username)
	s.NotEmpty(body.User.ID)
	s.NotZero(s.infra.mail.lastCode("new@example.com"))
}

func (s *Suite) TestSignup_DuplicateEmail() {
	resp := s.request(http.MethodPost, "/api/auth/signup", "", signupRequest("dup@example.com", "first", "11111111"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp = s.request(http.MethodPost, "/api/auth/signup", "", signupRequest("dup@example.com", "second", "22222222"))

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *Suite) TestSignup_InvalidPayload() {
	req := signupRequest("not-an-email", "bad", "123")

	resp := s.request(http.MethodPost, "/api/auth/signup", "", req)

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *Suite) TestSignin_WrongPassword() {
	s.registerVerified("signin@example.com", "signin", "33333333")

	resp := s.request(http.MethodPost, "/api/auth/signin", "", dto.SigninRequest{
		EmailOrUsername: "signin",
		Password:        "Wrong0ne!",
	})

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	var errResp dto.ErrorResponse
	s.decode(resp, &errResp)
	s.Equal("Please check your login credentials", errResp.Message)
}

func (s *Suite) TestVerify_CodeCannotBeReused() {
	resp := s.request(http.MethodPost, "/api/auth/signup", "", signupRequest("once@example.com", "once", "44444444"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	verify := dto.VerifyRequest{Email: "once@example.com", VerificationCode: s.infra.mail.lastCode("once@example.com")}

	resp = s.request(http.MethodPut, "/api/auth/verify", "", verify)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodPut, "/api/auth/verify", "", verify)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestTokenLifecycle() {
	auth := s.registerVerified("cycle@example.com", "cycle", "55555555")
	s.NotEmpty(auth.AccessToken)
	s.NotEmpty(auth.RefreshToken)

	resp := s.request(http.MethodPost, "/api/auth/signin", "", dto.SigninRequest{
		EmailOrUsername: "cycle@example.com",
		Password:        testPassword,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var signin dto.AuthResponse
	s.decode(resp, &signin)

	resp = s.request(http.MethodGet, "/api/auth/me", signin.AccessToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodPost, "/api/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: signin.RefreshToken})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var refreshed dto.AuthResponse
	s.decode(resp, &refreshed)
	s.NotEqual(signin.RefreshToken, refreshed.RefreshToken)

	resp = s.request(http.MethodPost, "/api/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: signin.RefreshToken})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/auth/me", refreshed.AccessToken, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestRefresh_RejectsAccessToken() {
	auth := s.registerVerified("access@example.com", "access", "66666666")

	resp := s.request(http.MethodPost, "/api/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: auth.AccessToken})

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestProtectedRoute_RequiresToken() {
	resp := s.request(http.MethodGet, "/api/auth/me", "", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp = s.request(http.MethodGet, "/api/auth/me", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestResetPassword() {
	s.registerVerified("reset@example.com", "reset", "77777777")

	resp := s.request(http.MethodPut, "/api/auth/resend-verification-code", "", dto.ResendVerificationCodeRequest{Email: "reset@example.com"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodPut, "/api/auth/reset-password", "", dto.ResetPasswordRequest{
		Email:            "reset@example.com",
		NewPassword:      "N3wPassword!",
		VerificationCode: s.infra.mail.lastCode("reset@example.com"),
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.request(http.MethodPost, "/api/auth/signin", "", dto.SigninRequest{
		EmailOrUsername: "reset",
		Password:        "N3wPassword!",
	})
	s.Equal(http.StatusOK, resp.StatusCode)
}
