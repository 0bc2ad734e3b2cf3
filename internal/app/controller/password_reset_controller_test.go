package controller

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetController_FullFlow(t *testing.T) {
	s := setupControllerTest(t, nil)
	s.registerAndLogin(t, "alice")

	w := s.do(t, http.MethodPost, "/forgot-password", ForgotPasswordRequest{Email: "Alice@Example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["message"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["message"])

	token := s.mailer.lastToken(t)

	w = s.do(t, http.MethodGet, "/verify-token/"+token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	data, ok = decodeBody(t, w)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", data["email"])

	w = s.do(t, http.MethodPost, "/reset-password/"+token, ResetPasswordRequest{Password: "new-password"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/reset-password/"+token, ResetPasswordRequest{Password: "another"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RESET_TOKEN_INVALID", decodeBody(t, w)["error"])

	w = s.do(t, http.MethodPost, "/login", LoginRequest{Username: "alice", Password: "password123"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/login", LoginRequest{Username: "alice", Password: "new-password"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPasswordResetController_ForgotPassword_Errors(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		mailErr    error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Unknown email",
			email:      "nobody@example.com",
			wantStatus: http.StatusBadRequest,
			wantCode:   "RESOURCE_NOT_FOUND",
		},
		{
			name:       "Empty email",
			email:      "",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_REQUIRED",
		},
		{
			name:       "Mail delivery failure",
			email:      "alice@example.com",
			mailErr:    errors.New("smtp unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupControllerTest(t, nil)
			s.registerAndLogin(t, "alice")
			s.mailer.err = tt.mailErr

			w := s.do(t, http.MethodPost, "/forgot-password", ForgotPasswordRequest{Email: tt.email}, "")
			assert.Equal(t, tt.wantStatus, w.Code)

			body := decodeBody(t, w)
			assert.Equal(t, tt.wantCode, body["error"])
			assert.NotContains(t, body["message"], "smtp")
		})
	}
}

func TestPasswordResetController_BadTokens(t *testing.T) {
	s := setupControllerTest(t, nil)
	s.registerAndLogin(t, "alice")

	w := s.do(t, http.MethodGet, "/verify-token/does-not-exist", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RESET_TOKEN_INVALID", decodeBody(t, w)["error"])

	w = s.do(t, http.MethodPost, "/forgot-password", ForgotPasswordRequest{Email: "alice@example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := s.mailer.lastToken(t)

	w = s.do(t, http.MethodPost, "/reset-password/"+token, ResetPasswordRequest{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_REQUIRED", decodeBody(t, w)["error"])

	w = s.do(t, http.MethodPost, "/reset-password/"+token, ResetPasswordRequest{Password: strings.Repeat("p", 73)}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", decodeBody(t, w)["error"])

	// Rejected attempts must not consume the token
	w = s.do(t, http.MethodGet, "/verify-token/"+token, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
