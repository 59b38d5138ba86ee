package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
)

func TestSignupLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "New Patient",
		"email":    "new@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var user domain.User
	decodeData(t, w, &user)
	assert.Equal(t, domain.UserRolePatient, user.Role)
	assert.NotContains(t, w.Body.String(), "password")

	w = ts.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name":     "Again",
		"email":    "new@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"email": "bad"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")

	w = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "new@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "new@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var result domain.AuthResult
	decodeData(t, w, &result)
	require.NotNil(t, result.Tokens)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": result.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	var tokens domain.Tokens
	decodeData(t, w, &tokens)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": result.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
