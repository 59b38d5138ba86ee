package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carepoint/internal/domain"
)

// @Summary Sign up
// @Description Creates a patient or doctor account. A taken email returns 409.
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.SignupRequest true "Account details"
// @Success 201 {object} successResponseBody{data=domain.User}
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Failure 409 {object} errorResponseBody "Email already registered"
// @Failure 500 {object} errorResponseBody
// @Router /auth/signup [post]
func (h *Handler) signup(c *gin.Context) {
	var input domain.SignupRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid signup payload", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	user, err := h.services.Auth.Signup(c.Request.Context(), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, user)
}

// @Summary Log in
// @Description Checks credentials and returns the account with a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Credentials"
// @Success 200 {object} successResponseBody{data=domain.AuthResult}
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody "Invalid email or password"
// @Failure 403 {object} errorResponseBody "Account is deactivated"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input domain.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		badRequestResponse(c, "email and password are required")
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), input, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, result)
}

// @Summary Refresh tokens
// @Description Rotates the refresh token and issues a new pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} successResponseBody{data=domain.Tokens}
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *Handler) refreshTokens(c *gin.Context) {
	var input domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid refresh payload", zap.Error(err))
		badRequestResponse(c, "refresh_token is required")
		return
	}

	tokens, err := h.services.Auth.RefreshTokens(c.Request.Context(), input.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		if _, ok := domain.AsValidationError(err); ok {
			serviceErrorResponse(c, err)
			return
		}
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Log out
// @Description Ends the session that owns the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Failure 400 {object} errorResponseBody
// @Failure 500 {object} errorResponseBody
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var input domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid logout payload", zap.Error(err))
		badRequestResponse(c, "refresh_token is required")
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
