package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carepoint/internal/domain"
)

const (
	authorizationHeader = "Authorization"
	requestIDHeader     = "X-Request-ID"

	requestIDCtx = "request_id"
	userIDCtx    = "user_id"
	userRoleCtx  = "user_role"
)

// requestMiddleware tags every request with an id (reusing the caller's
// X-Request-ID when present) and writes one access log line once the
// handler chain has finished.
func (h *Handler) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDCtx, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if id, ok := contextValue[int64](c, userIDCtx); ok {
			fields = append(fields, zap.Int64("user_id", id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			h.logger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			h.logger.Warn("request rejected", fields...)
		default:
			h.logger.Info("request served", fields...)
		}
	}
}

// corsMiddleware echoes back origins listed in CORS_ORIGINS. A "*" entry
// allows any origin, but without credentials.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(h.config.HTTP.CORSOrigins))
	for _, origin := range h.config.HTTP.CORSOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		header := c.Writer.Header()
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Add("Vary", "Origin")
		} else if allowAll {
			header.Set("Access-Control-Allow-Origin", "*")
		}
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, Origin, X-Request-ID")
		header.Set("Access-Control-Expose-Headers", requestIDHeader)
		header.Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if header == "" {
			unauthorizedResponse(c)
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			errorResponse(c, http.StatusUnauthorized, "authorization header must be \"Bearer <token>\"")
			return
		}

		userID, role, err := h.services.Auth.ParseToken(c.Request.Context(), token)
		if err != nil {
			h.logger.Debug("access token rejected", zap.Error(err))
			errorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(userIDCtx, userID)
		c.Set(userRoleCtx, role)
		c.Next()
	}
}

// roleMiddleware admits only the listed roles. It runs after authMiddleware.
func (h *Handler) roleMiddleware(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := getUserRole(c)
		if !ok {
			unauthorizedResponse(c)
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		forbiddenResponse(c)
	}
}

func (h *Handler) adminMiddleware() gin.HandlerFunc {
	return h.roleMiddleware(domain.UserRoleAdmin)
}

func (h *Handler) doctorMiddleware() gin.HandlerFunc {
	return h.roleMiddleware(domain.UserRoleDoctor)
}

func (h *Handler) patientMiddleware() gin.HandlerFunc {
	return h.roleMiddleware(domain.UserRolePatient)
}

func contextValue[T any](c *gin.Context, key string) (T, bool) {
	var zero T
	raw, exists := c.Get(key)
	if !exists {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}

func getUserID(c *gin.Context) (int64, bool) {
	return contextValue[int64](c, userIDCtx)
}

func getUserRole(c *gin.Context) (domain.UserRole, bool) {
	return contextValue[domain.UserRole](c, userRoleCtx)
}
