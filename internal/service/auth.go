package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carepoint/config"
	"carepoint/internal/domain"
	"carepoint/internal/repository"
	"carepoint/pkg/auth"
	"carepoint/pkg/validator"
)

var (
	errInvalidRefreshToken = errors.New("invalid refresh token")
	errExpiredRefreshToken = errors.New("refresh token expired")
	errInvalidToken        = errors.New("invalid token")
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

type AuthServiceImpl struct {
	authRepo  repository.AuthRepository
	userRepo  repository.UserRepository
	jwtConfig config.JWTConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(authRepo repository.AuthRepository, userRepo repository.UserRepository, jwtConfig config.JWTConfig, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		authRepo:  authRepo,
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
		now:       time.Now,
	}
}

// Signup creates a patient or doctor account. A taken email is reported as
// domain.ErrEmailTaken so the form can be shown again.
func (s *AuthServiceImpl) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	req.Name = validator.FormatName(validator.SanitizeString(req.Name))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = domain.UserRolePatient
	}

	v := domain.NewValidationError()
	if req.Name == "" {
		v.Add("name", "Name is required")
	}
	if !validator.ValidateEmail(req.Email) {
		v.Add("email", "Enter a valid email address")
	}
	if !validator.ValidatePassword(req.Password) {
		v.Add("password", "Password must be at least 6 characters without spaces")
	}
	if req.Phone != "" {
		phone, ok := validator.NormalizePhone(req.Phone)
		if !ok {
			v.Add("phone", "Phone must be in international format, e.g. +15551234567")
		}
		req.Phone = phone
	}
	if req.Role != domain.UserRolePatient && req.Role != domain.UserRoleDoctor {
		v.Add("role", "Role must be patient or doctor")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("failed to look up user by email", zap.Error(err))
		return nil, errInternal
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, errInternal
	}

	id, err := s.userRepo.Create(ctx, domain.CreateUserDTO{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, errInternal
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load created user", zap.Int64("user_id", id), zap.Error(err))
		return nil, errInternal
	}

	s.logger.Info("user signed up", zap.Int64("user_id", id), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req domain.LoginRequest, userAgent, ip string) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to look up user by email", zap.Error(err))
			return nil, errInternal
		}
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	tokens, err := s.startSession(ctx, user, userAgent, ip)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to load session", zap.Error(err))
		}
		return nil, errInvalidRefreshToken
	}

	if session.Expired(s.now()) {
		if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", zap.String("session_id", session.ID), zap.Error(err))
		}
		return nil, errExpiredRefreshToken
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.Error("session user not found", zap.Int64("user_id", session.UserID), zap.Error(err))
		return nil, errInvalidRefreshToken
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Warn("failed to delete old session", zap.String("session_id", session.ID), zap.Error(err))
	}

	return s.startSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("logout with unknown refresh token")
			return nil
		}
		s.logger.Error("failed to load session", zap.Error(err))
		return errInternal
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Error("failed to delete session", zap.String("session_id", session.ID), zap.Error(err))
		return errInternal
	}

	return nil
}

func (s *AuthServiceImpl) ParseToken(ctx context.Context, tokenString string) (int64, domain.UserRole, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SigningKey), nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, "", errInvalidToken
	}

	return claims.UserID, claims.Role, nil
}

func (s *AuthServiceImpl) startSession(ctx context.Context, user *domain.User, userAgent, ip string) (*domain.Tokens, error) {
	tokens, err := s.generateTokens(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to generate tokens", zap.Error(err))
		return nil, errInternal
	}

	now := s.now()
	session := domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    now.Add(s.jwtConfig.RefreshTokenTTL),
		CreatedAt:    now,
	}

	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		s.logger.Error("failed to save session", zap.Error(err))
		return nil, errInternal
	}

	return tokens, nil
}

func (s *AuthServiceImpl) generateTokens(userID int64, role domain.UserRole) (*domain.Tokens, error) {
	now := s.now()

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	})
	accessTokenString, err := accessToken.SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	// The jti keeps two refresh tokens issued within the same second apart.
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	})
	refreshTokenString, err := refreshToken.SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.Tokens{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
	}, nil
}
