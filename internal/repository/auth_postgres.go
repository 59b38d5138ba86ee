package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"carepoint/internal/domain"
)

// SessionRepo keeps refresh sessions. Only a SHA-256 digest of the refresh
// token is stored, so a leaked row cannot be replayed.
type SessionRepo struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{db: db}
}

// TokenDigest is the stored form of a refresh token.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *SessionRepo) CreateSession(ctx context.Context, s domain.Session) error {
	const q = `
		INSERT INTO sessions (id, user_id, token_digest, user_agent, ip, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.db.Exec(ctx, q, s.ID, s.UserID, TokenDigest(s.RefreshToken), s.UserAgent, s.IP, s.ExpiresAt, s.CreatedAt); err != nil {
		return fmt.Errorf("insert session for user %d: %w", s.UserID, err)
	}
	return nil
}

// GetSessionByRefreshToken returns expired sessions too; the caller decides
// what an expired one means.
func (r *SessionRepo) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	const q = `
		SELECT id, user_id, user_agent, ip, expires_at, created_at
		FROM sessions
		WHERE token_digest = $1
	`

	s := domain.Session{RefreshToken: refreshToken}
	err := r.db.QueryRow(ctx, q, TokenDigest(refreshToken)).
		Scan(&s.ID, &s.UserID, &s.UserAgent, &s.IP, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", notFound(err))
	}
	return &s, nil
}

func (r *SessionRepo) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (r *SessionRepo) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete sessions of user %d: %w", userID, err)
	}
	return nil
}
