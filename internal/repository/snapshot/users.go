package snapshot

import (
	"context"
	"strings"
	"time"

	"carepoint/internal/domain"
	"carepoint/internal/repository"
)

// userRecord is the stored form of domain.User; the password hash is
// hidden from API JSON but has to survive here.
type userRecord struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	PasswordHash string          `json:"password_hash"`
	Role         domain.UserRole `json:"role"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (u userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type userStore struct {
	store *Store
}

func (r *userStore) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	var id int64
	err := mutate(ctx, r.store, KeyUsers, func(users []userRecord) ([]userRecord, error) {
		for _, u := range users {
			if strings.EqualFold(u.Email, dto.Email) {
				return nil, domain.ErrEmailTaken
			}
		}
		id = nextID(users, func(u userRecord) int64 { return u.ID })
		now := r.store.now()
		return append(users, userRecord{
			ID:           id,
			Name:         dto.Name,
			Email:        dto.Email,
			Phone:        dto.Phone,
			PasswordHash: dto.PasswordHash,
			Role:         dto.Role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}), nil
	})
	return id, err
}

func (r *userStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.find(ctx, func(u userRecord) bool { return u.ID == id })
}

func (r *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(ctx, func(u userRecord) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userStore) find(ctx context.Context, match func(userRecord) bool) (*domain.User, error) {
	users, err := readAll[userRecord](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if match(u) {
			return u.toDomain(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userStore) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	records, err := readAll[userRecord](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(records))
	for _, u := range page(records, limit, offset) {
		users = append(users, *u.toDomain())
	}
	return users, nil
}

// sessionRecord keeps a digest of the refresh token, matching the
// Postgres sessions table.
type sessionRecord struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	TokenDigest string    `json:"token_digest"`
	UserAgent   string    `json:"user_agent"`
	IP          string    `json:"ip"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionStore struct {
	store *Store
}

func (r *sessionStore) CreateSession(ctx context.Context, session domain.Session) error {
	record := sessionRecord{
		ID:          session.ID,
		UserID:      session.UserID,
		TokenDigest: repository.TokenDigest(session.RefreshToken),
		UserAgent:   session.UserAgent,
		IP:          session.IP,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
	}
	return mutate(ctx, r.store, KeySessions, func(sessions []sessionRecord) ([]sessionRecord, error) {
		// Expired sessions are dropped whenever a new one is written.
		now := r.store.now()
		live := sessions[:0]
		for _, s := range sessions {
			if s.ExpiresAt.After(now) {
				live = append(live, s)
			}
		}
		return append(live, record), nil
	})
}

func (r *sessionStore) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	sessions, err := readAll[sessionRecord](ctx, r.store, KeySessions)
	if err != nil {
		return nil, err
	}
	digest := repository.TokenDigest(refreshToken)
	for _, s := range sessions {
		if s.TokenDigest == digest {
			return &domain.Session{
				ID:           s.ID,
				UserID:       s.UserID,
				RefreshToken: refreshToken,
				UserAgent:    s.UserAgent,
				IP:           s.IP,
				ExpiresAt:    s.ExpiresAt,
				CreatedAt:    s.CreatedAt,
			}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *sessionStore) DeleteSession(ctx context.Context, id string) error {
	return r.remove(ctx, func(s sessionRecord) bool { return s.ID == id })
}

func (r *sessionStore) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	return r.remove(ctx, func(s sessionRecord) bool { return s.UserID == userID })
}

func (r *sessionStore) remove(ctx context.Context, match func(sessionRecord) bool) error {
	return mutate(ctx, r.store, KeySessions, func(sessions []sessionRecord) ([]sessionRecord, error) {
		kept := make([]sessionRecord, 0, len(sessions))
		for _, s := range sessions {
			if !match(s) {
				kept = append(kept, s)
			}
		}
		return kept, nil
	})
}
