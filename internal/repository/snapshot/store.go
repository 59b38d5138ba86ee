// Package snapshot is a single-file durable store for small deployments.
// Each collection is kept as one JSON document in a SQLite key/value table,
// mirroring how the original browser client persisted its state.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"carepoint/internal/domain"
	"carepoint/internal/repository"
)

const (
	KeyQueries      = "queries"
	KeyAppointments = "appointments"
	KeyDoctors      = "doctors"
	KeyUsers        = "users"
	KeySessions     = "sessions"
	KeyOTPBookings  = "otp_bookings"
)

// Keys written by earlier client versions. They are read once when the
// current key is missing and converted in place.
const (
	LegacyKeyQueries      = "health_queries_v3"
	LegacyKeyAppointments = "health_appointments_v3"
	LegacyKeyDoctors      = "health_doctors_v2"
)

// Defaults seed collections that exist under neither the current nor the
// legacy key.
type Defaults struct {
	Doctors []domain.CreateDoctorDTO
	Users   []domain.CreateUserDTO
}

type Store struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger *zap.Logger
}

// NewStore opens (or creates) dataDir/carepoint.db and bootstraps every
// collection.
func NewStore(ctx context.Context, dataDir string, defaults Defaults, logger *zap.Logger) (*Store, error) {
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "carepoint.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating snapshots table: %w", err)
	}

	s := &Store{
		db:     db,
		path:   dbPath,
		now:    time.Now,
		logger: logger,
	}

	if err := s.bootstrap(ctx, defaults); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// Repositories exposes the store through the same interfaces as the
// Postgres implementation.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:        &userStore{store: s},
		Auth:        &sessionStore{store: s},
		Doctor:      &doctorStore{store: s},
		Query:       &queryStore{store: s},
		Appointment: &appointmentStore{store: s},
		OTPBooking:  &otpBookingStore{store: s},
	}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) get(ctx context.Context, q querier, key string, v any) (bool, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, q querier, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(raw), s.now().UTC())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", key, err)
	}
	return n > 0, nil
}

func readAll[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []T
	if _, err := s.get(ctx, s.db, key, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// mutate loads a collection, applies fn and writes the result back in one
// transaction. Nothing is written when fn fails.
func mutate[T any](ctx context.Context, s *Store, key string, fn func(items []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var items []T
	if _, err := s.get(ctx, tx, key, &items); err != nil {
		return err
	}

	items, err = fn(items)
	if err != nil {
		return err
	}

	if err := s.put(ctx, tx, key, items); err != nil {
		return err
	}

	return tx.Commit()
}

func nextID[T any](items []T, id func(T) int64) int64 {
	var highest int64
	for _, item := range items {
		if v := id(item); v > highest {
			highest = v
		}
	}
	return highest + 1
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		return items
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
