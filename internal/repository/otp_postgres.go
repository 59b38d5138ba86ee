package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"carepoint/internal/domain"
)

type OTPBookingRepo struct {
	db *pgxpool.Pool
}

func NewOTPBookingRepository(db *pgxpool.Pool) *OTPBookingRepo {
	return &OTPBookingRepo{
		db: db,
	}
}

func (r *OTPBookingRepo) Create(ctx context.Context, b domain.OTPBooking) (int64, error) {
	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO otp_bookings (name, phone, status, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		b.Name, b.Phone, b.Status, createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create otp booking: %w", err)
	}

	return id, nil
}

func (r *OTPBookingRepo) List(ctx context.Context, limit, offset int) ([]domain.OTPBooking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, phone, status, created_at FROM otp_bookings ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list otp bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.OTPBooking, 0)
	for rows.Next() {
		var b domain.OTPBooking
		if err := rows.Scan(&b.ID, &b.Name, &b.Phone, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan otp booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate otp bookings: %w", err)
	}

	return bookings, nil
}
