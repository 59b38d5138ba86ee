package snapshot

import (
	"context"

	"carepoint/internal/domain"
)

type otpBookingStore struct {
	store *Store
}

func (r *otpBookingStore) Create(ctx context.Context, b domain.OTPBooking) (int64, error) {
	err := mutate(ctx, r.store, KeyOTPBookings, func(bookings []domain.OTPBooking) ([]domain.OTPBooking, error) {
		b.ID = nextID(bookings, func(b domain.OTPBooking) int64 { return b.ID })
		if b.CreatedAt.IsZero() {
			b.CreatedAt = r.store.now()
		}
		return append([]domain.OTPBooking{b}, bookings...), nil
	})
	return b.ID, err
}

func (r *otpBookingStore) List(ctx context.Context, limit, offset int) ([]domain.OTPBooking, error) {
	bookings, err := readAll[domain.OTPBooking](ctx, r.store, KeyOTPBookings)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.OTPBooking{}
	}
	return page(bookings, limit, offset), nil
}
