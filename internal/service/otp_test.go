package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
)

func TestOTPService_Send(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.services.OTP.Send(ctx, "  ")
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Phone number is required", ve.Fields["phoneNumber"])

	status, err := env.services.OTP.Send(ctx, "+1 (555) 123-4567")
	require.NoError(t, err)
	assert.Equal(t, "pending", status)
	assert.Equal(t, []string{"+15551234567"}, env.verifier.sent)

	// Burst is two sends per phone.
	_, err = env.services.OTP.Send(ctx, "+15551234567")
	require.NoError(t, err)
	_, err = env.services.OTP.Send(ctx, "+15551234567")
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	env.verifier.sendErr = assert.AnError
	_, err = env.services.OTP.Send(ctx, "+15559876543")
	assert.ErrorIs(t, err, domain.ErrOTPProvider)
}

func TestOTPService_Verify(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.verifier.codes["+15551234567"] = "123456"

	_, err := env.services.OTP.Verify(ctx, domain.VerifyOTPRequest{PhoneNumber: "+15551234567", Code: "123456"})
	ve, ok := domain.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "Name, phone number, and code are required", ve.Fields["request"])

	_, err = env.services.OTP.Verify(ctx, domain.VerifyOTPRequest{PhoneNumber: "+15551234567", Code: "000000", Name: "Ravi"})
	assert.ErrorIs(t, err, domain.ErrOTPRejected)

	_, err = env.services.OTP.Verify(ctx, domain.VerifyOTPRequest{PhoneNumber: "+15551234567", Code: "12ab", Name: "Ravi"})
	assert.ErrorIs(t, err, domain.ErrOTPRejected)

	booking, err := env.services.OTP.Verify(ctx, domain.VerifyOTPRequest{PhoneNumber: "+1 555 123 4567", Code: "123456", Name: "Ravi"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", booking.Name)
	assert.Equal(t, "+15551234567", booking.Phone)
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.False(t, booking.CreatedAt.IsZero())
	assert.Equal(t, []domain.EventType{domain.EventBookingVerified}, env.publisher.types())

	bookings, err := env.services.OTP.ListBookings(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, booking.ID, bookings[0].ID)

	env.verifier.checkErr = assert.AnError
	_, err = env.services.OTP.Verify(ctx, domain.VerifyOTPRequest{PhoneNumber: "+15551234567", Code: "123456", Name: "Ravi"})
	assert.ErrorIs(t, err, domain.ErrOTPProvider)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "********4567", maskPhone("+15551234567"))
	assert.Equal(t, "****", maskPhone("123"))
}
