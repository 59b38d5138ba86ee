package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"carepoint/internal/domain"
	"carepoint/internal/events"
	"carepoint/internal/otp"
	"carepoint/internal/repository"
	"carepoint/pkg/validator"
)

// sendLimiter decides whether another code may be sent to a phone.
type sendLimiter interface {
	Allow(phone string) bool
}

type OTPServiceImpl struct {
	verifier  otp.Verifier
	limiter   sendLimiter
	repo      repository.OTPBookingRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewOTPService(
	verifier otp.Verifier,
	limiter sendLimiter,
	repo repository.OTPBookingRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *OTPServiceImpl {
	return &OTPServiceImpl{
		verifier:  verifier,
		limiter:   limiter,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Send asks the provider to text a code and returns its verification status.
func (s *OTPServiceImpl) Send(ctx context.Context, phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", fieldError("phoneNumber", "Phone number is required")
	}
	normalized, ok := validator.NormalizePhone(phone)
	if !ok {
		return "", fieldError("phoneNumber", "Phone number must be in international format, e.g. +15551234567")
	}

	if !s.limiter.Allow(normalized) {
		s.logger.Warn("otp send rate limited", zap.String("phone", maskPhone(normalized)))
		return "", domain.ErrRateLimited
	}

	status, err := s.verifier.Send(ctx, normalized)
	if err != nil {
		s.logger.Error("failed to send otp", zap.String("phone", maskPhone(normalized)), zap.Error(err))
		return "", domain.ErrOTPProvider
	}

	return status, nil
}

// Verify checks the code and, once approved, stores a pending booking for
// the visitor.
func (s *OTPServiceImpl) Verify(ctx context.Context, req domain.VerifyOTPRequest) (*domain.OTPBooking, error) {
	name := validator.SanitizeString(req.Name)
	code := strings.TrimSpace(req.Code)
	if name == "" || code == "" || strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, fieldError("request", "Name, phone number, and code are required")
	}
	phone, ok := validator.NormalizePhone(req.PhoneNumber)
	if !ok {
		return nil, fieldError("phoneNumber", "Phone number must be in international format, e.g. +15551234567")
	}
	if !validator.ValidateOTPCode(code) {
		return nil, domain.ErrOTPRejected
	}

	approved, err := s.verifier.Check(ctx, phone, code)
	if err != nil {
		s.logger.Error("failed to check otp", zap.String("phone", maskPhone(phone)), zap.Error(err))
		return nil, domain.ErrOTPProvider
	}
	if !approved {
		return nil, domain.ErrOTPRejected
	}

	booking := domain.OTPBooking{
		Name:      name,
		Phone:     phone,
		Status:    domain.StatusPending,
		CreatedAt: s.now(),
	}
	id, err := s.repo.Create(ctx, booking)
	if err != nil {
		s.logger.Error("failed to save verified booking", zap.String("phone", maskPhone(phone)), zap.Error(err))
		return nil, errInternal
	}
	booking.ID = id

	s.logger.Info("verified booking saved", zap.Int64("id", id))
	publish(ctx, s.publisher, s.logger, domain.EventBookingVerified, booking)

	return &booking, nil
}

func (s *OTPServiceImpl) ListBookings(ctx context.Context, limit, offset int) ([]domain.OTPBooking, error) {
	limit, offset = pageBounds(limit, offset)

	bookings, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list verified bookings", zap.Error(err))
		return nil, errInternal
	}
	return bookings, nil
}

func fieldError(field, message string) error {
	v := domain.NewValidationError()
	v.Add(field, message)
	return v
}

// maskPhone keeps the last four digits for logs.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

var _ sendLimiter = (*otp.PhoneLimiter)(nil)
