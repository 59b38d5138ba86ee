// Package otp sends and checks one-time phone verification codes.
package otp

import (
	"context"

	"carepoint/internal/domain"
)

// Verifier is an SMS verification provider. Send returns the provider's
// status for the new verification, typically "pending".
type Verifier interface {
	Send(ctx context.Context, phone string) (string, error)
	Check(ctx context.Context, phone, code string) (bool, error)
}

// Unconfigured is used when no provider credentials are set. Every call
// fails with domain.ErrOTPProvider.
type Unconfigured struct{}

func (Unconfigured) Send(context.Context, string) (string, error) {
	return "", domain.ErrOTPProvider
}

func (Unconfigured) Check(context.Context, string, string) (bool, error) {
	return false, domain.ErrOTPProvider
}
