package otp

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
	"go.uber.org/zap"

	"carepoint/config"
	"carepoint/internal/domain"
)

const statusApproved = "approved"

// verifyAPI is the slice of the Twilio Verify v2 client used here.
type verifyAPI interface {
	CreateVerification(serviceSid string, params *verify.CreateVerificationParams) (*verify.VerifyV2Verification, error)
	CreateVerificationCheck(serviceSid string, params *verify.CreateVerificationCheckParams) (*verify.VerifyV2VerificationCheck, error)
}

type TwilioVerifier struct {
	api        verifyAPI
	serviceSID string
	logger     *zap.Logger
}

func NewTwilioVerifier(cfg config.TwilioConfig, logger *zap.Logger) *TwilioVerifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioVerifier{
		api:        client.VerifyV2,
		serviceSID: cfg.VerifyServiceSID,
		logger:     logger,
	}
}

func (v *TwilioVerifier) Send(ctx context.Context, phone string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &verify.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")

	resp, err := v.api.CreateVerification(v.serviceSID, params)
	if err != nil {
		v.logger.Error("twilio send verification failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrOTPProvider, err)
	}

	status := "pending"
	if resp.Status != nil {
		status = *resp.Status
	}
	return status, nil
}

func (v *TwilioVerifier) Check(ctx context.Context, phone, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	params := &verify.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	resp, err := v.api.CreateVerificationCheck(v.serviceSID, params)
	if err != nil {
		v.logger.Error("twilio verification check failed", zap.Error(err))
		return false, fmt.Errorf("%w: %v", domain.ErrOTPProvider, err)
	}

	return resp.Status != nil && *resp.Status == statusApproved, nil
}
