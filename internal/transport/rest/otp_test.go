package rest

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint/internal/domain"
)

func decodeOTP(t *testing.T, body []byte) domain.OTPResponse {
	t.Helper()
	var resp domain.OTPResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestSendOTP(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/send-otp", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, domain.OTPResponse{Success: false, Error: "Phone number is required"}, decodeOTP(t, w.Body.Bytes()))

	w = ts.do(t, http.MethodPost, "/api/send-otp", "", map[string]string{"phoneNumber": "+15551234567"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.OTPResponse{Success: true, Status: "pending"}, decodeOTP(t, w.Body.Bytes()))
}

func TestVerifyOTP(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/verify-otp", "", map[string]string{"phoneNumber": "+15551234567"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name, phone number, and code are required", decodeOTP(t, w.Body.Bytes()).Error)

	w = ts.do(t, http.MethodPost, "/api/verify-otp", "", map[string]string{
		"phoneNumber": "+15551234567",
		"code":        "000000",
		"name":        "Walk In",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OTP", decodeOTP(t, w.Body.Bytes()).Error)

	w = ts.do(t, http.MethodPost, "/api/verify-otp", "", map[string]string{
		"phoneNumber": "+15551234567",
		"code":        "123456",
		"name":        "Walk In",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.OTPResponse{Success: true, Message: bookingSavedMessage}, decodeOTP(t, w.Body.Bytes()))

	w = ts.do(t, http.MethodGet, "/api/v1/bookings", ts.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bookings []domain.OTPBooking
	decodeData(t, w, &bookings)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Walk In", bookings[0].Name)
	assert.Equal(t, domain.StatusPending, bookings[0].Status)
}
