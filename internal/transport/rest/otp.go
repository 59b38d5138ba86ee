package rest

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"carepoint/internal/domain"
)

const bookingSavedMessage = "OTP verified and appointment saved successfully"

// The OTP endpoints keep the flat {success, status|message|error} shape the
// home-page form expects instead of the envelope used under /api/v1.

func otpFailure(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	if ve, ok := domain.AsValidationError(err); ok {
		status = http.StatusBadRequest
		message = firstFieldMessage(ve)
	} else {
		switch {
		case errors.Is(err, domain.ErrOTPRejected):
			status = http.StatusBadRequest
			message = "Invalid OTP"
		case errors.Is(err, domain.ErrRateLimited):
			status = http.StatusTooManyRequests
		case errors.Is(err, domain.ErrOTPProvider):
			status = http.StatusInternalServerError
		}
	}

	c.AbortWithStatusJSON(status, domain.OTPResponse{Success: false, Error: message})
}

func firstFieldMessage(ve *domain.ValidationError) string {
	keys := make([]string, 0, len(ve.Fields))
	for k := range ve.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "validation failed"
	}
	return ve.Fields[keys[0]]
}

// @Summary Send a verification code
// @Description Texts a one-time code to the phone number
// @Tags Booking
// @Accept json
// @Produce json
// @Param input body domain.SendOTPRequest true "Phone number in international format"
// @Success 200 {object} domain.OTPResponse
// @Failure 400 {object} domain.OTPResponse
// @Failure 429 {object} domain.OTPResponse
// @Failure 500 {object} domain.OTPResponse
// @Router /send-otp [post]
func (h *Handler) sendOTP(c *gin.Context) {
	var req domain.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, domain.OTPResponse{Success: false, Error: "Phone number is required"})
		return
	}

	status, err := h.services.OTP.Send(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		otpFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.OTPResponse{Success: true, Status: status})
}

// @Summary Verify the code and book
// @Description On approval stores a pending booking with the visitor's name and phone
// @Tags Booking
// @Accept json
// @Produce json
// @Param input body domain.VerifyOTPRequest true "Phone number, code and name"
// @Success 200 {object} domain.OTPResponse
// @Failure 400 {object} domain.OTPResponse
// @Failure 500 {object} domain.OTPResponse
// @Router /verify-otp [post]
func (h *Handler) verifyOTP(c *gin.Context) {
	var req domain.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, domain.OTPResponse{Success: false, Error: "Name, phone number, and code are required"})
		return
	}

	if _, err := h.services.OTP.Verify(c.Request.Context(), req); err != nil {
		otpFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.OTPResponse{Success: true, Message: bookingSavedMessage})
}

// @Summary List verified bookings
// @Description Bookings left through the phone-verified form, newest first
// @Tags Booking
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} paginatedResponse{data=[]domain.OTPBooking}
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /bookings [get]
func (h *Handler) getVerifiedBookings(c *gin.Context) {
	limit, offset, page := parsePagination(c)

	bookings, err := h.services.OTP.ListBookings(c.Request.Context(), limit, offset)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, bookings, len(bookings), page, limit)
}
