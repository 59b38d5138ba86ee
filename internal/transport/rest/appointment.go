package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carepoint/internal/domain"
)

// @Summary Request an appointment
// @Description Stores the request and assigns the first doctor who works that weekday and slot. No match leaves it unassigned.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Department, date (YYYY-MM-DD) and slot"
// @Success 201 {object} successResponseBody{data=domain.Appointment}
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments [post]
func (h *Handler) requestAppointment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	var req domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid appointment payload", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	appointment, err := h.services.Appointment.Request(c.Request.Context(), userID, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, appointment)
}

// @Summary List appointments
// @Description Patients see their own requests. Administrators see all and may filter.
// @Tags Appointments
// @Produce json
// @Param status query string false "pending, under_review, approved or rejected"
// @Param department query string false "Exact department"
// @Param date query string false "YYYY-MM-DD"
// @Param doctor_id query int false "Assigned doctor"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} paginatedResponse{data=[]domain.Appointment}
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}
	role, _ := getUserRole(c)

	limit, offset, page := parsePagination(c)
	filter := domain.AppointmentFilter{Limit: limit, Offset: offset}

	switch role {
	case domain.UserRolePatient:
		filter.PatientID = &userID
	case domain.UserRoleAdmin:
		if v := c.Query("department"); v != "" {
			filter.Department = &v
		}
		if v := c.Query("doctor_id"); v != "" {
			id, ok := parseInt64(v)
			if !ok {
				badRequestResponse(c, "invalid doctor_id")
				return
			}
			filter.DoctorID = &id
		}
		if v := c.Query("date"); v != "" {
			date, err := time.Parse(domain.DateLayout, v)
			if err != nil {
				badRequestResponse(c, "date must be in YYYY-MM-DD format")
				return
			}
			filter.Date = &date
		}
	default:
		forbiddenResponse(c, "doctors list their appointments at /doctors/me/appointments")
		return
	}

	if v := c.Query("status"); v != "" {
		status := domain.RequestStatus(v)
		filter.Status = &status
	}

	appointments, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, appointments, len(appointments), page, limit)
}

// @Summary Get an appointment
// @Description Visible to the requesting patient, the assigned doctor and administrators
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} successResponseBody{data=domain.Appointment}
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if !h.canViewAppointment(c, userID, appointment) {
		h.logger.Warn("appointment access denied", zap.Int64("user_id", userID), zap.Int64("appointment_id", id))
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

func (h *Handler) canViewAppointment(c *gin.Context, userID int64, a *domain.Appointment) bool {
	role, _ := getUserRole(c)
	switch role {
	case domain.UserRoleAdmin:
		return true
	case domain.UserRolePatient:
		return a.PatientID == userID
	case domain.UserRoleDoctor:
		if a.AssignedDoctorID == nil {
			return false
		}
		doctor, err := h.services.Doctor.GetProfile(c.Request.Context(), userID)
		return err == nil && doctor.ID == *a.AssignedDoctorID
	}
	return false
}

// @Summary Change appointment status
// @Description Pending may move to under_review, approved or rejected; under_review to approved or rejected. Approved and rejected are final.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param input body domain.UpdateStatusDTO true "New status"
// @Success 200 {object} successResponseBody{data=domain.Appointment}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Transition not allowed"
// @Security ApiKeyAuth
// @Router /appointments/{id}/status [patch]
func (h *Handler) updateAppointmentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "status must be one of pending, under_review, approved, rejected")
		return
	}

	appointment, err := h.services.Appointment.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Assign a doctor
// @Description Overrides the automatic assignment with any existing doctor
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param input body domain.AssignDoctorDTO true "Doctor"
// @Success 200 {object} successResponseBody{data=domain.Appointment}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id}/doctor [patch]
func (h *Handler) assignAppointmentDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.AssignDoctorDTO
	if err := c.ShouldBindJSON(&req); err != nil || req.DoctorID == nil {
		badRequestResponse(c, "doctor_id is required")
		return
	}

	appointment, err := h.services.Appointment.AssignDoctor(c.Request.Context(), id, *req.DoctorID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}
