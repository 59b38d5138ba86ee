package rest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carepoint/internal/domain"
)

// @Summary List doctors
// @Description Without day, lists the registry in insertion order, optionally filtered. With day, searches active doctors of a department ("All Departments" for any) who work that weekday.
// @Tags Doctors
// @Produce json
// @Param department query string false "Exact department or All Departments"
// @Param day query string false "Weekday name"
// @Param status query string false "Active or On Leave"
// @Success 200 {object} successResponseBody{data=[]domain.Doctor}
// @Failure 400 {object} errorResponseBody
// @Router /doctors [get]
func (h *Handler) getDoctors(c *gin.Context) {
	department := c.Query("department")

	if day := c.Query("day"); day != "" {
		doctors, err := h.services.Doctor.Search(c.Request.Context(), department, day)
		if err != nil {
			serviceErrorResponse(c, err)
			return
		}
		successResponse(c, http.StatusOK, doctors)
		return
	}

	var filter domain.DoctorFilter
	if department != "" && department != domain.AllDepartments {
		filter.Department = &department
	}
	if v := c.Query("status"); v != "" {
		status := domain.DoctorStatus(v)
		filter.Status = &status
	}

	doctors, err := h.services.Doctor.List(c.Request.Context(), filter)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctors)
}

// @Summary Get a doctor
// @Tags Doctors
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} successResponseBody{data=domain.Doctor}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Router /doctors/{id} [get]
func (h *Handler) getDoctorByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Add a doctor
// @Description Name, at least one day and at least one slot are required
// @Tags Doctors
// @Accept json
// @Produce json
// @Param input body domain.CreateDoctorDTO true "Doctor"
// @Success 201 {object} successResponseBody{data=domain.Doctor}
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /doctors [post]
func (h *Handler) createDoctor(c *gin.Context) {
	var req domain.CreateDoctorDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid doctor payload", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	doctor, err := h.services.Doctor.Create(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, doctor)
}

// @Summary Change doctor status
// @Tags Doctors
// @Accept json
// @Produce json
// @Param id path int true "Doctor ID"
// @Param input body domain.UpdateDoctorStatusDTO true "Active or On Leave"
// @Success 200 {object} successResponseBody{data=domain.Doctor}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /doctors/{id}/status [patch]
func (h *Handler) updateDoctorStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateDoctorStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "status is required")
		return
	}

	doctor, err := h.services.Doctor.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary My doctor profile
// @Tags Doctors
// @Produce json
// @Success 200 {object} successResponseBody{data=domain.Doctor}
// @Failure 404 {object} errorResponseBody "Profile not created yet"
// @Security ApiKeyAuth
// @Router /doctors/me [get]
func (h *Handler) getMyDoctorProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	doctor, err := h.services.Doctor.GetProfile(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Save my doctor profile
// @Description Creates the profile on first save. At least one day and one slot are required.
// @Tags Doctors
// @Accept json
// @Produce json
// @Param input body domain.UpdateDoctorProfileDTO true "Profile"
// @Success 200 {object} successResponseBody{data=domain.Doctor}
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Security ApiKeyAuth
// @Router /doctors/me [put]
func (h *Handler) upsertMyDoctorProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	var req domain.UpdateDoctorProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile payload", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	doctor, err := h.services.Doctor.UpsertProfile(c.Request.Context(), userID, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Upload my profile photo
// @Tags Doctors
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "JPEG, PNG, GIF or WebP image up to 5 MB"
// @Success 200 {object} successResponseBody{data=domain.Doctor}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody "Profile not created yet"
// @Failure 413 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /doctors/me/photo [post]
func (h *Handler) uploadMyDoctorPhoto(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "photo is required")
		return
	}
	if file.Size > maxPhotoBytes {
		errorResponse(c, http.StatusRequestEntityTooLarge, "photo must be at most 5 MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded photo", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPhotoBytes+1))
	if err != nil {
		h.logger.Error("failed to read uploaded photo", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	doctor, err := h.services.Doctor.UploadProfilePhoto(c.Request.Context(), userID, data, file.Filename)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Appointments assigned to me
// @Tags Doctors
// @Produce json
// @Success 200 {object} successResponseBody{data=[]domain.Appointment}
// @Failure 404 {object} errorResponseBody "Profile not created yet"
// @Security ApiKeyAuth
// @Router /doctors/me/appointments [get]
func (h *Handler) getMyAssignedAppointments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	appointments, err := h.services.Doctor.AssignedAppointments(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointments)
}
