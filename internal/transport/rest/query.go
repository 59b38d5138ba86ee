package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carepoint/internal/domain"
)

// @Summary Submit a health query
// @Description Stores the symptom report with its advisory, urgency and suggested doctor
// @Tags Queries
// @Accept json
// @Produce json
// @Param input body domain.CreateQueryDTO true "Age, optional gender, category and symptoms"
// @Success 201 {object} successResponseBody{data=domain.SubmittedQuery}
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /queries [post]
func (h *Handler) submitQuery(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	var req domain.CreateQueryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid query payload", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	submitted, err := h.services.Query.Submit(c.Request.Context(), userID, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, submitted)
}

// @Summary Preview triage guidance
// @Description Classifies symptoms and suggests a doctor without storing anything
// @Tags Queries
// @Accept json
// @Produce json
// @Param input body domain.TriageRequest true "Symptoms"
// @Success 200 {object} successResponseBody{data=domain.TriageResponse}
// @Failure 400 {object} errorResponseBody
// @Router /triage [post]
func (h *Handler) previewTriage(c *gin.Context) {
	var req domain.TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "symptoms are required")
		return
	}

	guidance, err := h.services.Query.Preview(c.Request.Context(), req.Symptoms)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, guidance)
}

// @Summary List health queries
// @Description Patients see their own queries. Administrators see all, newest first, and may keep only emergencies.
// @Tags Queries
// @Produce json
// @Param emergency query bool false "Only the Emergency category"
// @Param category query string false "Exact category"
// @Param status query string false "pending, under_review, approved or rejected"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} paginatedResponse{data=[]domain.Query}
// @Failure 400 {object} errorResponseBody
// @Failure 401 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /queries [get]
func (h *Handler) getQueries(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}
	role, _ := getUserRole(c)

	limit, offset, page := parsePagination(c)
	filter := domain.QueryFilter{Limit: limit, Offset: offset}

	switch role {
	case domain.UserRolePatient:
		filter.PatientID = &userID
	case domain.UserRoleAdmin:
		if v := c.Query("category"); v != "" {
			filter.Category = &v
		}
		if emergency, _ := strconv.ParseBool(c.Query("emergency")); emergency {
			category := domain.CategoryEmergency
			filter.Category = &category
		}
	default:
		forbiddenResponse(c)
		return
	}

	if v := c.Query("status"); v != "" {
		status := domain.RequestStatus(v)
		filter.Status = &status
	}

	queries, err := h.services.Query.List(c.Request.Context(), filter)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, queries, len(queries), page, limit)
}

// @Summary Get a health query
// @Tags Queries
// @Produce json
// @Param id path int true "Query ID"
// @Success 200 {object} successResponseBody{data=domain.Query}
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /queries/{id} [get]
func (h *Handler) getQueryByID(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	query, err := h.services.Query.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	role, _ := getUserRole(c)
	if role != domain.UserRoleAdmin && query.PatientID != userID {
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, query)
}

// @Summary Change query status
// @Description Pending may move to under_review, approved or rejected; under_review to approved or rejected. Approved and rejected are final.
// @Tags Queries
// @Accept json
// @Produce json
// @Param id path int true "Query ID"
// @Param input body domain.UpdateStatusDTO true "New status"
// @Success 200 {object} successResponseBody{data=domain.Query}
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Transition not allowed"
// @Security ApiKeyAuth
// @Router /queries/{id}/status [patch]
func (h *Handler) updateQueryStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestResponse(c, "status must be one of pending, under_review, approved, rejected")
		return
	}

	query, err := h.services.Query.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, query)
}
