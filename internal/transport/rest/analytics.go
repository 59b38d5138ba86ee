package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carepoint/internal/domain"
)

// @Summary Dashboard overview
// @Description Totals, category distribution, top five departments, daily trend and today's doctors on duty
// @Tags Analytics
// @Produce json
// @Param date query string false "Day to report as today, YYYY-MM-DD"
// @Success 200 {object} successResponseBody{data=domain.Overview}
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /analytics/overview [get]
func (h *Handler) getAnalyticsOverview(c *gin.Context) {
	today := time.Now()
	if v := c.Query("date"); v != "" {
		parsed, err := time.Parse(domain.DateLayout, v)
		if err != nil {
			badRequestResponse(c, "date must be in YYYY-MM-DD format")
			return
		}
		today = parsed
	}

	overview, err := h.services.Analytics.Overview(c.Request.Context(), today)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, overview)
}
