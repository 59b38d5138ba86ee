package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"carepoint/config"
	"carepoint/internal/service"
	"carepoint/internal/transport/websocket"
)

const maxPhotoBytes = 5 << 20

type Handler struct {
	services  *service.Services
	logger    *zap.Logger
	config    *config.Config
	dashboard *websocket.DashboardHub
}

// NewHandler wires the HTTP surface. dashboard may be nil, in which case the
// live dashboard endpoint is not registered.
func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config, dashboard *websocket.DashboardHub) *Handler {
	return &Handler{
		services:  services,
		logger:    logger,
		config:    config,
		dashboard: dashboard,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.requestMiddleware())
	router.Use(h.corsMiddleware())

	router.MaxMultipartMemory = maxPhotoBytes

	router.GET("/health", h.health)

	// Public booking form of the home page.
	router.POST("/api/send-otp", h.sendOTP)
	router.POST("/api/verify-otp", h.verifyOTP)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.signup)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		api.POST("/triage", h.previewTriage)

		users := api.Group("/users", h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("", h.adminMiddleware(), h.getUsers)
		}

		doctors := api.Group("/doctors")
		{
			doctors.GET("", h.getDoctors)
			doctors.GET("/:id", h.getDoctorByID)

			me := doctors.Group("/me", h.authMiddleware(), h.doctorMiddleware())
			{
				me.GET("", h.getMyDoctorProfile)
				me.PUT("", h.upsertMyDoctorProfile)
				me.POST("/photo", h.uploadMyDoctorPhoto)
				me.GET("/appointments", h.getMyAssignedAppointments)
			}

			admin := doctors.Group("", h.authMiddleware(), h.adminMiddleware())
			{
				admin.POST("", h.createDoctor)
				admin.PATCH("/:id/status", h.updateDoctorStatus)
			}
		}

		queries := api.Group("/queries", h.authMiddleware())
		{
			queries.POST("", h.patientMiddleware(), h.submitQuery)
			queries.GET("", h.getQueries)
			queries.GET("/:id", h.getQueryByID)
			queries.PATCH("/:id/status", h.adminMiddleware(), h.updateQueryStatus)
		}

		appointments := api.Group("/appointments", h.authMiddleware())
		{
			appointments.POST("", h.patientMiddleware(), h.requestAppointment)
			appointments.GET("", h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.PATCH("/:id/status", h.adminMiddleware(), h.updateAppointmentStatus)
			appointments.PATCH("/:id/doctor", h.adminMiddleware(), h.assignAppointmentDoctor)
		}

		admin := api.Group("", h.authMiddleware(), h.adminMiddleware())
		{
			admin.GET("/analytics/overview", h.getAnalyticsOverview)
			admin.GET("/bookings", h.getVerifiedBookings)
		}
	}

	if h.dashboard != nil {
		router.GET("/ws/dashboard", h.dashboard.HandleWebSocket)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}

// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.config.Version})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// parsePagination reads limit and offset query parameters and returns the
// 1-based page they describe.
func parsePagination(c *gin.Context) (limit, offset, page int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset, offset/limit + 1
}

func parseInt64(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil && v > 0
}
