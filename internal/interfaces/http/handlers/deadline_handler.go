package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/legaldefense/plazos/internal/application/deadlines"
	"github.com/legaldefense/plazos/internal/infrastructure/monitoring/logging"
	"github.com/legaldefense/plazos/pkg/errors"
)

// DeadlineHandler serves the deadline calculation API.
type DeadlineHandler struct {
	svc    deadlines.Service
	logger logging.Logger
}

// NewDeadlineHandler creates a DeadlineHandler.
func NewDeadlineHandler(svc deadlines.Service, logger logging.Logger) *DeadlineHandler {
	return &DeadlineHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the deadline routes on the API group.
func (h *DeadlineHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/plazos", h.Calculate)
	api.POST("/plazos/alertas", h.Alerts)
	api.POST("/plazos/ical", h.ExportICal)
	api.GET("/festivos/:year", h.Holidays)
	api.GET("/procedimientos", h.Procedures)
}

// Calculate computes every deadline of a notified document.
func (h *DeadlineHandler) Calculate(c *gin.Context) {
	var req deadlines.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.Calculate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Alerts grades the deadlines of a notified document by urgency.
func (h *DeadlineHandler) Alerts(c *gin.Context) {
	var req deadlines.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.Alerts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportICal renders the deadline set as an iCalendar attachment.
func (h *DeadlineHandler) ExportICal(c *gin.Context) {
	var req deadlines.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	data, err := h.svc.ExportICal(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="plazos.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// Holidays lists the official holidays of one year.
func (h *DeadlineHandler) Holidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondError(c, errors.Newf(errors.ErrCodeBadRequest, "invalid year %q", c.Param("year")))
		return
	}

	result, svcErr := h.svc.Holidays(c.Request.Context(), year)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Procedures lists the recognized document types.
func (h *DeadlineHandler) Procedures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"procedures": h.svc.Procedures()})
}
