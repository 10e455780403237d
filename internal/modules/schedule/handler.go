package schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultDurationMinutes = 30

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.GetAvailability)
}

// GetAvailability handles GET /availability?date=&staff_id=&duration_minutes=
func (h *Handler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date is required")
		return
	}

	businessID := int64(1)
	if v := c.Query("business_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid business_id")
			return
		}
		businessID = id
	}

	var staffID *int64
	if v := c.Query("staff_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid staff_id")
			return
		}
		staffID = &id
	}

	duration := defaultDurationMinutes
	if v := c.Query("duration_minutes"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid duration_minutes")
			return
		}
		duration = d
	}

	day, err := h.service.AvailableSlots(c.Request.Context(), businessID, date, staffID, duration)
	if err != nil {
		var invalid *domain.InvalidInputError
		if errors.As(err, &invalid) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", invalid.Error())
			return
		}
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Failed to compute availability")
		return
	}

	response.Success(c, http.StatusOK, day)
}
