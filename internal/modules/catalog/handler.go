package catalog

import (
	"net/http"
	"strconv"

	"github.com/anthonykurieh/voice-facilitator/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.GetServices)
	rg.GET("/staff", h.GetStaff)
	rg.GET("/hours", h.GetHours)
}

func businessIDFromQuery(c *gin.Context) (int64, bool) {
	if v := c.Query("business_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid business_id")
			return 0, false
		}
		return id, true
	}
	return 1, true
}

func (h *Handler) GetServices(c *gin.Context) {
	businessID, ok := businessIDFromQuery(c)
	if !ok {
		return
	}
	services, err := h.service.ListServices(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Failed to list services")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) GetStaff(c *gin.Context) {
	businessID, ok := businessIDFromQuery(c)
	if !ok {
		return
	}
	staff, err := h.service.ListStaff(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Failed to list staff")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"staff": staff})
}

func (h *Handler) GetHours(c *gin.Context) {
	businessID, ok := businessIDFromQuery(c)
	if !ok {
		return
	}
	hours, err := h.service.WeeklyHours(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Failed to list business hours")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hours": hours})
}
