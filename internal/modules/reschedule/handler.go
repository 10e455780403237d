package reschedule

import (
	"errors"
	"net/http"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/booking"
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
	rg.POST("/appointments/reschedule", h.Reschedule)
}

func (h *Handler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.BusinessID == 0 {
		req.BusinessID = 1
	}

	outcome, err := h.service.Reschedule(c.Request.Context(), req)
	if err != nil {
		writeRescheduleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

func writeRescheduleError(c *gin.Context, err error) {
	var (
		closed      *domain.ClosedDayError
		invalid     *domain.InvalidInputError
		unavailable *booking.SlotUnavailableError
		partial     *PartialRescheduleError
		storeDown   *domain.StoreUnavailableError
	)
	switch {
	case errors.As(err, &partial):
		// Not plain failure either: the new slot is booked, the old one
		// needs manual reconciliation.
		response.ErrorWithDetails(c, http.StatusConflict, "PARTIAL_RESCHEDULE",
			partial.Error(), gin.H{
				"old_appointment_id": partial.OldAppointmentID,
				"new_appointment_id": partial.NewAppointmentID,
			})
	case errors.As(err, &closed):
		response.ErrorWithDetails(c, http.StatusConflict, "CLOSED_DAY",
			closed.Error(), gin.H{"day_name": closed.DayName})
	case errors.As(err, &unavailable):
		response.ErrorWithDetails(c, http.StatusConflict, "SLOT_UNAVAILABLE",
			unavailable.Error(), gin.H{
				"requested_time":  unavailable.RequestedTime,
				"available_slots": unavailable.AvailableSlots,
			})
	case errors.As(err, &invalid):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", invalid.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &storeDown):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Persistence layer unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reschedule appointment")
	}
}
