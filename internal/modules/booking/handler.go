package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"
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
	rg.POST("/appointments", h.BookAppointment)
	rg.POST("/appointments/cancel", h.CancelAppointment)
	rg.GET("/appointments", h.ListAppointments)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.BusinessID == 0 {
		req.BusinessID = 1
	}

	appt, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"appointment": gin.H{
			"id":         appt.ID,
			"date":       appt.Date,
			"start_time": appt.StartTime,
			"status":     appt.Status,
		},
	})
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	switch {
	case req.AppointmentID != 0:
		if err := h.service.Cancel(c.Request.Context(), req.AppointmentID); err != nil {
			writeBookingError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"cancelled_appointment_id": req.AppointmentID})
	case req.CustomerPhone != "":
		id, err := h.service.CancelNextForPhone(c.Request.Context(), int64(1), req.CustomerPhone)
		if err != nil {
			writeBookingError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"cancelled_appointment_id": id})
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "appointment_id or customer_phone required")
	}
}

// ListAppointments handles GET /appointments?customer_phone=
func (h *Handler) ListAppointments(c *gin.Context) {
	phone := c.Query("customer_phone")
	if phone == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer_phone is required")
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

	appts, err := h.service.UpcomingForPhone(c.Request.Context(), businessID, phone)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"appointments": appts})
}

func writeBookingError(c *gin.Context, err error) {
	var (
		closed      *domain.ClosedDayError
		invalid     *domain.InvalidInputError
		unavailable *SlotUnavailableError
		storeDown   *domain.StoreUnavailableError
	)
	switch {
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
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCustomerNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.As(err, &storeDown):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Persistence layer unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process appointment request")
	}
}
