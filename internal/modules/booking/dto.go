package booking

// BookAppointmentRequest is the guard's input. Duration resolution order:
// explicit value, then the service's default, then 30 minutes.
type BookAppointmentRequest struct {
	BusinessID      int64  `json:"business_id"`
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes"`
	StaffID         *int64 `json:"staff_id"`
	ServiceID       *int64 `json:"service_id"`
	CustomerID      *int64 `json:"customer_id"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	Notes           string `json:"notes"`
}

type CancelAppointmentRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	CustomerPhone string `json:"customer_phone"`
}
