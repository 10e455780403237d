package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

type AppointmentModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	BusinessID      int64     `gorm:"column:business_id;uniqueIndex:idx_no_double_booking"`
	CustomerID      *int64    `gorm:"column:customer_id"`
	StaffID         *int64    `gorm:"column:staff_id;uniqueIndex:idx_no_double_booking"`
	ServiceID       *int64    `gorm:"column:service_id"`
	Date            string    `gorm:"column:date;index:idx_date_time;uniqueIndex:idx_no_double_booking"`
	StartTime       string    `gorm:"column:start_time;index:idx_date_time;uniqueIndex:idx_no_double_booking"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
	Status          string    `gorm:"column:status;index"`
	Notes           string    `gorm:"column:notes;type:text"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (AppointmentModel) TableName() string { return "appointments" }

func toDomainAppointment(m AppointmentModel) *domain.Appointment {
	return &domain.Appointment{
		ID:              m.ID,
		BusinessID:      m.BusinessID,
		CustomerID:      m.CustomerID,
		StaffID:         m.StaffID,
		ServiceID:       m.ServiceID,
		Date:            m.Date,
		StartTime:       m.StartTime,
		DurationMinutes: m.DurationMinutes,
		Status:          domain.AppointmentStatus(m.Status),
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toAppointmentModel(a *domain.Appointment) AppointmentModel {
	return AppointmentModel{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		CustomerID:      a.CustomerID,
		StaffID:         a.StaffID,
		ServiceID:       a.ServiceID,
		Date:            a.Date,
		StartTime:       a.StartTime,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// OccupiedInterval is one scheduled appointment's window on a date,
// expressed in minutes since midnight, half-open.
type OccupiedInterval struct {
	AppointmentID int64
	StaffID       *int64
	StartMinutes  int
	EndMinutes    int
}

// AppointmentDetails is an appointment joined with the names a caller
// needs to read a schedule back to a customer.
type AppointmentDetails struct {
	domain.Appointment
	ServiceName  string `json:"service_name,omitempty"`
	StaffName    string `json:"staff_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

// Create persists a new scheduled appointment. It is the final backstop
// for the scheduling invariants: the closed-day check, the grid check and
// the overlap check all re-run inside the insert transaction, so even a
// caller that skips the booking guard cannot double-book a resource.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	day, err := domain.ParseDate(a.Date)
	if err != nil {
		return &domain.InvalidInputError{Field: "date", Reason: err.Error()}
	}
	start, err := domain.ParseClock(a.StartTime)
	if err != nil {
		return &domain.InvalidInputError{Field: "start_time", Reason: err.Error()}
	}
	if a.DurationMinutes <= 0 {
		return &domain.InvalidInputError{Field: "duration_minutes", Reason: "must be positive"}
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hours domain.BusinessHours
		hoursQ := tx.Where("business_id = ? AND day_of_week = ?", a.BusinessID, domain.DayOfWeek(day))
		if tx.Dialector.Name() == "postgres" {
			// Locking the hours row serializes every insert for this
			// business day. Locking the appointment rows alone is not
			// enough under READ COMMITTED: two transactions on an empty
			// day both see zero rows and both insert.
			hoursQ = hoursQ.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		findErr := hoursQ.First(&hours).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return &domain.ClosedDayError{DayName: domain.DayName(domain.DayOfWeek(day))}
		}
		if findErr != nil {
			return findErr
		}
		if !hours.Bookable() {
			return &domain.ClosedDayError{DayName: domain.DayName(hours.DayOfWeek)}
		}

		open, _ := domain.ParseClock(hours.OpenTime)
		closeAt, _ := domain.ParseClock(hours.CloseTime)
		if start < open || (start-open)%domain.SlotGridMinutes != 0 {
			return &domain.InvalidInputError{Field: "start_time", Reason: "not on the booking grid"}
		}
		if start+a.DurationMinutes > closeAt {
			return &domain.InvalidInputError{Field: "start_time", Reason: "extends past closing time"}
		}

		occupied, lockErr := lockScheduled(tx, a.BusinessID, a.Date, a.StaffID)
		if lockErr != nil {
			return lockErr
		}
		end := start + a.DurationMinutes
		for _, o := range occupied {
			if domain.Overlaps(start, end, o.StartMinutes, o.EndMinutes) {
				return &domain.SlotConflictError{
					ConflictingID: o.AppointmentID,
					Date:          a.Date,
					StartTime:     a.StartTime,
				}
			}
		}

		m := toAppointmentModel(a)
		m.Status = string(domain.AppointmentScheduled)
		if createErr := tx.Create(&m).Error; createErr != nil {
			var pgErr *pgconn.PgError
			if errors.As(createErr, &pgErr) && pgErr.Code == "23505" {
				return &domain.SlotConflictError{Date: a.Date, StartTime: a.StartTime}
			}
			return createErr
		}
		*a = *toDomainAppointment(m)
		return nil
	})
	return wrapStoreErr("create appointment", err)
}

// lockScheduled fetches the scheduled appointments that share the requested
// resource on a date, row-locked on postgres so a concurrent cancel cannot
// free a row while the overlap check runs. Serialization against concurrent
// inserts comes from the business_hours lock taken in Create. A nil staff
// filter means the whole day (every resource, the unassigned pool included);
// a concrete staff id also picks up unassigned rows, which block everyone.
func lockScheduled(tx *gorm.DB, businessID int64, date string, staffID *int64) ([]OccupiedInterval, error) {
	q := tx.Model(&AppointmentModel{}).
		Where("business_id = ? AND date = ? AND status = ?", businessID, date, domain.AppointmentScheduled)
	if staffID != nil {
		q = q.Where("staff_id = ? OR staff_id IS NULL", *staffID)
	}
	if tx.Dialector.Name() == "postgres" {
		// sqlite serializes writers on its own, FOR UPDATE is postgres-only
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []AppointmentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]OccupiedInterval, 0, len(rows))
	for _, row := range rows {
		s, err := domain.ParseClock(row.StartTime)
		if err != nil {
			continue
		}
		out = append(out, OccupiedInterval{
			AppointmentID: row.ID,
			StaffID:       row.StaffID,
			StartMinutes:  s,
			EndMinutes:    s + row.DurationMinutes,
		})
	}
	return out, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var m AppointmentModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, wrapStoreErr("get appointment", err)
	}
	return toDomainAppointment(m), nil
}

// Cancel marks a scheduled appointment cancelled. It reports false when the
// appointment does not exist or is already in a terminal state; terminal
// states are never reopened.
func (r *AppointmentRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Where("id = ? AND status = ?", id, domain.AppointmentScheduled).
		Update("status", string(domain.AppointmentCancelled))
	if tx.Error != nil {
		return false, wrapStoreErr("cancel appointment", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// GetSlotsRaw returns the occupied intervals for a date, ordered by start
// time. The staff filter follows the booking conflict rule: a concrete
// staff id includes unassigned rows, nil means every resource.
func (r *AppointmentRepository) GetSlotsRaw(ctx context.Context, businessID int64, date string, staffID *int64) ([]OccupiedInterval, error) {
	q := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Where("business_id = ? AND date = ? AND status = ?", businessID, date, domain.AppointmentScheduled).
		Order("start_time")
	if staffID != nil {
		q = q.Where("staff_id = ? OR staff_id IS NULL", *staffID)
	}

	var rows []AppointmentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, wrapStoreErr("list occupied slots", err)
	}
	out := make([]OccupiedInterval, 0, len(rows))
	for _, row := range rows {
		s, err := domain.ParseClock(row.StartTime)
		if err != nil {
			continue
		}
		out = append(out, OccupiedInterval{
			AppointmentID: row.ID,
			StaffID:       row.StaffID,
			StartMinutes:  s,
			EndMinutes:    s + row.DurationMinutes,
		})
	}
	return out, nil
}

// GetForCustomer lists a customer's appointments ordered by date then time,
// optionally restricted to upcoming scheduled ones.
func (r *AppointmentRepository) GetForCustomer(ctx context.Context, customerID int64, upcomingOnly bool) ([]AppointmentDetails, error) {
	q := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Select("appointments.*, services.name AS service_name, staff.name AS staff_name").
		Joins("LEFT JOIN services ON services.id = appointments.service_id").
		Joins("LEFT JOIN staff ON staff.id = appointments.staff_id").
		Where("appointments.customer_id = ?", customerID)
	if upcomingOnly {
		today := time.Now().Format(domain.DateLayout)
		q = q.Where("appointments.date >= ? AND appointments.status = ?", today, domain.AppointmentScheduled)
	}
	q = q.Order("appointments.date, appointments.start_time")

	var rows []struct {
		AppointmentModel
		ServiceName *string
		StaffName   *string
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, wrapStoreErr("list customer appointments", err)
	}

	out := make([]AppointmentDetails, 0, len(rows))
	for _, row := range rows {
		d := AppointmentDetails{Appointment: *toDomainAppointment(row.AppointmentModel)}
		if row.ServiceName != nil {
			d.ServiceName = *row.ServiceName
		}
		if row.StaffName != nil {
			d.StaffName = *row.StaffName
		}
		out = append(out, d)
	}
	return out, nil
}

// GetForStaffOnDate lists one staff member's scheduled appointments on a
// date, joined with customer and service names, for the daily digest.
func (r *AppointmentRepository) GetForStaffOnDate(ctx context.Context, staffID int64, date string) ([]AppointmentDetails, error) {
	var rows []struct {
		AppointmentModel
		ServiceName  *string
		CustomerName *string
	}
	err := r.db.WithContext(ctx).Model(&AppointmentModel{}).
		Select("appointments.*, services.name AS service_name, customers.name AS customer_name").
		Joins("LEFT JOIN services ON services.id = appointments.service_id").
		Joins("LEFT JOIN customers ON customers.id = appointments.customer_id").
		Where("appointments.staff_id = ? AND appointments.date = ? AND appointments.status = ?",
			staffID, date, domain.AppointmentScheduled).
		Order("appointments.start_time").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStoreErr("list staff appointments", err)
	}

	out := make([]AppointmentDetails, 0, len(rows))
	for _, row := range rows {
		d := AppointmentDetails{Appointment: *toDomainAppointment(row.AppointmentModel)}
		if row.ServiceName != nil {
			d.ServiceName = *row.ServiceName
		}
		if row.CustomerName != nil {
			d.CustomerName = *row.CustomerName
		}
		out = append(out, d)
	}
	return out, nil
}
