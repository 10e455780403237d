package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

/* ==================== HELPERS ==================== */

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: ":memory:"}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	// One connection keeps the in-memory database alive across queries.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Business{},
		&domain.BusinessHours{},
		&domain.Service{},
		&domain.Staff{},
		&domain.Customer{},
		&AppointmentModel{},
	))
	return db
}

// seedWeek opens Monday through Saturday 09:00-17:00 and closes Sunday.
func seedWeek(t *testing.T, db *gorm.DB, businessID int64) {
	t.Helper()
	for day := 0; day < 6; day++ {
		require.NoError(t, db.Create(&domain.BusinessHours{
			BusinessID: businessID, DayOfWeek: day, OpenTime: "09:00", CloseTime: "17:00",
		}).Error)
	}
	require.NoError(t, db.Create(&domain.BusinessHours{
		BusinessID: businessID, DayOfWeek: 6, IsClosed: true,
	}).Error)
}

func mustBook(t *testing.T, repo *AppointmentRepository, a *domain.Appointment) *domain.Appointment {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), a))
	require.NotZero(t, a.ID)
	return a
}

func ptr(v int64) *int64 { return &v }

// monday is a Monday in the far future so upcoming-only queries stay stable.
const monday = "2030-01-07"

/* ==================== TESTS ==================== */

func TestCreateAndGet(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	a := mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})
	assert.Equal(t, domain.AppointmentScheduled, a.Status)

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, monday, got.Date)
	assert.Equal(t, "10:00", got.StartTime)
	assert.Equal(t, 30, got.DurationMinutes)
}

func TestCreateRejectsExactDouble(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	first := mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})

	err := repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})
	var conflict *domain.SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.ConflictingID)
}

func TestCreateRejectsPartialOverlap(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 60,
	})

	// 10:45 starts inside the 10:00-11:00 window.
	err := repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:45", DurationMinutes: 30,
	})
	var conflict *domain.SlotConflictError
	assert.ErrorAs(t, err, &conflict)

	// Back to back at 11:00 is fine; intervals are half-open.
	assert.NoError(t, repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "11:00", DurationMinutes: 30,
	}))
}

// raceCreate fires both bookings from separate goroutines. The single
// connection of the in-memory database forces the two transactions to run
// one after the other, the same serialization the hours-row lock gives on
// postgres.
func raceCreate(t *testing.T, repo *AppointmentRepository, a, b domain.Appointment) []error {
	t.Helper()
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, appt := range []domain.Appointment{a, b} {
		wg.Add(1)
		go func(i int, appt domain.Appointment) {
			defer wg.Done()
			errs[i] = repo.Create(context.Background(), &appt)
		}(i, appt)
	}
	wg.Wait()
	return errs
}

// assertOneWinner expects exactly one booking to land and the loser to get
// a slot conflict, with a single scheduled row surviving.
func assertOneWinner(t *testing.T, db *gorm.DB, errs []error) {
	t.Helper()
	var won int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		var conflict *domain.SlotConflictError
		require.ErrorAs(t, err, &conflict)
	}
	assert.Equal(t, 1, won)

	var count int64
	require.NoError(t, db.Model(&AppointmentModel{}).
		Where("status = ?", domain.AppointmentScheduled).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateConcurrentIdenticalSlot(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	errs := raceCreate(t, repo,
		domain.Appointment{BusinessID: 1, StaffID: ptr(5), Date: monday, StartTime: "10:00", DurationMinutes: 30},
		domain.Appointment{BusinessID: 1, StaffID: ptr(5), Date: monday, StartTime: "10:00", DurationMinutes: 30},
	)
	assertOneWinner(t, db, errs)
}

func TestCreateConcurrentOverlappingStarts(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	// Distinct start times, so the unique index alone would let both in.
	errs := raceCreate(t, repo,
		domain.Appointment{BusinessID: 1, StaffID: ptr(5), Date: monday, StartTime: "10:00", DurationMinutes: 60},
		domain.Appointment{BusinessID: 1, StaffID: ptr(5), Date: monday, StartTime: "10:30", DurationMinutes: 30},
	)
	assertOneWinner(t, db, errs)
}

func TestCreateConcurrentUnassigned(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	// NULL staff ids never collide in the unique index, so only the
	// transactional re-check keeps the unassigned pool single-booked.
	errs := raceCreate(t, repo,
		domain.Appointment{BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30},
		domain.Appointment{BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30},
	)
	assertOneWinner(t, db, errs)
}

func TestCreateStaffIsolation(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, StaffID: ptr(1), Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})

	// Another staff member is a different resource.
	assert.NoError(t, repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, StaffID: ptr(2), Date: monday, StartTime: "10:00", DurationMinutes: 30,
	}))

	// The same staff member at the same time is not.
	err := repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, StaffID: ptr(1), Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})
	var conflict *domain.SlotConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestCreateUnassignedBlocksEveryStaff(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})

	// An unassigned booking holds the whole shop, so a staff-specific
	// request for the same window conflicts.
	err := repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, StaffID: ptr(1), Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})
	var conflict *domain.SlotConflictError
	assert.ErrorAs(t, err, &conflict)

	// And an unassigned request conflicts with any staff-assigned row.
	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, StaffID: ptr(2), Date: monday, StartTime: "14:00", DurationMinutes: 30,
	})
	err = repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "14:00", DurationMinutes: 30,
	})
	assert.ErrorAs(t, err, &conflict)
}

func TestCreateClosedDay(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	// 2030-01-06 is a Sunday.
	err := repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: "2030-01-06", StartTime: "10:00", DurationMinutes: 30,
	})
	var closed *domain.ClosedDayError
	require.ErrorAs(t, err, &closed)
	assert.Equal(t, "Sunday", closed.DayName)
}

func TestCreateEnforcesGridAndHours(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)
	var invalid *domain.InvalidInputError

	err := repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:07", DurationMinutes: 30,
	})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "start_time", invalid.Field)

	err = repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "08:45", DurationMinutes: 30,
	})
	assert.ErrorAs(t, err, &invalid)

	err = repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "16:45", DurationMinutes: 30,
	})
	assert.ErrorAs(t, err, &invalid)

	// Ending exactly at closing is allowed.
	assert.NoError(t, repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "16:30", DurationMinutes: 30,
	}))
}

func TestCancelIsTerminal(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	a := mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})

	done, err := repo.Cancel(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, done)

	// A cancelled appointment stays cancelled.
	done, err = repo.Cancel(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, done)

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentCancelled, got.Status)
}

func TestCancelFreesTheSlot(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)

	a := mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})

	done, err := repo.Cancel(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, done)

	assert.NoError(t, repo.Create(context.Background(), &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	}))
}

func TestGetSlotsRawStaffFilter(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)
	ctx := context.Background()

	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, StaffID: ptr(1), Date: monday, StartTime: "09:00", DurationMinutes: 30,
	})
	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, StaffID: ptr(2), Date: monday, StartTime: "09:00", DurationMinutes: 30,
	})
	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, Date: monday, StartTime: "12:00", DurationMinutes: 30,
	})

	all, err := repo.GetSlotsRaw(ctx, 1, monday, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Staff 1 sees their own booking plus the unassigned one.
	forStaff, err := repo.GetSlotsRaw(ctx, 1, monday, ptr(1))
	require.NoError(t, err)
	require.Len(t, forStaff, 2)
	assert.Equal(t, 540, forStaff[0].StartMinutes)
	assert.Equal(t, 720, forStaff[1].StartMinutes)
}

func TestCustomerUpsertFillsBlanksOnly(t *testing.T) {
	db := testDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, 1, "+15550100", "", "")
	require.NoError(t, err)

	// A later call fills in the missing name.
	second, err := repo.Upsert(ctx, 1, "+15550100", "Dana", "dana@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByPhone(ctx, 1, "+15550100")
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.Name)
	assert.Equal(t, "dana@example.com", got.Email)

	// But never overwrites what the customer already told us.
	_, err = repo.Upsert(ctx, 1, "+15550100", "Someone Else", "other@example.com")
	require.NoError(t, err)
	got, err = repo.GetByPhone(ctx, 1, "+15550100")
	require.NoError(t, err)
	assert.Equal(t, "Dana", got.Name)
	assert.Equal(t, "dana@example.com", got.Email)
}

func TestGetForCustomerUpcoming(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)
	customers := NewCustomerRepository(db)
	ctx := context.Background()

	customer, err := customers.Upsert(ctx, 1, "+15550100", "Dana", "")
	require.NoError(t, err)

	later := mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, CustomerID: &customer.ID, Date: "2030-01-08", StartTime: "14:00", DurationMinutes: 30,
	})
	sooner := mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, CustomerID: &customer.ID, Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})
	cancelled := mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, CustomerID: &customer.ID, Date: monday, StartTime: "11:00", DurationMinutes: 30,
	})
	done, err := repo.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)
	require.True(t, done)

	upcoming, err := repo.GetForCustomer(ctx, customer.ID, true)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, sooner.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)
}

func TestGetForStaffOnDateJoinsNames(t *testing.T) {
	db := testDB(t)
	seedWeek(t, db, 1)
	repo := NewAppointmentRepository(db)
	customers := NewCustomerRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.Staff{BusinessID: 1, Name: "Riley", Available: true}).Error)
	require.NoError(t, db.Create(&domain.Service{BusinessID: 1, Name: "Haircut", DurationMinutes: 30, Active: true}).Error)
	var staff domain.Staff
	require.NoError(t, db.Where("name = ?", "Riley").First(&staff).Error)
	var service domain.Service
	require.NoError(t, db.Where("name = ?", "Haircut").First(&service).Error)

	customer, err := customers.Upsert(ctx, 1, "+15550100", "Dana", "")
	require.NoError(t, err)

	mustBook(t, repo, &domain.Appointment{
		BusinessID: 1, CustomerID: &customer.ID, StaffID: &staff.ID, ServiceID: &service.ID,
		Date: monday, StartTime: "10:00", DurationMinutes: 30,
	})

	day, err := repo.GetForStaffOnDate(ctx, staff.ID, monday)
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "Haircut", day[0].ServiceName)
	assert.Equal(t, "Dana", day[0].CustomerName)
}
