package database

import (
	"log"
	"strings"

	"github.com/anthonykurieh/voice-facilitator/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates or updates the scheduling schema. Extra models (such as
// the repository's appointment model, which carries the no-double-booking
// unique index) can be appended by the caller.
func Migrate(db *gorm.DB, extra ...any) error {
	base := []any{
		&domain.Business{},
		&domain.BusinessHours{},
		&domain.Service{},
		&domain.Staff{},
		&domain.Customer{},
	}
	return db.AutoMigrate(append(base, extra...)...)
}
