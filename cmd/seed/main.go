package main

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/anthonykurieh/voice-facilitator/internal/config"
	"github.com/anthonykurieh/voice-facilitator/internal/database"
	"github.com/anthonykurieh/voice-facilitator/internal/domain"
	"github.com/anthonykurieh/voice-facilitator/internal/pkg/logger"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"
)

// seed mirrors the business YAML into the store: business row, weekly
// hours, service catalog and staff roster. Safe to run repeatedly;
// existing rows are updated in place.
func main() {
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	cfgPath := os.Getenv("BUSINESS_CONFIG")
	if cfgPath == "" {
		cfgPath = "business.yaml"
	}

	businessID := int64(1)
	if v := os.Getenv("BUSINESS_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatal("invalid BUSINESS_ID", zap.String("value", v))
		}
		businessID = id
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("business config rejected", zap.String("path", cfgPath), zap.Error(err))
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()

	businessRepo := repository.NewBusinessRepository(db)
	hoursRepo := repository.NewBusinessHoursRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	staffRepo := repository.NewStaffRepository(db)

	business := &domain.Business{
		ID:       businessID,
		Name:     cfg.Business.Name,
		Type:     cfg.Business.Type,
		Phone:    cfg.Business.Phone,
		Timezone: cfg.Business.Timezone,
	}
	if err := businessRepo.Ensure(ctx, business); err != nil {
		log.Fatal("business sync failed", zap.Error(err))
	}

	if err := hoursRepo.Mirror(ctx, cfg.HoursRows(businessID)); err != nil {
		log.Fatal("hours sync failed", zap.Error(err))
	}
	if err := serviceRepo.Mirror(ctx, cfg.ServiceRows(businessID)); err != nil {
		log.Fatal("service sync failed", zap.Error(err))
	}
	if err := staffRepo.Mirror(ctx, cfg.StaffRows(businessID)); err != nil {
		log.Fatal("staff sync failed", zap.Error(err))
	}

	log.Info("business config mirrored",
		zap.Int64("business_id", businessID),
		zap.String("name", cfg.Business.Name),
		zap.Int("services", len(cfg.Services)),
		zap.Int("staff", len(cfg.Staff)))
}
