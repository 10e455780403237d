package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/anthonykurieh/voice-facilitator/internal/database"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/digest"
	"github.com/anthonykurieh/voice-facilitator/internal/pkg/logger"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"
)

// digest runs the morning schedule email for every staff member. With
// DIGEST_RUN_ONCE=1 it sends immediately and exits; otherwise it stays
// up and fires on the cron schedule (07:30 daily by default).
func main() {
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if smtpPort == 0 {
		smtpPort = 587
	}
	mailer := digest.NewSMTPMailer(
		os.Getenv("SMTP_HOST"),
		smtpPort,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
		os.Getenv("EMAIL_USER"),
	)

	businessID := int64(1)
	if v := os.Getenv("BUSINESS_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatal("invalid BUSINESS_ID", zap.String("value", v))
		}
		businessID = id
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	svc := digest.NewService(
		repository.NewAppointmentRepository(db),
		repository.NewStaffRepository(db),
		mailer,
		log,
	)

	if os.Getenv("DIGEST_RUN_ONCE") == "1" {
		if err := svc.SendToday(context.Background(), businessID); err != nil {
			log.Fatal("digest run failed", zap.Error(err))
		}
		return
	}

	spec := os.Getenv("DIGEST_CRON")
	if spec == "" {
		spec = "30 7 * * *"
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if err := svc.SendToday(context.Background(), businessID); err != nil {
			log.Error("digest run failed", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("invalid DIGEST_CRON", zap.String("spec", spec), zap.Error(err))
	}
	c.Start()
	log.Info("digest scheduler started", zap.String("cron", spec))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	<-c.Stop().Done()
}
