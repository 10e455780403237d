package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/anthonykurieh/voice-facilitator/internal/config"
	"github.com/anthonykurieh/voice-facilitator/internal/database"
	"github.com/anthonykurieh/voice-facilitator/internal/middleware"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/auth"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/booking"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/catalog"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/notification"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/reschedule"
	"github.com/anthonykurieh/voice-facilitator/internal/modules/schedule"
	jwtsvc "github.com/anthonykurieh/voice-facilitator/internal/pkg/jwt"
	"github.com/anthonykurieh/voice-facilitator/internal/pkg/logger"
	"github.com/anthonykurieh/voice-facilitator/internal/repository"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	defer log.Sync()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal("runtime config rejected", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	appointmentRepo := repository.NewAppointmentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	hoursRepo := repository.NewBusinessHoursRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := notification.NewHub(log)
	wsHandler := notification.NewHandler(hub, j, log)

	authService := auth.NewService(cfg.AdminEmail, cfg.AdminPasswordHash, j)
	authHandler := auth.NewHandler(authService)

	calendar := schedule.NewCalendar(hoursRepo)
	scheduleService := schedule.NewService(calendar, appointmentRepo, log)
	scheduleHandler := schedule.NewHandler(scheduleService)

	bookingService := booking.NewService(
		appointmentRepo,
		customerRepo,
		serviceRepo,
		staffRepo,
		scheduleService,
		hub,
		log,
	)
	bookingHandler := booking.NewHandler(bookingService)

	rescheduleService := reschedule.NewService(
		bookingService,
		appointmentRepo,
		customerRepo,
		scheduleService,
		hub,
		log,
	)
	rescheduleHandler := reschedule.NewHandler(rescheduleService)

	catalogService := catalog.NewService(serviceRepo, staffRepo, hoursRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	wsHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
		scheduleHandler.RegisterRoutes(v1)

		// protected (appointment mutations and listings)
		protected := v1.Group("/")
		protected.Use(authMiddleware(j))
		{
			bookingHandler.RegisterRoutes(protected)
			rescheduleHandler.RegisterRoutes(protected)
		}
	}

	log.Info("api listening", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func authMiddleware(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing Authorization header",
				},
			})
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid Authorization header",
				},
			})
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Empty token",
				},
			})
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid token",
				},
			})
			return
		}

		c.Set("subject", claims.Subject)
		c.Set("role", claims.Role)

		c.Next()
	}
}
