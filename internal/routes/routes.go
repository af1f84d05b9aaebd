package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/docpoint/clinic-scheduler/internal/audit"
	"github.com/docpoint/clinic-scheduler/internal/config"
	"github.com/docpoint/clinic-scheduler/internal/handlers"
	infraRepo "github.com/docpoint/clinic-scheduler/internal/infra/repository"
	"github.com/docpoint/clinic-scheduler/internal/middleware"
	"github.com/docpoint/clinic-scheduler/internal/models"
	"github.com/docpoint/clinic-scheduler/internal/notify"
	"github.com/docpoint/clinic-scheduler/internal/payments"
	"github.com/docpoint/clinic-scheduler/internal/storage"
	"github.com/docpoint/clinic-scheduler/internal/timezone"
	ucScheduling "github.com/docpoint/clinic-scheduler/internal/usecase/scheduling"
)

const (
	adminRateMax    = 100
	adminRateWindow = 15 * time.Minute
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	mailDispatcher := notify.NewDispatcher(notify.NewMailer(cfg))

	avatarStore := storage.NewAvatarStore(cfg)

	checkout, err := payments.NewCheckout(cfg)
	if err != nil {
		// bad credentials; the payment route answers 503 until fixed
		checkout = nil
	}

	clinicLoc := timezone.Location(cfg.DefaultTimezone)

	// ======================================================
	// USE CASES — SCHEDULING
	// ======================================================
	addAvailabilityUC := ucScheduling.NewAddAvailability(
		schedulingRepo,
		auditDispatcher,
		clinicLoc,
	)

	getSlotsUC := ucScheduling.NewGetAvailableSlots(schedulingRepo)

	bookUC := ucScheduling.NewBookAppointment(
		schedulingRepo,
		auditDispatcher,
		mailDispatcher,
	)

	cancelUC := ucScheduling.NewCancelAppointment(
		schedulingRepo,
		auditDispatcher,
	)

	completeUC := ucScheduling.NewCompleteAppointment(
		schedulingRepo,
		auditDispatcher,
	)

	listUC := ucScheduling.NewListAppointments(schedulingRepo)

	cancelUserAppointmentsUC := ucScheduling.NewCancelUserAppointments(
		schedulingRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	avatarHandler := handlers.NewAvatarHandler(db, avatarStore)
	medicalHistoryHandler := handlers.NewMedicalHistoryHandler(db)

	doctorHandler := handlers.NewDoctorHandler(db, cfg, addAvailabilityUC, getSlotsUC)
	appointmentHandler := handlers.NewAppointmentHandler(cfg, bookUC, cancelUC, completeUC, listUC)

	adminHandler := handlers.NewAdminHandler(db, cfg, cancelUserAppointmentsUC)
	statsHandler := handlers.NewStatsHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, cfg, checkout)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH (public)
		// ------------------------------
		api.POST("/users/register", authHandler.Register)
		api.POST("/users/login", authHandler.Login)

		// ------------------------------
		// DOCTORS (public reads)
		// ------------------------------
		api.GET("/doctors", doctorHandler.List)
		api.GET("/doctors/:id", doctorHandler.Get)

		// a static "search" segment cannot live beside the :id wildcard
		// in gin's route tree, so the search endpoint gets its own prefix
		api.GET("/search/doctors", doctorHandler.Search)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/users/me", meHandler.GetMe)
			secured.PUT("/users/profile", meHandler.UpdateProfile)
			secured.POST("/me/avatar", avatarHandler.Upload)
			secured.GET("/me/medical-history", medicalHistoryHandler.Get)
			secured.PUT("/me/medical-history", medicalHistoryHandler.Put)

			// slots + availability
			secured.GET("/doctors/:id/slots", doctorHandler.GetSlots)
			secured.POST("/doctors/:id/availability", doctorHandler.AddAvailability)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			secured.POST("/payments/appointments/:id", paymentHandler.CreateForAppointment)

			secured.GET("/stats/dashboard", statsHandler.Dashboard)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(
				middleware.RateLimiter(rdb, adminRateMax, adminRateWindow),
				middleware.RequireRole(models.RoleAdmin),
			)
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/users/:id", adminHandler.GetUser)
				admin.PUT("/users/:id", adminHandler.UpdateUser)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)

				admin.GET("/dashboard", adminHandler.Dashboard)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}

			adminStats := secured.Group("/stats")
			adminStats.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminStats.GET("/appointments", statsHandler.Appointments)
				adminStats.GET("/users", statsHandler.Users)
				adminStats.GET("/doctors", statsHandler.Doctors)
			}

			// doctor creation is admin-only and rate limited like the rest
			// of the admin surface
			adminDoctors := secured.Group("/doctors")
			adminDoctors.Use(
				middleware.RateLimiter(rdb, adminRateMax, adminRateWindow),
				middleware.RequireRole(models.RoleAdmin),
			)
			{
				adminDoctors.POST("", doctorHandler.Create)
			}
		}
	}
}
