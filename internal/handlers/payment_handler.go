package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/docpoint/clinic-scheduler/internal/config"
	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/httpresp"
	"github.com/docpoint/clinic-scheduler/internal/middleware"
	"github.com/docpoint/clinic-scheduler/internal/models"
	"github.com/docpoint/clinic-scheduler/internal/payments"
)

type PaymentHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	checkout *payments.Checkout
}

func NewPaymentHandler(db *gorm.DB, cfg *config.Config, checkout *payments.Checkout) *PaymentHandler {
	return &PaymentHandler{db: db, cfg: cfg, checkout: checkout}
}

// CreateForAppointment issues a checkout link for the consultation fee of
// one of the caller's scheduled appointments.
func (h *PaymentHandler) CreateForAppointment(c *gin.Context) {
	if !h.checkout.Enabled() {
		httperr.Write(c, http.StatusServiceUnavailable, "payments_not_configured", "Payments are not configured.")
		return
	}

	patientID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	var ap models.Appointment
	if err := h.db.
		Preload("Doctor").
		Preload("Doctor.User").
		First(&ap, uint(id)).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	if ap.PatientID != patientID {
		httperr.Forbidden(c, "not_authorized", "Not your appointment.")
		return
	}
	if ap.Status != string(domain.StatusScheduled) {
		httperr.Conflict(c, "invalid_state", "Only scheduled appointments can be paid.")
		return
	}

	link, err := h.checkout.CreateForAppointment(c.Request.Context(), &ap, &ap.Doctor)
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.Created(c, link)
}
