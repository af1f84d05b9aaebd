package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docpoint/clinic-scheduler/internal/config"
	"github.com/docpoint/clinic-scheduler/internal/dto"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/httpresp"
	"github.com/docpoint/clinic-scheduler/internal/middleware"
	"github.com/docpoint/clinic-scheduler/internal/timezone"
	ucScheduling "github.com/docpoint/clinic-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	cfg        *config.Config
	loc        *time.Location
	bookUC     *ucScheduling.BookAppointment
	cancelUC   *ucScheduling.CancelAppointment
	completeUC *ucScheduling.CompleteAppointment
	listUC     *ucScheduling.ListAppointments
}

func NewAppointmentHandler(
	cfg *config.Config,
	bookUC *ucScheduling.BookAppointment,
	cancelUC *ucScheduling.CancelAppointment,
	completeUC *ucScheduling.CompleteAppointment,
	listUC *ucScheduling.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		cfg:        cfg,
		loc:        timezone.Location(cfg.DefaultTimezone),
		bookUC:     bookUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
		listUC:     listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	DoctorID uint   `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Notes    string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "validation_error", "Doctor id and date are required.")
		return
	}

	instant, err := timezone.ParseInstant(h.loc, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Date or time is invalid.")
		return
	}

	ap, err := h.bookUC.Execute(c.Request.Context(), ucScheduling.BookAppointmentInput{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Instant:   instant,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(ap))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	apps, err := h.listUC.Execute(c.Request.Context(), ucScheduling.ListAppointmentsInput{
		UserID: userID,
		Limit:  limit,
		Sort:   c.DefaultQuery("sort", "-date"),
	})
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.List(c, dto.FromAppointments(apps))
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), middleware.ActorFrom(c), uint(id))
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}

// ======================================================
// COMPLETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), middleware.ActorFrom(c), uint(id))
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap))
}
