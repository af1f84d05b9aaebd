package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/httpresp"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

type StatsHandler struct {
	db *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{db: db}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	var totalPatients int64
	if err := h.db.Model(&models.User{}).
		Where("role = ?", models.RolePatient).
		Count(&totalPatients).Error; err != nil {
		httperr.Internal(c, "failed_to_load_stats", "Could not load statistics.")
		return
	}

	var totalDoctors int64
	h.db.Model(&models.Doctor{}).Count(&totalDoctors)

	var totalAppointments int64
	h.db.Model(&models.Appointment{}).Count(&totalAppointments)

	var upcoming int64
	h.db.Model(&models.Appointment{}).
		Where("start_time >= ? AND status != ?", time.Now(), string(domain.StatusCancelled)).
		Count(&upcoming)

	var completed int64
	h.db.Model(&models.Appointment{}).
		Where("status = ?", string(domain.StatusCompleted)).
		Count(&completed)

	httpresp.OK(c, gin.H{
		"total_patients":         totalPatients,
		"available_doctors":      totalDoctors,
		"total_appointments":     totalAppointments,
		"upcoming_appointments":  upcoming,
		"completed_appointments": completed,
	})
}

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func (h *StatsHandler) Appointments(c *gin.Context) {
	var rows []statusCount
	if err := h.db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_load_stats", "Could not load statistics.")
		return
	}

	httpresp.List(c, rows)
}

type roleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

func (h *StatsHandler) Users(c *gin.Context) {
	var rows []roleCount
	if err := h.db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_load_stats", "Could not load statistics.")
		return
	}

	httpresp.List(c, rows)
}

type doctorStats struct {
	DoctorID          uint   `json:"doctor_id"`
	Name              string `json:"name"`
	Specialization    string `json:"specialization"`
	TotalAppointments int64  `json:"total_appointments"`
}

func (h *StatsHandler) Doctors(c *gin.Context) {
	var rows []doctorStats
	err := h.db.Model(&models.Doctor{}).
		Select(`doctors.id AS doctor_id,
		        users.name AS name,
		        doctors.specialization AS specialization,
		        COUNT(appointments.id) AS total_appointments`).
		Joins("LEFT JOIN users ON users.id = doctors.user_id").
		Joins("LEFT JOIN appointments ON appointments.doctor_id = doctors.id").
		Group("doctors.id, users.name, doctors.specialization").
		Scan(&rows).Error
	if err != nil {
		httperr.Internal(c, "failed_to_load_stats", "Could not load statistics.")
		return
	}

	httpresp.List(c, rows)
}
