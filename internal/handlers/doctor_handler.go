package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/docpoint/clinic-scheduler/internal/config"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/httpresp"
	"github.com/docpoint/clinic-scheduler/internal/middleware"
	"github.com/docpoint/clinic-scheduler/internal/models"
	ucScheduling "github.com/docpoint/clinic-scheduler/internal/usecase/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/validators"
)

const minConsultationFee = 50

// ======================================================
// HANDLER
// ======================================================

type DoctorHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	addUC   *ucScheduling.AddAvailability
	slotsUC *ucScheduling.GetAvailableSlots
}

func NewDoctorHandler(
	db *gorm.DB,
	cfg *config.Config,
	addUC *ucScheduling.AddAvailability,
	slotsUC *ucScheduling.GetAvailableSlots,
) *DoctorHandler {
	return &DoctorHandler{
		db:      db,
		cfg:     cfg,
		addUC:   addUC,
		slotsUC: slotsUC,
	}
}

// ======================================================
// PUBLIC READS
// ======================================================

func (h *DoctorHandler) List(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.db.Preload("User").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Could not list doctors.")
		return
	}

	httpresp.List(c, doctors)
}

func (h *DoctorHandler) Search(c *gin.Context) {
	q := h.db.Preload("User").
		Joins("LEFT JOIN users ON users.id = doctors.user_id")

	if spec := c.Query("specialization"); spec != "" {
		q = q.Where("doctors.specialization ILIKE ?", "%"+spec+"%")
	}
	if name := c.Query("name"); name != "" {
		q = q.Where("users.name ILIKE ?", "%"+name+"%")
	}
	if hospital := c.Query("hospital"); hospital != "" {
		q = q.Where("doctors.hospital ILIKE ?", "%"+hospital+"%")
	}

	var doctors []models.Doctor
	if err := q.Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_search_doctors", "Could not search doctors.")
		return
	}

	httpresp.List(c, doctors)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Doctor id must be numeric.")
		return
	}

	var doctor models.Doctor
	if err := h.db.Preload("User").First(&doctor, uint(id)).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	httpresp.OK(c, doctor)
}

// ======================================================
// CREATE (admin only; the route group is role-gated)
// ======================================================

type CreateDoctorRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`

	Specialization  string  `json:"specialization" binding:"required"`
	LicenseNumber   string  `json:"license_number" binding:"required"`
	ConsultationFee float64 `json:"consultation_fee" binding:"required"`

	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
	Hospital      string `json:"hospital"`
	Location      string `json:"location"`
	About         string `json:"about"`
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !validators.IsLicenseNumberValid(req.LicenseNumber) {
		httperr.BadRequest(c, "invalid_license_number", "License number must look like AAA-123456.")
		return
	}
	if req.ConsultationFee < minConsultationFee {
		httperr.BadRequest(c, "fee_too_low", "Minimum consultation fee is 50.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_exists", "A user already exists with this e-mail.")
		return
	}

	h.db.Model(&models.Doctor{}).Where("license_number = ?", req.LicenseNumber).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "license_already_registered", "License number already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create doctor.")
		return
	}

	var doctor models.Doctor
	err = h.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:         req.Name,
			Email:        email,
			PasswordHash: string(hashed),
			Role:         models.RoleDoctor,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		doctor = models.Doctor{
			UserID:          user.ID,
			Specialization:  req.Specialization,
			LicenseNumber:   req.LicenseNumber,
			ConsultationFee: req.ConsultationFee,
			Qualification:   req.Qualification,
			Experience:      req.Experience,
			Hospital:        req.Hospital,
			Location:        req.Location,
			About:           req.About,
		}
		if err := tx.Create(&doctor).Error; err != nil {
			return err
		}

		doctor.User = user
		return nil
	})
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.Created(c, doctor)
}

// ======================================================
// AVAILABILITY
// ======================================================

type AddAvailabilityRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

func (h *DoctorHandler) AddAvailability(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Doctor id must be numeric.")
		return
	}

	var req AddAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "validation_error", "Please provide date, start time, and end time.")
		return
	}

	slots, err := h.addUC.Execute(c.Request.Context(), ucScheduling.AddAvailabilityInput{
		Actor:     middleware.ActorFrom(c),
		DoctorID:  uint(id),
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.OK(c, slots)
}

func (h *DoctorHandler) GetSlots(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Doctor id must be numeric.")
		return
	}

	ranges, err := h.slotsUC.Execute(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	httpresp.List(c, ranges)
}
