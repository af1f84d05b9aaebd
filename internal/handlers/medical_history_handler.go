package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/docpoint/clinic-scheduler/internal/middleware"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

type MedicalHistoryHandler struct {
	db *gorm.DB
}

func NewMedicalHistoryHandler(db *gorm.DB) *MedicalHistoryHandler {
	return &MedicalHistoryHandler{db: db}
}

func (h *MedicalHistoryHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var hist models.MedicalHistory
	err := h.db.Where("patient_id = ?", userID).First(&hist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// an empty sheet, not an error
		c.JSON(http.StatusOK, models.MedicalHistory{PatientID: userID})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_medical_history"})
		return
	}

	c.JSON(http.StatusOK, hist)
}

type MedicalHistoryRequest struct {
	Allergies   string `json:"allergies"`
	Medications string `json:"medications"`
	Conditions  string `json:"conditions"`
	Surgeries   string `json:"surgeries"`
}

func (h *MedicalHistoryHandler) Put(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req MedicalHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var hist models.MedicalHistory
	err := h.db.Where("patient_id = ?", userID).First(&hist).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_medical_history"})
		return
	}

	hist.PatientID = userID
	hist.Allergies = req.Allergies
	hist.Medications = req.Medications
	hist.Conditions = req.Conditions
	hist.Surgeries = req.Surgeries

	if err := h.db.Save(&hist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_medical_history"})
		return
	}

	c.JSON(http.StatusOK, hist)
}
