package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/docpoint/clinic-scheduler/internal/config"
	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/httpresp"
	"github.com/docpoint/clinic-scheduler/internal/models"
	ucScheduling "github.com/docpoint/clinic-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db        *gorm.DB
	cfg       *config.Config
	cleanupUC *ucScheduling.CancelUserAppointments
}

func NewAdminHandler(
	db *gorm.DB,
	cfg *config.Config,
	cleanupUC *ucScheduling.CancelUserAppointments,
) *AdminHandler {
	return &AdminHandler{
		db:        db,
		cfg:       cfg,
		cleanupUC: cleanupUC,
	}
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not list users.")
		return
	}

	httpresp.List(c, users)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "User id must be numeric.")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	httpresp.OK(c, user)
}

type AdminUpdateUserRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "User id must be numeric.")
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Role != "" &&
		req.Role != models.RolePatient &&
		req.Role != models.RoleDoctor &&
		req.Role != models.RoleAdmin {
		httperr.BadRequest(c, "invalid_role", "Role must be patient, doctor or admin.")
		return
	}

	var user models.User
	if err := h.db.First(&user, uint(id)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	user.Phone = req.Phone
	user.Address = req.Address

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update user.")
		return
	}

	httpresp.OK(c, user)
}

// DeleteUser applies the deletion policy: still-scheduled appointments of
// the user are cancelled (slots reopened) before the account row goes away.
// Appointment records themselves are kept.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "User id must be numeric.")
		return
	}

	cancelled, err := h.cleanupUC.Execute(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Handle(c, h.cfg.IsDevelopment(), err)
		return
	}

	if err := h.db.Delete(&models.User{}, uint(id)).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Could not delete user.")
		return
	}

	httpresp.OK(c, gin.H{
		"message":                "User deleted successfully",
		"cancelled_appointments": cancelled,
	})
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AdminHandler) Dashboard(c *gin.Context) {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Could not load dashboard.")
		return
	}

	var totalDoctors int64
	h.db.Model(&models.Doctor{}).Count(&totalDoctors)

	var upcoming int64
	h.db.Model(&models.Appointment{}).
		Where("start_time >= ? AND status = ?", time.Now(), string(domain.StatusScheduled)).
		Count(&upcoming)

	var recentUsers []models.User
	h.db.Order("created_at DESC").Limit(5).Find(&recentUsers)

	httpresp.OK(c, gin.H{
		"total_users":           totalUsers,
		"total_doctors":         totalDoctors,
		"upcoming_appointments": upcoming,
		"recent_users":          recentUsers,
	})
}
