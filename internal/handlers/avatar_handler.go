package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/middleware"
	"github.com/docpoint/clinic-scheduler/internal/models"
	"github.com/docpoint/clinic-scheduler/internal/storage"
)

const avatarMaxUpload = 5 << 20 // 5 MiB

type AvatarHandler struct {
	db    *gorm.DB
	store *storage.AvatarStore
}

func NewAvatarHandler(db *gorm.DB, store *storage.AvatarStore) *AvatarHandler {
	return &AvatarHandler{db: db, store: store}
}

func (h *AvatarHandler) Upload(c *gin.Context) {
	if !h.store.Enabled() {
		httperr.Write(c, http.StatusServiceUnavailable, "avatar_storage_not_configured", "Avatar storage is not configured.")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_avatar_file", "An avatar file is required.")
		return
	}
	if fileHeader.Size > avatarMaxUpload {
		httperr.BadRequest(c, "avatar_too_large", "Avatar must be at most 5 MiB.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httperr.BadRequest(c, "unreadable_avatar_file", "Could not read the uploaded file.")
		return
	}
	defer f.Close()

	url, err := h.store.Put(c.Request.Context(), userID, f)
	if err != nil {
		httperr.Internal(c, "failed_to_store_avatar", "Could not store avatar.")
		return
	}

	if err := h.db.
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_avatar", "Could not update avatar.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
