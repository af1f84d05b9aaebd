package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Doctor
// --------------------------------------------------

func (r *SchedulingGormRepository) GetDoctorByID(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&doctor, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &doctor, nil
}

func (r *SchedulingGormRepository) GetDoctorByUserID(
	ctx context.Context,
	userID uint,
) (*models.Doctor, error) {

	var doctor models.Doctor
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&doctor).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &doctor, nil
}

// --------------------------------------------------
// User
// --------------------------------------------------

func (r *SchedulingGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &user, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *SchedulingGormRepository) AddSlot(
	ctx context.Context,
	slot *models.Slot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// serialize per doctor: concurrent adds both read a clean count
		// under READ COMMITTED unless one of them waits here
		var doctor models.Doctor
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doctor, slot.DoctorID).Error; err != nil {
			return notFoundOr(err)
		}

		var count int64
		if err := tx.
			Model(&models.Slot{}).
			Where(
				"doctor_id = ? AND start_time < ? AND end_time > ?",
				slot.DoctorID,
				slot.EndTime,
				slot.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness("slot_overlap")
		}

		return tx.Create(slot).Error
	})
}

func (r *SchedulingGormRepository) ListSlots(
	ctx context.Context,
	doctorID uint,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SchedulingGormRepository) ListOpenSlots(
	ctx context.Context,
	doctorID uint,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND booked = false", doctorID).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SchedulingGormRepository) FindOpenSlotAt(
	ctx context.Context,
	doctorID uint,
	at time.Time,
) (*models.Slot, error) {

	var slot models.Slot
	err := r.db.WithContext(ctx).
		Where(
			"doctor_id = ? AND booked = false AND start_time <= ? AND end_time > ?",
			doctorID, at, at,
		).
		Order("start_time ASC").
		First(&slot).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// --------------------------------------------------
// Booking (atomic)
// --------------------------------------------------

func (r *SchedulingGormRepository) BookSlot(
	ctx context.Context,
	slotID string,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// check-and-set: only one transaction can flip the flag
		res := tx.
			Model(&models.Slot{}).
			Where("id = ? AND booked = false", slotID).
			Update("booked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness("booking_conflict")
		}

		return tx.Create(ap).Error
	})
}

func (r *SchedulingGormRepository) CancelAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// same check-and-set shape as BookSlot: the status write only lands
		// on a row that is still scheduled, so a cancel working from a stale
		// read cannot reopen a slot a later booking owns
		res := tx.
			Model(&models.Appointment{}).
			Where("id = ? AND status = ?", ap.ID, string(domain.StatusScheduled)).
			Updates(map[string]any{
				"status":       ap.Status,
				"cancelled_at": ap.CancelledAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness("invalid_state")
		}

		return tx.
			Model(&models.Slot{}).
			Where("id = ? AND booked = true", ap.SlotID).
			Update("booked", false).Error
	})
}

func (r *SchedulingGormRepository) CompleteAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", ap.ID, string(domain.StatusScheduled)).
		Updates(map[string]any{
			"status":       ap.Status,
			"completed_at": ap.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *SchedulingGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Doctor.User").
		First(&ap, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) ListAppointmentsForUser(
	ctx context.Context,
	userID uint,
	limit int,
	ascending bool,
) ([]models.Appointment, error) {

	order := "appointments.start_time DESC"
	if ascending {
		order = "appointments.start_time ASC"
	}

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Doctor.User").
		Joins("LEFT JOIN doctors ON doctors.id = appointments.doctor_id").
		Where("appointments.patient_id = ? OR doctors.user_id = ?", userID, userID).
		Order(order).
		Limit(limit).
		Find(&apps).Error

	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *SchedulingGormRepository) ListScheduledForParties(
	ctx context.Context,
	userID uint,
	doctorID *uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Doctor.User").
		Where("status = ?", string(domain.StatusScheduled))

	if doctorID != nil {
		q = q.Where("patient_id = ? OR doctor_id = ?", userID, *doctorID)
	} else {
		q = q.Where("patient_id = ?", userID)
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
