package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/docpoint/clinic-scheduler/internal/models"
)

// ErrNotFound is returned by lookups when the row does not exist, so use
// cases can tell a missing entity from a failing store.
var ErrNotFound = errors.New("not found")

type Repository interface {
	// -------- Doctor --------
	GetDoctorByID(
		ctx context.Context,
		id uint,
	) (*models.Doctor, error)

	GetDoctorByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Doctor, error)

	// -------- User --------
	GetUserByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Slots --------

	// AddSlot persists a new open slot. The no-overlap assertion and the
	// insert run in one transaction; an overlapping range fails the whole
	// operation with the slot_overlap business error.
	AddSlot(
		ctx context.Context,
		slot *models.Slot,
	) error

	ListSlots(
		ctx context.Context,
		doctorID uint,
	) ([]models.Slot, error)

	ListOpenSlots(
		ctx context.Context,
		doctorID uint,
	) ([]models.Slot, error)

	FindOpenSlotAt(
		ctx context.Context,
		doctorID uint,
		at time.Time,
	) (*models.Slot, error)

	// -------- Booking (atomic) --------

	// BookSlot flips the slot's booked flag false→true and inserts the
	// appointment in a single transaction. When the flag was already set by
	// a concurrent booking, nothing is written and the booking_conflict
	// business error is returned.
	BookSlot(
		ctx context.Context,
		slotID string,
		ap *models.Appointment,
	) error

	// CancelAppointment persists the cancelled appointment and reopens its
	// slot by id, atomically. The status write is conditional on the row
	// still being scheduled; a cancel racing a committed one fails with
	// invalid_state and the slot is left alone. The slot itself is only
	// flipped when still booked.
	CancelAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CompleteAppointment marks a scheduled appointment completed. Same
	// conditional-write contract as CancelAppointment; the slot stays
	// booked, the visit happened.
	CompleteAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointments --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointmentsForUser(
		ctx context.Context,
		userID uint,
		limit int,
		ascending bool,
	) ([]models.Appointment, error)

	// ListScheduledForParties returns still-scheduled appointments where the
	// user is the patient or (when doctorID != nil) the doctor.
	ListScheduledForParties(
		ctx context.Context,
		userID uint,
		doctorID *uint,
	) ([]models.Appointment, error)
}
