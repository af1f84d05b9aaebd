package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docpoint/clinic-scheduler/internal/audit"
	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
	"github.com/docpoint/clinic-scheduler/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	PatientID uint
	DoctorID  uint
	Instant   time.Time
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	mail  *notify.Dispatcher
}

func NewBookAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	mail *notify.Dispatcher,
) *BookAppointment {
	return &BookAppointment{
		repo:  repo,
		audit: audit,
		mail:  mail,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	if in.DoctorID == 0 || in.Instant.IsZero() {
		return nil, httperr.ErrBusiness("validation_error")
	}

	doctor, err := uc.repo.GetDoctorByID(ctx, in.DoctorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}
	if err != nil {
		return nil, err
	}

	slot, err := uc.repo.FindOpenSlotAt(ctx, doctor.ID, in.Instant)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	ap := &models.Appointment{
		PatientID: in.PatientID,
		DoctorID:  doctor.ID,
		SlotID:    slot.ID,
		StartTime: in.Instant,
		Status:    string(domain.InitialStatus()),
		Notes:     in.Notes,
	}

	// check-and-set on the slot flag plus the insert, one transaction; a
	// concurrent booking that got there first surfaces as booking_conflict
	if err := uc.repo.BookSlot(ctx, slot.ID, ap); err != nil {
		return nil, err
	}

	ap.Doctor = *doctor

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.PatientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	if patient, err := uc.repo.GetUserByID(ctx, in.PatientID); err == nil {
		ap.Patient = *patient
		uc.sendConfirmation(patient, ap, doctor)
	}

	return ap, nil
}

// confirmation mail is best effort and fully async
func (uc *BookAppointment) sendConfirmation(
	patient *models.User,
	ap *models.Appointment,
	doctor *models.Doctor,
) {
	if patient.Email == "" {
		return
	}

	uc.mail.Dispatch(notify.Message{
		To:      patient.Email,
		Subject: "Appointment confirmed",
		Body: fmt.Sprintf(
			"Hi %s,\n\nyour appointment with Dr. %s (%s) on %s is confirmed.",
			patient.Name,
			doctor.User.Name,
			doctor.Specialization,
			ap.StartTime.Format("Mon, 02 Jan 2006 15:04"),
		),
	})
}
