package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docpoint/clinic-scheduler/internal/audit"
	"github.com/docpoint/clinic-scheduler/internal/authz"
	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
	"github.com/docpoint/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type AddAvailabilityInput struct {
	Actor    authz.Actor
	DoctorID uint

	Date      string
	StartTime string
	EndTime   string
}

// ======================================================
// USE CASE
// ======================================================

type AddAvailability struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewAddAvailability(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
) *AddAvailability {
	if loc == nil {
		loc = timezone.Location(timezone.DefaultTimezone)
	}
	return &AddAvailability{
		repo:  repo,
		audit: audit,
		loc:   loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *AddAvailability) Execute(
	ctx context.Context,
	in AddAvailabilityInput,
) ([]models.Slot, error) {

	if strings.TrimSpace(in.Date) == "" ||
		strings.TrimSpace(in.StartTime) == "" ||
		strings.TrimSpace(in.EndTime) == "" {
		return nil, httperr.ErrBusiness("validation_error")
	}

	doctor, err := uc.repo.GetDoctorByID(ctx, in.DoctorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("doctor_not_found")
	}
	if err != nil {
		return nil, err
	}

	if !in.Actor.CanManageDoctor(doctor) {
		return nil, httperr.ErrBusiness("not_authorized")
	}

	start, err := timezone.ParseDateTime(uc.loc, in.Date, in.StartTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	end, err := timezone.ParseDateTime(uc.loc, in.Date, in.EndTime)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if err := domain.ValidateRange(start, end); err != nil {
		return nil, err
	}

	slot := &models.Slot{
		ID:        uuid.NewString(),
		DoctorID:  doctor.ID,
		StartTime: start,
		EndTime:   end,
		Booked:    false,
	}

	// the overlap assertion runs inside the insert transaction
	if err := uc.repo.AddSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   "availability_added",
		Entity:   "doctor",
		EntityID: &doctor.ID,
		Metadata: map[string]string{"slot_id": slot.ID},
	})

	return uc.repo.ListSlots(ctx, doctor.ID)
}
