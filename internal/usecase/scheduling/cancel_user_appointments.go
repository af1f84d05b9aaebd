package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/docpoint/clinic-scheduler/internal/audit"
	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
)

// CancelUserAppointments implements the account-deletion policy: every
// still-scheduled appointment where the user is the patient — or the
// doctor, when a doctor profile exists — is cancelled and its slot
// reopened. Records are kept; nothing is physically deleted here.
type CancelUserAppointments struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelUserAppointments(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelUserAppointments {
	return &CancelUserAppointments{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelUserAppointments) Execute(
	ctx context.Context,
	userID uint,
) (int, error) {

	if _, err := uc.repo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, httperr.ErrBusiness("user_not_found")
		}
		return 0, err
	}

	var doctorID *uint
	doctor, err := uc.repo.GetDoctorByUserID(ctx, userID)
	switch {
	case err == nil:
		doctorID = &doctor.ID
	case errors.Is(err, domain.ErrNotFound):
		// plain patient, no doctor side to sweep
	default:
		return 0, err
	}

	apps, err := uc.repo.ListScheduledForParties(ctx, userID, doctorID)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	now := time.Now()
	for i := range apps {
		ap := &apps[i]
		if err := domain.Cancel(ap, now); err != nil {
			continue
		}
		if err := uc.repo.CancelAppointment(ctx, ap); err != nil {
			// lost a race with a direct cancel; nothing left to reverse
			if httperr.IsBusiness(err, "invalid_state") {
				continue
			}
			return cancelled, err
		}
		cancelled++

		uc.audit.Dispatch(audit.Event{
			UserID:   &userID,
			Action:   "appointment_cancelled_on_user_delete",
			Entity:   "appointment",
			EntityID: &ap.ID,
		})
	}

	return cancelled, nil
}
