package scheduling

import (
	"context"
	"errors"

	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

const defaultListLimit = 10

// ======================================================
// INPUT
// ======================================================

type ListAppointmentsInput struct {
	UserID uint
	Limit  int
	// Sort mirrors the query parameter: "-date" (default) newest first,
	// "date" oldest first.
	Sort string
}

// ======================================================
// USE CASE
// ======================================================

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute is a pure read: a caller with no appointments gets an empty list.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, error) {

	if _, err := uc.repo.GetUserByID(ctx, in.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	ascending := in.Sort == "date"

	apps, err := uc.repo.ListAppointmentsForUser(ctx, in.UserID, limit, ascending)
	if err != nil {
		return nil, err
	}

	if apps == nil {
		apps = []models.Appointment{}
	}
	return apps, nil
}
