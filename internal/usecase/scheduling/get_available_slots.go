package scheduling

import (
	"context"
	"errors"

	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
)

type GetAvailableSlots struct {
	repo domain.Repository
}

func NewGetAvailableSlots(repo domain.Repository) *GetAvailableSlots {
	return &GetAvailableSlots{repo: repo}
}

func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	doctorID uint,
) ([]domain.SlotRange, error) {

	if _, err := uc.repo.GetDoctorByID(ctx, doctorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("doctor_not_found")
		}
		return nil, err
	}

	slots, err := uc.repo.ListOpenSlots(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	return domain.OpenRanges(slots), nil
}
