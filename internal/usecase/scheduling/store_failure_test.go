package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docpoint/clinic-scheduler/internal/authz"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

// errDown stands in for a store that is reachable but failing (connection
// reset, timeout). It must never be mistaken for a missing row.
var errDown = errors.New("connection reset by peer")

// failingRepo wraps the fake and makes selected lookups fail with a
// non-not-found error.
type failingRepo struct {
	*fakeRepo
	failDoctorLookup bool
	failUserLookup   bool
}

func (r *failingRepo) GetDoctorByID(ctx context.Context, id uint) (*models.Doctor, error) {
	if r.failDoctorLookup {
		return nil, errDown
	}
	return r.fakeRepo.GetDoctorByID(ctx, id)
}

func (r *failingRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if r.failUserLookup {
		return nil, errDown
	}
	return r.fakeRepo.GetUserByID(ctx, id)
}

// A failing store must surface as a plain error, not as doctor_not_found.
func TestBook_StoreFailureIsNotNotFound(t *testing.T) {
	inner, _, _, start := setupBookingTest(t)
	repo := &failingRepo{fakeRepo: inner, failDoctorLookup: true}

	_, err := NewBookAppointment(repo, nil, nil).Execute(context.Background(), BookAppointmentInput{
		PatientID: 2,
		DoctorID:  10,
		Instant:   start,
	})
	if !errors.Is(err, errDown) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
	if httperr.IsBusiness(err, "doctor_not_found") {
		t.Fatal("store failure must not be reported as doctor_not_found")
	}
}

func TestListAppointments_StoreFailureIsNotNotFound(t *testing.T) {
	inner := newFakeRepo()
	inner.seedUser(2, "Pat", "pat@clinic.test", models.RolePatient)
	repo := &failingRepo{fakeRepo: inner, failUserLookup: true}

	_, err := NewListAppointments(repo).Execute(context.Background(), ListAppointmentsInput{UserID: 2})
	if !errors.Is(err, errDown) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
	if httperr.IsBusiness(err, "user_not_found") {
		t.Fatal("store failure must not be reported as user_not_found")
	}
}

func TestAddAvailability_StoreFailureIsNotNotFound(t *testing.T) {
	inner := newFakeRepo()
	inner.seedUser(1, "Dr. Gray", "gray@clinic.test", models.RoleDoctor)
	inner.seedDoctor(10, 1, "Cardiology")
	repo := &failingRepo{fakeRepo: inner, failDoctorLookup: true}

	_, err := NewAddAvailability(repo, nil, time.UTC).Execute(context.Background(), AddAvailabilityInput{
		Actor:     authz.Actor{UserID: 1, Role: models.RoleDoctor},
		DoctorID:  10,
		Date:      "2024-03-25",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	if !errors.Is(err, errDown) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
}
