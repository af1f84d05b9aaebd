package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

func setupListTest(t *testing.T) (*fakeRepo, *ListAppointments) {
	t.Helper()

	repo := newFakeRepo()
	repo.seedUser(1, "Dr. Gray", "gray@clinic.test", models.RoleDoctor)
	repo.seedDoctor(10, 1, "Cardiology")
	repo.seedUser(2, "Pat", "pat@clinic.test", models.RolePatient)
	repo.seedUser(3, "Sam", "sam@clinic.test", models.RolePatient)

	book := NewBookAppointment(repo, nil, nil)
	base := time.Date(2024, 3, 25, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		start := base.AddDate(0, 0, day)
		repo.seedOpenSlot(10, start, start.Add(time.Hour))
		if _, err := book.Execute(context.Background(), BookAppointmentInput{
			PatientID: 2,
			DoctorID:  10,
			Instant:   start,
		}); err != nil {
			t.Fatalf("seeding booking %d failed: %v", day, err)
		}
	}

	return repo, NewListAppointments(repo)
}

func TestList_NewestFirstByDefault(t *testing.T) {
	_, list := setupListTest(t)

	apps, err := list.Execute(context.Background(), ListAppointmentsInput{UserID: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(apps))
	}
	for i := 1; i < len(apps); i++ {
		if apps[i].StartTime.After(apps[i-1].StartTime) {
			t.Fatal("expected descending start times")
		}
	}

	// display fields are resolved
	if apps[0].Doctor.Specialization != "Cardiology" {
		t.Errorf("expected doctor specialization resolved, got %q", apps[0].Doctor.Specialization)
	}
	if apps[0].Patient.Name != "Pat" {
		t.Errorf("expected patient name resolved, got %q", apps[0].Patient.Name)
	}
}

func TestList_AscendingAndLimit(t *testing.T) {
	_, list := setupListTest(t)

	apps, err := list.Execute(context.Background(), ListAppointmentsInput{
		UserID: 2,
		Limit:  2,
		Sort:   "date",
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(apps))
	}
	if apps[1].StartTime.Before(apps[0].StartTime) {
		t.Fatal("expected ascending start times")
	}
}

func TestList_DoctorSeesOwnCalendar(t *testing.T) {
	_, list := setupListTest(t)

	apps, err := list.Execute(context.Background(), ListAppointmentsInput{UserID: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("expected the doctor to see 3 appointments, got %d", len(apps))
	}
}

// A caller with no appointments gets an empty list, never fabricated rows.
func TestList_EmptyForUninvolvedUser(t *testing.T) {
	_, list := setupListTest(t)

	apps, err := list.Execute(context.Background(), ListAppointmentsInput{UserID: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if apps == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(apps) != 0 {
		t.Fatalf("expected no appointments, got %d", len(apps))
	}
}

func TestList_UnknownUser(t *testing.T) {
	_, list := setupListTest(t)

	_, err := list.Execute(context.Background(), ListAppointmentsInput{UserID: 999})
	if !httperr.IsBusiness(err, "user_not_found") {
		t.Fatalf("expected user_not_found, got %v", err)
	}
}
