package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

func setupBookingTest(t *testing.T) (*fakeRepo, *BookAppointment, string, time.Time) {
	t.Helper()

	repo := newFakeRepo()
	repo.seedUser(1, "Dr. Gray", "gray@clinic.test", models.RoleDoctor)
	repo.seedDoctor(10, 1, "Cardiology")
	repo.seedUser(2, "Pat", "pat@clinic.test", models.RolePatient)

	start := time.Date(2024, 3, 25, 9, 0, 0, 0, time.UTC)
	slotID := repo.seedOpenSlot(10, start, start.Add(time.Hour))

	return repo, NewBookAppointment(repo, nil, nil), slotID, start
}

func TestBook_Succeeds(t *testing.T) {
	repo, book, slotID, start := setupBookingTest(t)
	ctx := context.Background()

	ap, err := book.Execute(ctx, BookAppointmentInput{
		PatientID: 2,
		DoctorID:  10,
		Instant:   start,
		Notes:     "checkup",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if ap.Status != string(domain.StatusScheduled) {
		t.Errorf("expected status scheduled, got %q", ap.Status)
	}
	if ap.SlotID != slotID {
		t.Errorf("expected appointment to reference slot %s, got %s", slotID, ap.SlotID)
	}
	// the returned appointment carries both parties, not just their ids
	if ap.Doctor.Specialization != "Cardiology" {
		t.Errorf("expected doctor to be resolved on the appointment, got %+v", ap.Doctor)
	}
	if ap.Patient.Name != "Pat" {
		t.Errorf("expected patient to be resolved on the appointment, got %+v", ap.Patient)
	}

	// the booked slot is gone from availability
	ranges, err := NewGetAvailableSlots(repo).Execute(ctx, 10)
	if err != nil {
		t.Fatalf("GetAvailableSlots failed: %v", err)
	}
	for _, rng := range ranges {
		if rng.ID == slotID {
			t.Error("booked slot still listed as available")
		}
	}
}

func TestBook_InstantInsideSlot(t *testing.T) {
	_, book, _, start := setupBookingTest(t)

	// any instant inside [start, end) books the covering slot
	ap, err := book.Execute(context.Background(), BookAppointmentInput{
		PatientID: 2,
		DoctorID:  10,
		Instant:   start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("booking mid-slot failed: %v", err)
	}
	if ap.ID == 0 {
		t.Error("expected a persisted appointment id")
	}
}

func TestBook_UncoveredInstant(t *testing.T) {
	repo, book, _, start := setupBookingTest(t)

	_, err := book.Execute(context.Background(), BookAppointmentInput{
		PatientID: 2,
		DoctorID:  10,
		Instant:   start.Add(2 * time.Hour),
	})
	if !httperr.IsBusiness(err, "slot_unavailable") {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}

	// nothing was written
	if len(repo.appointments) != 0 {
		t.Errorf("expected no appointment, got %d", len(repo.appointments))
	}
	for _, s := range repo.slots {
		if s.Booked {
			t.Error("no slot should have been mutated")
		}
	}
}

func TestBook_SecondAttemptSameInstant(t *testing.T) {
	repo, book, _, start := setupBookingTest(t)
	ctx := context.Background()

	if _, err := book.Execute(ctx, BookAppointmentInput{
		PatientID: 2, DoctorID: 10, Instant: start,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := book.Execute(ctx, BookAppointmentInput{
		PatientID: 2, DoctorID: 10, Instant: start,
	})
	if !httperr.IsBusiness(err, "slot_unavailable") && !httperr.IsBusiness(err, "booking_conflict") {
		t.Fatalf("expected slot_unavailable or booking_conflict, got %v", err)
	}

	if len(repo.appointments) != 1 {
		t.Errorf("expected exactly 1 appointment, got %d", len(repo.appointments))
	}
}

func TestBook_UnknownDoctor(t *testing.T) {
	_, book, _, start := setupBookingTest(t)

	_, err := book.Execute(context.Background(), BookAppointmentInput{
		PatientID: 2,
		DoctorID:  999,
		Instant:   start,
	})
	if !httperr.IsBusiness(err, "doctor_not_found") {
		t.Fatalf("expected doctor_not_found, got %v", err)
	}
}

func TestBook_MissingInput(t *testing.T) {
	_, book, _, _ := setupBookingTest(t)

	_, err := book.Execute(context.Background(), BookAppointmentInput{
		PatientID: 2,
		DoctorID:  0,
		Instant:   time.Date(2024, 3, 25, 9, 0, 0, 0, time.UTC),
	})
	if !httperr.IsBusiness(err, "validation_error") {
		t.Fatalf("expected validation_error for zero doctor id, got %v", err)
	}

	_, err = book.Execute(context.Background(), BookAppointmentInput{
		PatientID: 2,
		DoctorID:  10,
	})
	if !httperr.IsBusiness(err, "validation_error") {
		t.Fatalf("expected validation_error for zero instant, got %v", err)
	}
}

// Two goroutines race for the same instant; exactly one wins, the other
// loses the check-and-set.
func TestBook_ConcurrentRequestsOneWinner(t *testing.T) {
	repo, book, _, start := setupBookingTest(t)
	ctx := context.Background()

	const attempts = 2
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	var barrier sync.WaitGroup
	barrier.Add(1)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			barrier.Wait()
			_, errs[i] = book.Execute(ctx, BookAppointmentInput{
				PatientID: 2,
				DoctorID:  10,
				Instant:   start,
			})
		}(i)
	}

	barrier.Done()
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case httperr.IsBusiness(err, "booking_conflict"),
			httperr.IsBusiness(err, "slot_unavailable"):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", successes)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d losers, got %d", attempts-1, conflicts)
	}
	if len(repo.appointments) != 1 {
		t.Fatalf("expected a single appointment, got %d", len(repo.appointments))
	}
}
