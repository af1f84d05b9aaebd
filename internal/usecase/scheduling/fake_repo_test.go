package scheduling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/docpoint/clinic-scheduler/internal/domain/scheduling"
	"github.com/docpoint/clinic-scheduler/internal/httperr"
	"github.com/docpoint/clinic-scheduler/internal/models"
)

// fakeRepo is an in-memory Repository. Its mutex gives the same atomicity
// guarantees the gorm implementation gets from database transactions, so
// the booking race can be exercised with plain goroutines.
type fakeRepo struct {
	mu sync.Mutex

	users        map[uint]*models.User
	doctors      map[uint]*models.Doctor
	slots        map[string]*models.Slot
	appointments map[uint]*models.Appointment

	nextAppointmentID uint
	nextSlotSeq       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:        make(map[uint]*models.User),
		doctors:      make(map[uint]*models.Doctor),
		slots:        make(map[string]*models.Slot),
		appointments: make(map[uint]*models.Appointment),
	}
}

// ---- seeding helpers ----

func (r *fakeRepo) seedUser(id uint, name, email, role string) *models.User {
	u := &models.User{ID: id, Name: name, Email: email, Role: role}
	r.users[id] = u
	return u
}

func (r *fakeRepo) seedDoctor(id, userID uint, specialization string) *models.Doctor {
	d := &models.Doctor{ID: id, UserID: userID, Specialization: specialization}
	if u, ok := r.users[userID]; ok {
		d.User = *u
	}
	r.doctors[id] = d
	return d
}

func (r *fakeRepo) seedOpenSlot(doctorID uint, start, end time.Time) string {
	r.nextSlotSeq++
	id := fmt.Sprintf("slot-%d", r.nextSlotSeq)
	r.slots[id] = &models.Slot{
		ID:        id,
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   end,
	}
	return id
}

// ---- Repository ----

func (r *fakeRepo) GetDoctorByID(_ context.Context, id uint) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeRepo) GetDoctorByUserID(_ context.Context, userID uint) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.doctors {
		if d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) AddSlot(_ context.Context, slot *models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.DoctorID == slot.DoctorID &&
			domain.Overlaps(s.StartTime, s.EndTime, slot.StartTime, slot.EndTime) {
			return httperr.ErrBusiness("slot_overlap")
		}
	}

	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeRepo) ListSlots(_ context.Context, doctorID uint) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			out = append(out, *s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeRepo) ListOpenSlots(_ context.Context, doctorID uint) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID && !s.Booked {
			out = append(out, *s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeRepo) FindOpenSlotAt(_ context.Context, doctorID uint, at time.Time) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *models.Slot
	for _, s := range r.slots {
		if s.DoctorID != doctorID || s.Booked || !domain.Covers(s, at) {
			continue
		}
		if best == nil || s.StartTime.Before(best.StartTime) {
			best = s
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *fakeRepo) BookSlot(_ context.Context, slotID string, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[slotID]
	if !ok || slot.Booked {
		return httperr.ErrBusiness("booking_conflict")
	}
	slot.Booked = true

	r.nextAppointmentID++
	ap.ID = r.nextAppointmentID
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) CancelAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// conditional write, like the store: only a still-scheduled row can be
	// cancelled, and only then does the slot come back
	stored, ok := r.appointments[ap.ID]
	if !ok || stored.Status != string(domain.StatusScheduled) {
		return httperr.ErrBusiness("invalid_state")
	}
	stored.Status = ap.Status
	stored.CancelledAt = ap.CancelledAt

	if slot, ok := r.slots[stored.SlotID]; ok && slot.Booked {
		slot.Booked = false
	}
	return nil
}

func (r *fakeRepo) CompleteAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[ap.ID]
	if !ok || stored.Status != string(domain.StatusScheduled) {
		return httperr.ErrBusiness("invalid_state")
	}
	stored.Status = ap.Status
	stored.CompletedAt = ap.CompletedAt
	return nil
}

func (r *fakeRepo) GetAppointmentByID(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	cp := *ap
	if d, ok := r.doctors[ap.DoctorID]; ok {
		cp.Doctor = *d
	}
	if p, ok := r.users[ap.PatientID]; ok {
		cp.Patient = *p
	}
	return &cp, nil
}

func (r *fakeRepo) ListAppointmentsForUser(_ context.Context, userID uint, limit int, ascending bool) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		isDoctor := false
		if d, ok := r.doctors[ap.DoctorID]; ok && d.UserID == userID {
			isDoctor = true
		}
		if ap.PatientID != userID && !isDoctor {
			continue
		}

		cp := *ap
		if d, ok := r.doctors[ap.DoctorID]; ok {
			cp.Doctor = *d
		}
		if p, ok := r.users[ap.PatientID]; ok {
			cp.Patient = *p
		}
		out = append(out, cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if ascending {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[j].StartTime.Before(out[i].StartTime)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) ListScheduledForParties(_ context.Context, userID uint, doctorID *uint) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status != string(domain.StatusScheduled) {
			continue
		}
		match := ap.PatientID == userID
		if doctorID != nil && ap.DoctorID == *doctorID {
			match = true
		}
		if match {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func sortSlots(slots []models.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
}

// Compile-time check
var _ domain.Repository = (*fakeRepo)(nil)
