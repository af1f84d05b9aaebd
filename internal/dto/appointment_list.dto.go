package dto

import (
	"time"

	"github.com/docpoint/clinic-scheduler/internal/models"
)

type PartyDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type DoctorPartyDTO struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type AppointmentListDTO struct {
	ID          uint           `json:"id"`
	StartTime   time.Time      `json:"start_time"`
	Status      string         `json:"status"`
	Notes       string         `json:"notes"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
	Patient     PartyDTO       `json:"patient"`
	Doctor      DoctorPartyDTO `json:"doctor"`
}

func FromAppointment(ap *models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:          ap.ID,
		StartTime:   ap.StartTime,
		Status:      ap.Status,
		Notes:       ap.Notes,
		CancelledAt: ap.CancelledAt,
		Patient: PartyDTO{
			ID:    ap.Patient.ID,
			Name:  ap.Patient.Name,
			Email: ap.Patient.Email,
		},
		Doctor: DoctorPartyDTO{
			ID:             ap.Doctor.ID,
			Name:           ap.Doctor.User.Name,
			Specialization: ap.Doctor.Specialization,
		},
	}
}

func FromAppointments(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for i := range apps {
		out = append(out, FromAppointment(&apps[i]))
	}
	return out
}
