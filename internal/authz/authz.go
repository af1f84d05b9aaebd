package authz

import "github.com/docpoint/clinic-scheduler/internal/models"

// Actor is the authenticated caller, resolved once per request by the auth
// middleware. All resource-level authorization goes through its predicates
// instead of ad-hoc role comparisons in handlers.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanManageDoctor allows the owning doctor and admins to mutate a doctor
// profile (availability included).
func (a Actor) CanManageDoctor(d *models.Doctor) bool {
	return a.IsAdmin() || d.UserID == a.UserID
}

// CanCancelAppointment allows the patient, the appointment's doctor, and
// admins. Expects ap.Doctor to be resolved.
func (a Actor) CanCancelAppointment(ap *models.Appointment) bool {
	return a.IsAdmin() || ap.PatientID == a.UserID || ap.Doctor.UserID == a.UserID
}

// CanCompleteAppointment allows the appointment's doctor and admins;
// patients cannot attest that the visit happened.
func (a Actor) CanCompleteAppointment(ap *models.Appointment) bool {
	return a.IsAdmin() || ap.Doctor.UserID == a.UserID
}
