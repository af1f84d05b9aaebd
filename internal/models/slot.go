package models

import "time"

// Slot is one bookable range on a doctor's calendar. Slots carry a stable
// UUID so booking and cancellation mutate by id, never by re-deriving the
// entry from timestamps.
type Slot struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	DoctorID uint `gorm:"index:idx_slots_doctor_start,priority:1" json:"doctor_id"`

	StartTime time.Time `gorm:"index:idx_slots_doctor_start,priority:2;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Booked bool `gorm:"default:false" json:"booked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
