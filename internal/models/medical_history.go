package models

import "time"

// MedicalHistory is a one-per-patient sheet of free-text entries, stored as
// newline-joined text columns.
type MedicalHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint `gorm:"uniqueIndex" json:"patient_id"`
	Patient   User `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Allergies   string `gorm:"type:text" json:"allergies"`
	Medications string `gorm:"type:text" json:"medications"`
	Conditions  string `gorm:"type:text" json:"conditions"`
	Surgeries   string `gorm:"type:text" json:"surgeries"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
