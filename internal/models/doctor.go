package models

import "time"

type Doctor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialization  string  `gorm:"size:100;not null" json:"specialization"`
	LicenseNumber   string  `gorm:"size:20;uniqueIndex;not null" json:"license_number"`
	ConsultationFee float64 `json:"consultation_fee"`

	Qualification string  `gorm:"size:255" json:"qualification"`
	Experience    string  `gorm:"size:100" json:"experience"`
	Hospital      string  `gorm:"size:100" json:"hospital"`
	Location      string  `gorm:"size:100" json:"location"`
	About         string  `gorm:"type:text" json:"about"`
	ImageURL      string  `gorm:"size:255" json:"image_url"`
	Rating        float64 `gorm:"default:0" json:"rating"`
	TotalReviews  int     `gorm:"default:0" json:"total_reviews"`

	Slots []Slot `gorm:"foreignKey:DoctorID" json:"slots,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
