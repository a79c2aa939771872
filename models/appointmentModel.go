package models

import (
	"time"
)

// Appointment model. CANCELLED doubles as the soft-delete state: collection
// queries exclude it, direct lookups still return the row.
type Appointment struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	PatientID string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID  string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	DateTime  time.Time `gorm:"column:date_time;not null;index" json:"date_time"`
	Reason    string    `gorm:"type:text;column:reason" json:"reason"`
	Status    string    `gorm:"column:status;check:status IN ('SCHEDULED', 'CONFIRMED', 'COMPLETED', 'CANCELLED');not null;default:'SCHEDULED'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient   User      `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor    User      `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (Appointment) TableName() string {
	return "appointment"
}
