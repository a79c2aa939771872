package models

import (
	"time"
)

// Prescription model. Owned by the prescribing doctor.
type Prescription struct {
	ID          string       `gorm:"primaryKey;column:id" json:"id"`
	PatientID   string       `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID    string       `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Diagnosis   string       `gorm:"column:diagnosis;not null" json:"diagnosis"`
	Notes       string       `gorm:"type:text;column:notes" json:"notes"`
	Status      string       `gorm:"column:status;check:status IN ('ACTIVE', 'COMPLETED', 'CANCELLED');not null;default:'ACTIVE'" json:"status"`
	IsActive    bool         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Medications []Medication `gorm:"foreignKey:PrescriptionID;references:ID" json:"medications"`
	Patient     User         `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor      User         `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (Prescription) TableName() string {
	return "prescription"
}

// Medication is a line item of a prescription. All four descriptive fields
// are required when the medication is present.
type Medication struct {
	ID             uint         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PrescriptionID string       `gorm:"column:prescription_id;not null;index" json:"prescription_id"`
	Name           string       `gorm:"column:name;not null" json:"name"`
	Dosage         string       `gorm:"column:dosage;not null" json:"dosage"`
	Frequency      string       `gorm:"column:frequency;not null" json:"frequency"`
	Duration       string       `gorm:"column:duration;not null" json:"duration"`
	Prescription   Prescription `gorm:"foreignKey:PrescriptionID;references:ID" json:"-"`
}

func (Medication) TableName() string {
	return "medication"
}
