package models

import (
	"time"
)

// Medical record types
const (
	RecordTypeLabResult = "LAB_RESULT"
	RecordTypeImaging   = "IMAGING"
	RecordTypeDiagnosis = "DIAGNOSIS"
	RecordTypeTreatment = "TREATMENT"
)

// MedicalRecord model. The doctor who created the record owns it; the patient
// it describes can read it. Rows are never removed: DELETE flips is_active.
type MedicalRecord struct {
	ID            string    `gorm:"primaryKey;column:id" json:"id"`
	PatientID     string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID      string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	RecordType    string    `gorm:"column:record_type;check:record_type IN ('LAB_RESULT', 'IMAGING', 'DIAGNOSIS', 'TREATMENT');not null" json:"record_type"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Description   string    `gorm:"type:text;column:description" json:"description"`
	DiagnosisDate time.Time `gorm:"column:diagnosis_date;index" json:"diagnosis_date"`
	Attachment    string    `gorm:"column:attachment" json:"attachment"`
	Status        string    `gorm:"column:status;check:status IN ('ACTIVE', 'COMPLETED', 'ARCHIVED');not null;default:'ACTIVE'" json:"status"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient       User      `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor        User      `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (MedicalRecord) TableName() string {
	return "medical_record"
}
