package utils

import (
	"testing"
	"time"

	"CareLink/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldError(t *testing.T, err error, field string) error {
	t.Helper()
	var ve validation.Errors
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve, field)
	return ve[field]
}

func TestValidateAppointmentRejectsPastDate(t *testing.T) {
	app := &models.Appointment{
		PatientID: "patient-1",
		DateTime:  time.Now().AddDate(0, 0, -1), // yesterday
	}
	err := ValidateAppointment(app)
	require.Error(t, err)
	assert.ErrorIs(t, fieldError(t, err, "date_time"), ErrAppointmentInPast)
}

func TestValidateAppointmentAcceptsFutureDate(t *testing.T) {
	app := &models.Appointment{
		PatientID: "patient-1",
		DateTime:  time.Now().AddDate(0, 0, 7),
	}
	assert.NoError(t, ValidateAppointment(app))
}

func TestValidateOperatingHours(t *testing.T) {
	err := ValidateOperatingHours("18:00", "09:00")
	require.Error(t, err)
	assert.ErrorIs(t, fieldError(t, err, "open_time"), ErrHoursOrder)

	assert.NoError(t, ValidateOperatingHours("09:00", "18:00"))

	err = ValidateOperatingHours("9am", "18:00")
	require.Error(t, err)
	assert.ErrorIs(t, fieldError(t, err, "open_time"), ErrInvalidTimeOfDay)
}

func TestValidateMedicalRecordRejectsFutureDiagnosis(t *testing.T) {
	rec := &models.MedicalRecord{
		PatientID:     "patient-1",
		RecordType:    models.RecordTypeLabResult,
		Title:         "blood panel",
		DiagnosisDate: time.Now().AddDate(0, 0, 2),
	}
	err := ValidateMedicalRecord(rec)
	require.Error(t, err)
	assert.ErrorIs(t, fieldError(t, err, "diagnosis_date"), ErrDiagnosisInFuture)
}

func TestValidateMedicalRecordRejectsUnknownType(t *testing.T) {
	rec := &models.MedicalRecord{
		PatientID:     "patient-1",
		RecordType:    "SURGERY_LOG",
		Title:         "notes",
		DiagnosisDate: time.Now().AddDate(0, 0, -1),
	}
	err := ValidateMedicalRecord(rec)
	require.Error(t, err)
	fieldError(t, err, "record_type")
}

func TestValidatePrescriptionRequiresCompleteMedications(t *testing.T) {
	p := &models.Prescription{
		PatientID: "patient-1",
		Diagnosis: "hypertension",
		Medications: []models.Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily", Duration: "30 days"},
			{Name: "Amlodipine", Dosage: "5mg"}, // missing frequency and duration
		},
	}
	err := ValidatePrescription(p)
	require.Error(t, err)
	assert.ErrorIs(t, fieldError(t, err, "medications.1"), ErrMedicationIncomplete)

	p.Medications[1].Frequency = "daily"
	p.Medications[1].Duration = "14 days"
	assert.NoError(t, ValidatePrescription(p))
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+1 (555) 123-4567", "0712345678", "555 123 4567"}
	for _, phone := range valid {
		assert.NoError(t, ValidatePhone(phone), "expected %q to be accepted", phone)
	}
	invalid := []string{"phone", "12ab34", "+1;555"}
	for _, phone := range invalid {
		assert.ErrorIs(t, ValidatePhone(phone), ErrInvalidPhone, "expected %q to be rejected", phone)
	}
	assert.NoError(t, ValidatePhone(""))
}

func TestValidationDetailsSortedByField(t *testing.T) {
	err := validation.Errors{
		"title":      ErrInvalidTimeOfDay,
		"patient_id": ErrInvalidPhone,
	}
	details := ValidationDetails(err)
	require.Len(t, details, 2)
	assert.Equal(t, "patient_id: invalid phone number format", details[0])
	assert.Equal(t, "title: must be in HH:MM format", details[1])
}
