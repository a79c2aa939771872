package utils

import (
	"CareLink/models"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// Permissive phone format: digits, spaces, dashes, parentheses and an
	// optional leading plus.
	phoneRegex = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)

	ErrInvalidPhone         = errors.New("invalid phone number format")
	ErrHoursOrder           = errors.New("opening time must be before closing time")
	ErrDiagnosisInFuture    = errors.New("diagnosis date cannot be in the future")
	ErrAppointmentInPast    = errors.New("appointment date cannot be in the past")
	ErrInvalidTimeOfDay     = errors.New("must be in HH:MM format")
	ErrMedicationIncomplete = errors.New("medication requires name, dosage, frequency and duration")
)

const timeOfDayLayout = "15:04"

// ValidatePhone is an ozzo rule for the permissive phone format. Blank values
// pass; pair with validation.Required where a phone is mandatory.
func ValidatePhone(value interface{}) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateMedicalRecord checks a record payload before it is persisted.
func ValidateMedicalRecord(rec *models.MedicalRecord) error {
	return validation.ValidateStruct(rec,
		validation.Field(&rec.PatientID, validation.Required),
		validation.Field(&rec.RecordType, validation.Required, validation.In(
			models.RecordTypeLabResult,
			models.RecordTypeImaging,
			models.RecordTypeDiagnosis,
			models.RecordTypeTreatment,
		)),
		validation.Field(&rec.Title, validation.Required),
		validation.Field(&rec.DiagnosisDate, validation.Required, validation.By(notInFuture)),
	)
}

// ValidateAppointment checks an appointment payload. The date must not be in
// the past at submission time.
func ValidateAppointment(app *models.Appointment) error {
	return validation.ValidateStruct(app,
		validation.Field(&app.PatientID, validation.Required),
		validation.Field(&app.DateTime, validation.Required, validation.By(notInPast)),
	)
}

// ValidatePrescription checks a prescription and each of its medications.
func ValidatePrescription(p *models.Prescription) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.PatientID, validation.Required),
		validation.Field(&p.Diagnosis, validation.Required),
	)
	errs := validation.Errors{}
	if err != nil {
		var ve validation.Errors
		if errors.As(err, &ve) {
			for k, v := range ve {
				errs[k] = v
			}
		} else {
			return err
		}
	}
	for i, med := range p.Medications {
		if medErr := ValidateMedication(&med); medErr != nil {
			errs[fmt.Sprintf("medications.%d", i)] = ErrMedicationIncomplete
		}
	}
	return errs.Filter()
}

// ValidateMedication requires all four descriptive fields.
func ValidateMedication(m *models.Medication) error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Dosage, validation.Required),
		validation.Field(&m.Frequency, validation.Required),
		validation.Field(&m.Duration, validation.Required),
	)
}

// ValidatePharmacy checks a pharmacy payload including the operating-hours
// ordering rule.
func ValidatePharmacy(ph *models.Pharmacy) error {
	err := validation.ValidateStruct(ph,
		validation.Field(&ph.Name, validation.Required),
		validation.Field(&ph.LicenseNumber, validation.Required),
		validation.Field(&ph.Phone, validation.By(ValidatePhone)),
		validation.Field(&ph.OpenTime, validation.Required, validation.By(validTimeOfDay)),
		validation.Field(&ph.CloseTime, validation.Required, validation.By(validTimeOfDay)),
	)
	if err != nil {
		return err
	}
	return ValidateOperatingHours(ph.OpenTime, ph.CloseTime)
}

// ValidateOperatingHours enforces open < close on HH:MM wall-clock values.
func ValidateOperatingHours(open, close string) error {
	openAt, err := time.Parse(timeOfDayLayout, open)
	if err != nil {
		return validation.Errors{"open_time": ErrInvalidTimeOfDay}
	}
	closeAt, err := time.Parse(timeOfDayLayout, close)
	if err != nil {
		return validation.Errors{"close_time": ErrInvalidTimeOfDay}
	}
	if !openAt.Before(closeAt) {
		return validation.Errors{"open_time": ErrHoursOrder}
	}
	return nil
}

// ValidateProduct checks a product payload.
func ValidateProduct(p *models.Product) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.PharmacyID, validation.Required),
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&p.Stock, validation.Min(0)),
	)
}

func validTimeOfDay(value interface{}) error {
	s, _ := value.(string)
	if _, err := time.Parse(timeOfDayLayout, s); err != nil {
		return ErrInvalidTimeOfDay
	}
	return nil
}

func notInFuture(value interface{}) error {
	t, _ := value.(time.Time)
	if t.After(time.Now()) {
		return ErrDiagnosisInFuture
	}
	return nil
}

func notInPast(value interface{}) error {
	t, _ := value.(time.Time)
	if !t.IsZero() && t.Before(time.Now()) {
		return ErrAppointmentInPast
	}
	return nil
}

// ValidationDetails flattens an ozzo error into a sorted field: message list
// for the 400 response's details array.
func ValidationDetails(err error) []string {
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	keys := make([]string, 0, len(ve))
	for k := range ve {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	details := make([]string, 0, len(keys))
	for _, k := range keys {
		details = append(details, fmt.Sprintf("%s: %s", k, ve[k].Error()))
	}
	return details
}
