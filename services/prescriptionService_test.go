package services

import (
	"CareLink/models"
	"CareLink/query"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prescriptionUpdateCall struct {
	changes     map[string]interface{}
	medications []models.Medication
}

type fakePrescriptionStore struct {
	prescriptions map[string]*models.Prescription
	updates       []prescriptionUpdateCall
}

func (s *fakePrescriptionStore) Create(_ context.Context, p *models.Prescription) error {
	s.prescriptions[p.ID] = p
	return nil
}

func (s *fakePrescriptionStore) GetByID(_ context.Context, _ models.Actor, id string) (*models.Prescription, error) {
	p, ok := s.prescriptions[id]
	if !ok {
		return nil, nil
	}
	found := *p
	return &found, nil
}

func (s *fakePrescriptionStore) List(_ context.Context, _ models.Actor, _ query.Criteria) ([]models.Prescription, int64, error) {
	return nil, 0, nil
}

func (s *fakePrescriptionStore) Update(_ context.Context, _ models.Actor, id string, changes map[string]interface{}, medications []models.Medication) (*models.Prescription, error) {
	p, ok := s.prescriptions[id]
	if !ok {
		return nil, nil
	}
	s.updates = append(s.updates, prescriptionUpdateCall{changes: changes, medications: medications})
	if diagnosis, ok := changes["diagnosis"].(string); ok {
		p.Diagnosis = diagnosis
	}
	if status, ok := changes["status"].(string); ok {
		p.Status = status
	}
	if medications != nil {
		p.Medications = medications
	}
	found := *p
	return &found, nil
}

func (s *fakePrescriptionStore) SoftDelete(_ context.Context, _ models.Actor, id string) (bool, error) {
	_, ok := s.prescriptions[id]
	return ok, nil
}

func (s *fakePrescriptionStore) CountsByStatus(_ context.Context, _ models.Actor) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func seededPrescriptionStore(id string) *fakePrescriptionStore {
	return &fakePrescriptionStore{
		prescriptions: map[string]*models.Prescription{
			id: {
				ID:        id,
				PatientID: "patient-1",
				DoctorID:  "doctor-1",
				Diagnosis: "Seasonal allergies",
				Status:    models.StatusActive,
				Medications: []models.Medication{
					{Name: "Loratadine", Dosage: "10mg", Frequency: "once daily", Duration: "14 days"},
				},
			},
		},
	}
}

const prescriptionID = "4f8d2a6c-1b3e-4c5d-9e7f-2a1b3c4d5e6f"

func TestUpdateAppliesFieldsAndMedicationsInOneCall(t *testing.T) {
	store := seededPrescriptionStore(prescriptionID)
	svc := NewPrescriptionService(store)
	doctor := models.Actor{ID: "doctor-1", Role: models.RoleDoctor}

	medications := []models.Medication{
		{Name: "Cetirizine", Dosage: "5mg", Frequency: "twice daily", Duration: "7 days"},
	}
	p, err := svc.Update(context.Background(), doctor, prescriptionID,
		map[string]interface{}{"diagnosis": "Perennial allergies"}, medications)
	require.NoError(t, err)

	// Field changes and the medication swap travel in a single store call.
	require.Len(t, store.updates, 1)
	assert.Equal(t, "Perennial allergies", store.updates[0].changes["diagnosis"])
	require.Len(t, store.updates[0].medications, 1)
	assert.Equal(t, "Cetirizine", store.updates[0].medications[0].Name)

	assert.Equal(t, "Perennial allergies", p.Diagnosis)
	require.Len(t, p.Medications, 1)
	assert.Equal(t, "Cetirizine", p.Medications[0].Name)
}

func TestUpdateStatusLeavesMedicationsUntouched(t *testing.T) {
	store := seededPrescriptionStore(prescriptionID)
	svc := NewPrescriptionService(store)
	doctor := models.Actor{ID: "doctor-1", Role: models.RoleDoctor}

	p, err := svc.UpdateStatus(context.Background(), doctor, prescriptionID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, p.Status)

	require.Len(t, store.updates, 1)
	assert.Nil(t, store.updates[0].medications)
	require.Len(t, p.Medications, 1)
	assert.Equal(t, "Loratadine", p.Medications[0].Name)
}

func TestPrescriptionStatusRejectsInvalidTransition(t *testing.T) {
	store := seededPrescriptionStore(prescriptionID)
	store.prescriptions[prescriptionID].Status = models.StatusCompleted
	svc := NewPrescriptionService(store)
	doctor := models.Actor{ID: "doctor-1", Role: models.RoleDoctor}

	_, err := svc.UpdateStatus(context.Background(), doctor, prescriptionID, models.StatusActive)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, store.updates)
}
