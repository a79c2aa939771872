package services

import (
	"CareLink/models"
	"CareLink/query"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecordStore implements the repository contract in memory: soft delete
// flips is_active, collection reads skip inactive rows, direct lookups do not.
type fakeRecordStore struct {
	records map[string]*models.MedicalRecord
	nextID  int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: map[string]*models.MedicalRecord{}}
}

func (s *fakeRecordStore) Create(_ context.Context, rec *models.MedicalRecord) error {
	if rec.ID == "" {
		s.nextID++
		rec.ID = fmt.Sprintf("record-%d", s.nextID)
	}
	if rec.Status == "" {
		rec.Status = models.StatusActive
	}
	rec.IsActive = true
	stored := *rec
	s.records[rec.ID] = &stored
	return nil
}

func (s *fakeRecordStore) GetByID(_ context.Context, _ models.Actor, id string) (*models.MedicalRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	found := *rec
	return &found, nil
}

func (s *fakeRecordStore) List(_ context.Context, _ models.Actor, _ query.Criteria) ([]models.MedicalRecord, int64, error) {
	var records []models.MedicalRecord
	for _, rec := range s.records {
		if rec.IsActive {
			records = append(records, *rec)
		}
	}
	return records, int64(len(records)), nil
}

func (s *fakeRecordStore) Update(_ context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.MedicalRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	if status, ok := changes["status"].(string); ok {
		rec.Status = status
	}
	if title, ok := changes["title"].(string); ok {
		rec.Title = title
	}
	found := *rec
	return &found, nil
}

func (s *fakeRecordStore) SoftDelete(_ context.Context, _ models.Actor, id string) (bool, error) {
	rec, ok := s.records[id]
	if !ok {
		return false, nil
	}
	rec.IsActive = false
	return true, nil
}

func (s *fakeRecordStore) CountsByStatus(_ context.Context, _ models.Actor) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, rec := range s.records {
		if rec.IsActive {
			counts[rec.Status]++
		}
	}
	return counts, nil
}

func labResult(patientID, doctorID string) *models.MedicalRecord {
	return &models.MedicalRecord{
		PatientID:     patientID,
		DoctorID:      doctorID,
		RecordType:    models.RecordTypeLabResult,
		Title:         "CBC panel",
		Description:   "Complete blood count, fasting",
		DiagnosisDate: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateThenFetchPreservesFields(t *testing.T) {
	svc := NewRecordService(newFakeRecordStore())
	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}

	rec := labResult("patient-1", "doctor-1")
	require.NoError(t, svc.Create(context.Background(), rec))
	require.NotEmpty(t, rec.ID)

	fetched, err := svc.GetByID(context.Background(), admin, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "patient-1", fetched.PatientID)
	assert.Equal(t, "doctor-1", fetched.DoctorID)
	assert.Equal(t, models.RecordTypeLabResult, fetched.RecordType)
	assert.Equal(t, "CBC panel", fetched.Title)
	assert.Equal(t, "Complete blood count, fasting", fetched.Description)
	assert.Equal(t, rec.DiagnosisDate, fetched.DiagnosisDate)
	assert.Equal(t, models.StatusActive, fetched.Status)
	assert.True(t, fetched.IsActive)
}

func TestDeleteHidesFromListKeepsDirectLookup(t *testing.T) {
	svc := NewRecordService(newFakeRecordStore())
	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}

	deleted := labResult("patient-1", "doctor-1")
	kept := labResult("patient-2", "doctor-1")
	require.NoError(t, svc.Create(context.Background(), deleted))
	require.NoError(t, svc.Create(context.Background(), kept))

	require.NoError(t, svc.Delete(context.Background(), admin, deleted.ID))

	records, total, err := svc.List(context.Background(), admin, query.Criteria{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, kept.ID, records[0].ID)

	// The row survives deletion and stays reachable by direct ID.
	fetched, err := svc.GetByID(context.Background(), admin, deleted.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)
}

func TestDeleteUnknownRecordIsNotFound(t *testing.T) {
	svc := NewRecordService(newFakeRecordStore())
	admin := models.Actor{ID: "admin-1", Role: models.RoleAdmin}

	err := svc.Delete(context.Background(), admin, "0b7c2f1e-3a4d-4e5f-8a9b-1c2d3e4f5a6b")
	assert.ErrorIs(t, err, ErrNotFound)
}
