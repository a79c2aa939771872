package handlers

import (
	"CareLink/models"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService records the user handed to registration; the other methods
// exist to satisfy the interface.
type fakeUserService struct {
	created *models.User
}

func (f *fakeUserService) ValidateAndCreateUser(_ context.Context, user *models.User) error {
	user.ID = "user-1"
	f.created = user
	return nil
}

func (f *fakeUserService) AuthenticateUser(_ context.Context, _, _ string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserService) GetUserByID(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserService) GetUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserService) UpdateUserProfile(_ context.Context, _ string, _ map[string]interface{}) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserService) ChangePassword(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeUserService) RequestPasswordReset(_ context.Context, _ string) error { return nil }

func (f *fakeUserService) ResetPassword(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeUserService) GetDoctors(_ context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeUserService) GetPharmacists(_ context.Context) ([]models.User, error) { return nil, nil }

func newRegisterRouter(svc *fakeUserService) *gin.Engine {
	router := gin.New()
	router.POST("/api/auth/register", NewAuthHandler(svc).Register)
	return router
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := &fakeUserService{}
	router := newRegisterRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"mallory","email":"mallory@example.com","password":"Str0ng!pass","role_id":1}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	details := body["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Contains(t, details[0], "role_id")

	// No account is created for a rejected role.
	assert.Nil(t, svc.created)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := &fakeUserService{}
	router := newRegisterRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"mallory","email":"mallory@example.com","password":"Str0ng!pass","role_id":42}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)
}

func TestRegisterDefaultsToPatientRole(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	svc := &fakeUserService{}
	router := newRegisterRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"alex","email":"alex@example.com","password":"Str0ng!pass"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, models.RoleIDPatient, svc.created.RoleID)
}

func TestRegisterAllowsDoctorRole(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	svc := &fakeUserService{}
	router := newRegisterRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"drho","email":"ho@example.com","password":"Str0ng!pass","role_id":2}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, models.RoleIDDoctor, svc.created.RoleID)
}
