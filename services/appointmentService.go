package services

import (
	"CareLink/models"
	"CareLink/query"
	"CareLink/repositories"
	"CareLink/utils"
	"context"
	"fmt"
	"log"
)

type AppointmentService struct {
	repository *repositories.AppointmentRepository
	users      repositories.UserRepository
	mailer     utils.Mailer
}

func NewAppointmentService(repository *repositories.AppointmentRepository, users repositories.UserRepository, mailer utils.Mailer) *AppointmentService {
	return &AppointmentService{repository: repository, users: users, mailer: mailer}
}

func (s *AppointmentService) Create(ctx context.Context, app *models.Appointment) error {
	if err := s.repository.Create(ctx, app); err != nil {
		return err
	}
	go s.sendConfirmation(app.PatientID, app.DoctorID, app)
	return nil
}

// sendConfirmation mails the patient after booking. Failures are logged, never
// surfaced; the appointment is already stored.
func (s *AppointmentService) sendConfirmation(patientID, doctorID string, app *models.Appointment) {
	ctx := context.Background()
	patient, err := s.users.GetUserByID(ctx, patientID)
	if err != nil || patient == nil {
		log.Printf("Failed to load patient %s for confirmation mail: %v", patientID, err)
		return
	}
	doctorName := "your doctor"
	if doctor, err := s.users.GetUserByID(ctx, doctorID); err == nil && doctor != nil {
		doctorName = fmt.Sprintf("Dr. %s %s", doctor.FirstName, doctor.LastName)
	}
	subject, text, html := utils.AppointmentConfirmationMail(app.DateTime, doctorName)
	if err := s.mailer.Send(patient.Email, subject, text, html); err != nil {
		log.Printf("Failed to send appointment confirmation: %v", err)
	}
}

func (s *AppointmentService) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Appointment, error) {
	app, err := s.repository.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

func (s *AppointmentService) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Appointment, int64, error) {
	return s.repository.List(ctx, actor, c)
}

func (s *AppointmentService) Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Appointment, error) {
	app, err := s.repository.Update(ctx, actor, id, changes)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, actor models.Actor, id, status string) (*models.Appointment, error) {
	if !models.AppointmentTransitions.Valid(status) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	app, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !models.AppointmentTransitions.Allowed(app.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, status)
	}
	return s.Update(ctx, actor, id, map[string]interface{}{"status": status})
}

// Delete cancels the appointment.
func (s *AppointmentService) Delete(ctx context.Context, actor models.Actor, id string) error {
	deleted, err := s.repository.SoftDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *AppointmentService) Stats(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	return s.repository.CountsByStatus(ctx, actor)
}
