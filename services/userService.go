package services

import (
	"CareLink/database"
	"CareLink/models"
	"CareLink/repositories"
	"CareLink/utils"
	"context"
	"errors"
	"fmt"
	"log"
)

type UserService interface {
	ValidateAndCreateUser(ctx context.Context, user *models.User) error
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID string, changes map[string]interface{}) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetDoctors(ctx context.Context) ([]models.User, error)
	GetPharmacists(ctx context.Context) ([]models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	mailer   utils.Mailer
}

func NewUserService(userRepo repositories.UserRepository, mailer utils.Mailer) UserService {
	return &userService{userRepo: userRepo, mailer: mailer}
}

func (s *userService) ValidateAndCreateUser(ctx context.Context, user *models.User) error {
	lockKey := fmt.Sprintf("user_lock:%s", user.Email)
	return database.WithLock(ctx, lockKey, user.Email, func() error {
		if err := utils.ValidateUserData(*user); err != nil {
			return fmt.Errorf("invalid user data: %w", err)
		}
		if user.Password == "" {
			return errors.New("password cannot be blank")
		}

		if exists, err := s.userRepo.EmailExists(ctx, user.Email); err != nil {
			return err
		} else if exists {
			return ErrEmailTaken
		}
		if exists, err := s.userRepo.UsernameExists(ctx, user.Username); err != nil {
			return err
		} else if exists {
			return ErrUsernameTaken
		}
		if err := s.userRepo.ValidateRoleID(ctx, user.RoleID); err != nil {
			return fmt.Errorf("invalid role ID: %w", err)
		}

		hashedPassword, err := utils.HashPassword(user.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashedPassword

		return s.userRepo.CreateUser(ctx, user)
	})
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.AuthenticateUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if user == nil || !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	user.Password = ""
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) UpdateUserProfile(ctx context.Context, userID string, changes map[string]interface{}) (*models.User, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateUserProfile(ctx, userID, changes); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	// The cached profile never carries the hash; load it for the check.
	full, err := s.userRepo.AuthenticateUser(ctx, user.Email)
	if err != nil || full == nil {
		return ErrInvalidCredentials
	}
	if !utils.CheckPassword(full.Password, currentPassword) {
		return ErrInvalidCredentials
	}
	if err := utils.ValidateNewPassword(newPassword); err != nil {
		return err
	}
	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdateUserPassword(ctx, userID, hashed)
}

// RequestPasswordReset mails a short-lived code. An unknown email gets the
// same silence as a known one so the endpoint cannot be used to probe accounts.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	code := utils.GenerateResetCode()
	if err := utils.SetResetCode(ctx, email, code); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	go func() {
		subject, text, html := utils.ResetCodeMail(code)
		if err := s.mailer.Send(email, subject, text, html); err != nil {
			log.Printf("Failed to send reset code mail: %v", err)
		}
	}()
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	stored, err := utils.GetResetCode(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to read reset code: %w", err)
	}
	if err := utils.ValidatePasswordReset(code, newPassword); err != nil {
		return err
	}
	if stored == nil || *stored != code {
		return errors.New("invalid or expired reset code")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdateUserPassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	if err := utils.DeleteResetCode(ctx, email); err != nil {
		log.Printf("Failed to delete reset code: %v", err)
	}
	return s.userRepo.DeleteUserCache(ctx, email)
}

func (s *userService) GetDoctors(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetUsersByRole(ctx, models.RoleDoctor)
}

func (s *userService) GetPharmacists(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetUsersByRole(ctx, models.RolePharmacist)
}
