package handlers

import (
	"CareLink/middlewares"
	"CareLink/models"
	"CareLink/services"
	"CareLink/utils"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errRoleNotRegistrable = errors.New("cannot be chosen at registration")

type AuthHandler struct {
	UserService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

type registerPayload struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Sex         string `json:"sex"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	RoleID      int64  `json:"role_id"`
}

// Register creates a new account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Admin accounts come from seeding or admin tooling, never from
	// self-registration.
	switch payload.RoleID {
	case 0:
		payload.RoleID = models.RoleIDPatient
	case models.RoleIDDoctor, models.RoleIDPatient, models.RoleIDPharmacist:
	default:
		middlewares.RespondValidation(c, validationError("role_id", errRoleNotRegistrable))
		return
	}

	user := models.User{
		Username:    payload.Username,
		Email:       payload.Email,
		Password:    payload.Password,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Sex:         payload.Sex,
		DateOfBirth: payload.DateOfBirth,
		Phone:       payload.Phone,
		Address:     payload.Address,
		RoleID:      payload.RoleID,
	}

	ctx := c.Request.Context()
	if err := h.UserService.ValidateAndCreateUser(ctx, &user); err != nil {
		var ve validation.Errors
		switch {
		case errors.As(err, &ve):
			middlewares.RespondValidation(c, ve)
		case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
			middlewares.RespondError(c, http.StatusBadRequest, err.Error(), nil)
		default:
			middlewares.RespondError(c, http.StatusBadRequest, "Registration failed", err)
		}
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user.ID, roleName(user.RoleID))
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to issue session", err)
		return
	}
	utils.SetAuthCookies(c, accessToken, refreshToken)

	user.Password = ""
	middlewares.RespondData(c, http.StatusCreated, gin.H{
		"user":        user,
		"accessToken": accessToken,
	})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates the user and sets the session cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.UserService.AuthenticateUser(ctx, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			middlewares.RespondError(c, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		middlewares.RespondError(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user.ID, user.Role.Name)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to issue session", err)
		return
	}
	utils.SetAuthCookies(c, accessToken, refreshToken)

	middlewares.RespondData(c, http.StatusOK, gin.H{
		"user":        user,
		"accessToken": accessToken,
	})
}

// RefreshToken mints a fresh access token from a valid refresh token cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, err := c.Cookie("refreshToken")
	if err != nil || refreshToken == "" {
		middlewares.RespondError(c, http.StatusUnauthorized, "Missing refresh token", err)
		return
	}

	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}

	accessToken, err := utils.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to refresh session", err)
		return
	}
	utils.SetAuthCookies(c, accessToken, refreshToken)

	middlewares.RespondData(c, http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout clears the session cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearAuthCookies(c)
	middlewares.RespondMessage(c, http.StatusOK, "Logged out")
}

// Profile returns the signed-in user, with age computed from the birth date.
func (h *AuthHandler) Profile(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	user, err := h.UserService.GetUserByID(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, "user", err)
		return
	}

	response := gin.H{"user": user}
	if user.DateOfBirth != "" {
		if age, err := utils.Age(user.DateOfBirth); err == nil {
			response["age"] = age
		}
	}
	middlewares.RespondData(c, http.StatusOK, response)
}

type profileUpdatePayload struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Sex       *string `json:"sex"`
}

func (p profileUpdatePayload) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.FirstName != nil {
		changes["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		changes["last_name"] = *p.LastName
	}
	if p.Phone != nil {
		changes["phone"] = *p.Phone
	}
	if p.Address != nil {
		changes["address"] = *p.Address
	}
	if p.Sex != nil {
		changes["sex"] = *p.Sex
	}
	return changes
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload profileUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if payload.Phone != nil {
		if err := utils.ValidatePhone(*payload.Phone); err != nil {
			middlewares.RespondValidation(c, validationError("phone", err))
			return
		}
	}

	user, err := h.UserService.UpdateUserProfile(c.Request.Context(), actor.ID, payload.changes())
	if err != nil {
		respondServiceError(c, "user", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, user)
}

type changePasswordPayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err = h.UserService.ChangePassword(c.Request.Context(), actor.ID, payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		var ve validation.Errors
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			middlewares.RespondError(c, http.StatusUnauthorized, "Current password is incorrect", nil)
		case errors.As(err, &ve):
			middlewares.RespondValidation(c, ve)
		default:
			respondServiceError(c, "user", err)
		}
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Password changed successfully")
}

type resetRequestPayload struct {
	Email string `json:"email"`
}

// SendResetCode mails a reset code. The response is identical whether the
// email exists or not.
func (h *AuthHandler) SendResetCode(c *gin.Context) {
	var payload resetRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.UserService.RequestPasswordReset(c.Request.Context(), payload.Email); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to send reset code", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "If the email is registered, a reset code has been sent")
}

type resetConfirmPayload struct {
	Email       string `json:"email"`
	ResetCode   string `json:"reset_code"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var payload resetConfirmPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.UserService.ResetPassword(c.Request.Context(), payload.Email, payload.ResetCode, payload.NewPassword)
	if err != nil {
		var ve validation.Errors
		switch {
		case errors.As(err, &ve):
			middlewares.RespondValidation(c, ve)
		case errors.Is(err, services.ErrNotFound):
			middlewares.RespondError(c, http.StatusNotFound, "user not found", nil)
		default:
			middlewares.RespondError(c, http.StatusBadRequest, "Invalid or expired reset code", err)
		}
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Password reset successfully")
}

// ListDoctors supports the booking flow.
func (h *AuthHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.UserService.GetDoctors(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list doctors", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, doctors)
}

// ListPharmacists supports admin tooling.
func (h *AuthHandler) ListPharmacists(c *gin.Context) {
	pharmacists, err := h.UserService.GetPharmacists(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list pharmacists", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, pharmacists)
}

func roleName(roleID int64) string {
	switch roleID {
	case models.RoleIDAdmin:
		return models.RoleAdmin
	case models.RoleIDDoctor:
		return models.RoleDoctor
	case models.RoleIDPharmacist:
		return models.RolePharmacist
	default:
		return models.RolePatient
	}
}
