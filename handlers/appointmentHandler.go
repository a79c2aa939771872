package handlers

import (
	"CareLink/middlewares"
	"CareLink/models"
	"CareLink/query"
	"CareLink/services"
	"CareLink/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type appointmentPayload struct {
	PatientID string    `json:"patient_id"`
	DoctorID  string    `json:"doctor_id"`
	DateTime  time.Time `json:"date_time"`
	Reason    string    `json:"reason"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload appointmentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	app := models.Appointment{
		PatientID: payload.PatientID,
		DoctorID:  payload.DoctorID,
		DateTime:  payload.DateTime,
		Reason:    payload.Reason,
	}
	// Patients book for themselves; doctors book for their patients.
	switch actor.Role {
	case models.RolePatient:
		app.PatientID = actor.ID
	case models.RoleDoctor:
		app.DoctorID = actor.ID
	}
	if err := utils.ValidateAppointment(&app); err != nil {
		middlewares.RespondValidation(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), &app); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to create appointment", err)
		return
	}
	middlewares.RespondData(c, http.StatusCreated, app)
}

func (h *AppointmentHandler) GetByID(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid appointment ID", err)
		return
	}

	app, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, "appointment", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, app)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	criteria := query.Parse(c.Request.URL.Query(), "status", "doctor_id", "patient_id")
	appointments, total, err := h.service.List(c.Request.Context(), actor, criteria)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list appointments", err)
		return
	}
	middlewares.RespondList(c, appointments, middlewares.Pagination{
		Page:       criteria.Page,
		Limit:      criteria.Limit,
		Total:      total,
		TotalPages: query.TotalPages(total, criteria.Limit),
	})
}

type appointmentUpdatePayload struct {
	DateTime *time.Time `json:"date_time"`
	Reason   *string    `json:"reason"`
}

func (p appointmentUpdatePayload) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.DateTime != nil {
		changes["date_time"] = *p.DateTime
	}
	if p.Reason != nil {
		changes["reason"] = *p.Reason
	}
	return changes
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid appointment ID", err)
		return
	}

	var payload appointmentUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if payload.DateTime != nil && payload.DateTime.Before(time.Now()) {
		middlewares.RespondValidation(c, validationError("date_time", utils.ErrAppointmentInPast))
		return
	}

	app, err := h.service.Update(c.Request.Context(), actor, id, payload.changes())
	if err != nil {
		respondServiceError(c, "appointment", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, app)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid appointment ID", err)
		return
	}

	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	app, err := h.service.UpdateStatus(c.Request.Context(), actor, id, payload.Status)
	if err != nil {
		respondServiceError(c, "appointment", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, app)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid appointment ID", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, "appointment", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Appointment cancelled successfully")
}

func (h *AppointmentHandler) Stats(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to load appointment stats", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, stats)
}
