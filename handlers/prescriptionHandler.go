package handlers

import (
	"CareLink/middlewares"
	"CareLink/models"
	"CareLink/query"
	"CareLink/services"
	"CareLink/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

type medicationPayload struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type prescriptionPayload struct {
	PatientID   string              `json:"patient_id"`
	Diagnosis   string              `json:"diagnosis"`
	Notes       string              `json:"notes"`
	Medications []medicationPayload `json:"medications"`
}

func toMedications(payloads []medicationPayload) []models.Medication {
	medications := make([]models.Medication, len(payloads))
	for i, m := range payloads {
		medications[i] = models.Medication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		}
	}
	return medications
}

func (h *PrescriptionHandler) Create(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload prescriptionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p := models.Prescription{
		PatientID:   payload.PatientID,
		DoctorID:    actor.ID,
		Diagnosis:   payload.Diagnosis,
		Notes:       payload.Notes,
		Medications: toMedications(payload.Medications),
	}
	if err := utils.ValidatePrescription(&p); err != nil {
		middlewares.RespondValidation(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), &p); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to create prescription", err)
		return
	}
	middlewares.RespondData(c, http.StatusCreated, p)
}

func (h *PrescriptionHandler) GetByID(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid prescription ID", err)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, "prescription", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, p)
}

func (h *PrescriptionHandler) List(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	criteria := query.Parse(c.Request.URL.Query(), "status", "patient_id", "doctor_id")
	prescriptions, total, err := h.service.List(c.Request.Context(), actor, criteria)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list prescriptions", err)
		return
	}
	middlewares.RespondList(c, prescriptions, middlewares.Pagination{
		Page:       criteria.Page,
		Limit:      criteria.Limit,
		Total:      total,
		TotalPages: query.TotalPages(total, criteria.Limit),
	})
}

type prescriptionUpdatePayload struct {
	Diagnosis   *string              `json:"diagnosis"`
	Notes       *string              `json:"notes"`
	Medications *[]medicationPayload `json:"medications"`
}

func (p prescriptionUpdatePayload) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Diagnosis != nil {
		changes["diagnosis"] = *p.Diagnosis
	}
	if p.Notes != nil {
		changes["notes"] = *p.Notes
	}
	return changes
}

func (h *PrescriptionHandler) Update(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid prescription ID", err)
		return
	}

	var payload prescriptionUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var medications []models.Medication
	if payload.Medications != nil {
		medications = toMedications(*payload.Medications)
		for i := range medications {
			if err := utils.ValidateMedication(&medications[i]); err != nil {
				middlewares.RespondValidation(c, err)
				return
			}
		}
	}

	p, err := h.service.Update(c.Request.Context(), actor, id, payload.changes(), medications)
	if err != nil {
		respondServiceError(c, "prescription", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, p)
}

func (h *PrescriptionHandler) UpdateStatus(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid prescription ID", err)
		return
	}

	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.service.UpdateStatus(c.Request.Context(), actor, id, payload.Status)
	if err != nil {
		respondServiceError(c, "prescription", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, p)
}

func (h *PrescriptionHandler) Delete(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid prescription ID", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, "prescription", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Prescription deleted successfully")
}

func (h *PrescriptionHandler) Stats(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to load prescription stats", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, stats)
}
