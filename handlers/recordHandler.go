package handlers

import (
	"CareLink/middlewares"
	"CareLink/models"
	"CareLink/query"
	"CareLink/services"
	"CareLink/utils"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecordHandler struct {
	service   *services.RecordService
	uploadDir string
}

func NewRecordHandler(service *services.RecordService, uploadDir string) *RecordHandler {
	return &RecordHandler{service: service, uploadDir: uploadDir}
}

type recordPayload struct {
	PatientID     string    `json:"patient_id"`
	RecordType    string    `json:"record_type"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DiagnosisDate time.Time `json:"diagnosis_date"`
	Attachment    string    `json:"attachment"`
}

func (h *RecordHandler) Create(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload recordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec := models.MedicalRecord{
		PatientID:     payload.PatientID,
		DoctorID:      actor.ID,
		RecordType:    payload.RecordType,
		Title:         payload.Title,
		Description:   payload.Description,
		DiagnosisDate: payload.DiagnosisDate,
		Attachment:    payload.Attachment,
	}
	if err := utils.ValidateMedicalRecord(&rec); err != nil {
		middlewares.RespondValidation(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), &rec); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to create medical record", err)
		return
	}
	middlewares.RespondData(c, http.StatusCreated, rec)
}

func (h *RecordHandler) GetByID(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid record ID", err)
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, "medical record", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, rec)
}

func (h *RecordHandler) List(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	criteria := query.Parse(c.Request.URL.Query(), "status", "record_type", "patient_id")
	records, total, err := h.service.List(c.Request.Context(), actor, criteria)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list medical records", err)
		return
	}
	middlewares.RespondList(c, records, middlewares.Pagination{
		Page:       criteria.Page,
		Limit:      criteria.Limit,
		Total:      total,
		TotalPages: query.TotalPages(total, criteria.Limit),
	})
}

type recordUpdatePayload struct {
	RecordType    *string    `json:"record_type"`
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	DiagnosisDate *time.Time `json:"diagnosis_date"`
	Attachment    *string    `json:"attachment"`
}

// changes maps only the fields present in the body, so a repeated PUT with the
// same payload is a no-op.
func (p recordUpdatePayload) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.RecordType != nil {
		changes["record_type"] = *p.RecordType
	}
	if p.Title != nil {
		changes["title"] = *p.Title
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.DiagnosisDate != nil {
		changes["diagnosis_date"] = *p.DiagnosisDate
	}
	if p.Attachment != nil {
		changes["attachment"] = *p.Attachment
	}
	return changes
}

func (h *RecordHandler) Update(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid record ID", err)
		return
	}

	var payload recordUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if payload.DiagnosisDate != nil && payload.DiagnosisDate.After(time.Now()) {
		middlewares.RespondValidation(c, validationError("diagnosis_date", utils.ErrDiagnosisInFuture))
		return
	}

	rec, err := h.service.Update(c.Request.Context(), actor, id, payload.changes())
	if err != nil {
		respondServiceError(c, "medical record", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, rec)
}

func (h *RecordHandler) UpdateStatus(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid record ID", err)
		return
	}

	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec, err := h.service.UpdateStatus(c.Request.Context(), actor, id, payload.Status)
	if err != nil {
		respondServiceError(c, "medical record", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, rec)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid record ID", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, "medical record", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Medical record deleted successfully")
}

func (h *RecordHandler) Stats(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to load record stats", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, stats)
}

// UploadAttachment stores a multipart file under the upload directory and
// returns its served filename.
func (h *RecordHandler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Missing file upload", err)
		return
	}

	name := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(file.Filename))
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to store attachment", err)
		return
	}
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to store attachment", err)
		return
	}
	middlewares.RespondData(c, http.StatusCreated, gin.H{"filename": name})
}

// DownloadAttachment streams a stored attachment. The filename must be a bare
// name; anything with a path component is rejected.
func (h *RecordHandler) DownloadAttachment(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" || filename != filepath.Base(filename) {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid filename", nil)
		return
	}

	path := filepath.Join(h.uploadDir, filename)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		middlewares.RespondError(c, http.StatusNotFound, "attachment not found", nil)
		return
	} else if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to read attachment", err)
		return
	}
	c.FileAttachment(path, filename)
}
