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

type PharmacyHandler struct {
	service *services.PharmacyService
}

func NewPharmacyHandler(service *services.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{service: service}
}

type pharmacyPayload struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	OpenTime      string `json:"open_time"`
	CloseTime     string `json:"close_time"`
}

func (h *PharmacyHandler) Create(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload pharmacyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ph := models.Pharmacy{
		PharmacistID:  actor.ID,
		Name:          payload.Name,
		LicenseNumber: payload.LicenseNumber,
		Phone:         payload.Phone,
		Address:       payload.Address,
		OpenTime:      payload.OpenTime,
		CloseTime:     payload.CloseTime,
	}
	if err := utils.ValidatePharmacy(&ph); err != nil {
		middlewares.RespondValidation(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), &ph); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to create pharmacy", err)
		return
	}
	middlewares.RespondData(c, http.StatusCreated, ph)
}

func (h *PharmacyHandler) GetByID(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid pharmacy ID", err)
		return
	}

	ph, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, "pharmacy", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, ph)
}

func (h *PharmacyHandler) List(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	criteria := query.Parse(c.Request.URL.Query(), "pharmacist_id")
	pharmacies, total, err := h.service.List(c.Request.Context(), actor, criteria)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list pharmacies", err)
		return
	}
	middlewares.RespondList(c, pharmacies, middlewares.Pagination{
		Page:       criteria.Page,
		Limit:      criteria.Limit,
		Total:      total,
		TotalPages: query.TotalPages(total, criteria.Limit),
	})
}

type pharmacyUpdatePayload struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
}

func (p pharmacyUpdatePayload) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Phone != nil {
		changes["phone"] = *p.Phone
	}
	if p.Address != nil {
		changes["address"] = *p.Address
	}
	if p.OpenTime != nil {
		changes["open_time"] = *p.OpenTime
	}
	if p.CloseTime != nil {
		changes["close_time"] = *p.CloseTime
	}
	return changes
}

func (h *PharmacyHandler) Update(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid pharmacy ID", err)
		return
	}

	var payload pharmacyUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Hours ordering must hold across the merged state, so fetch the current
	// values for whichever side the body left out.
	if payload.OpenTime != nil || payload.CloseTime != nil {
		existing, err := h.service.GetByID(c.Request.Context(), actor, id)
		if err != nil {
			respondServiceError(c, "pharmacy", err)
			return
		}
		open, close := existing.OpenTime, existing.CloseTime
		if payload.OpenTime != nil {
			open = *payload.OpenTime
		}
		if payload.CloseTime != nil {
			close = *payload.CloseTime
		}
		if err := utils.ValidateOperatingHours(open, close); err != nil {
			middlewares.RespondValidation(c, err)
			return
		}
	}
	if payload.Phone != nil {
		if err := utils.ValidatePhone(*payload.Phone); err != nil {
			middlewares.RespondValidation(c, validationError("phone", err))
			return
		}
	}

	ph, err := h.service.Update(c.Request.Context(), actor, id, payload.changes())
	if err != nil {
		respondServiceError(c, "pharmacy", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, ph)
}

func (h *PharmacyHandler) Delete(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid pharmacy ID", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, "pharmacy", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Pharmacy deleted successfully")
}
