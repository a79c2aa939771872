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

type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productPayload struct {
	PharmacyID  string  `json:"pharmacy_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p := models.Product{
		PharmacyID:   payload.PharmacyID,
		PharmacistID: actor.ID,
		Name:         payload.Name,
		Category:     payload.Category,
		Description:  payload.Description,
		Price:        payload.Price,
		Stock:        payload.Stock,
	}
	if err := utils.ValidateProduct(&p); err != nil {
		middlewares.RespondValidation(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), &p); err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to create product", err)
		return
	}
	middlewares.RespondData(c, http.StatusCreated, p)
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, "product", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, p)
}

func (h *ProductHandler) List(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	criteria := query.Parse(c.Request.URL.Query(), "category", "pharmacy_id")
	products, total, err := h.service.List(c.Request.Context(), actor, criteria)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list products", err)
		return
	}
	middlewares.RespondList(c, products, middlewares.Pagination{
		Page:       criteria.Page,
		Limit:      criteria.Limit,
		Total:      total,
		TotalPages: query.TotalPages(total, criteria.Limit),
	})
}

type productUpdatePayload struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

func (p productUpdatePayload) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Name != nil {
		changes["name"] = *p.Name
	}
	if p.Category != nil {
		changes["category"] = *p.Category
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.Price != nil {
		changes["price"] = *p.Price
	}
	if p.Stock != nil {
		changes["stock"] = *p.Stock
	}
	return changes
}

func (h *ProductHandler) Update(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	var payload productUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if payload.Price != nil && *payload.Price <= 0 {
		middlewares.RespondValidation(c, validationError("price", errPriceNotPositive))
		return
	}
	if payload.Stock != nil && *payload.Stock < 0 {
		middlewares.RespondValidation(c, validationError("stock", errStockNegative))
		return
	}

	p, err := h.service.Update(c.Request.Context(), actor, id, payload.changes())
	if err != nil {
		respondServiceError(c, "product", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, "product", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) Stats(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to load product stats", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, stats)
}
