package handlers

import (
	"CareLink/middlewares"
	"CareLink/query"
	"CareLink/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service *services.OrderService
}

func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type checkoutPayload struct {
	ShippingAddress string `json:"shipping_address"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload checkoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(payload.ShippingAddress) == "" {
		middlewares.RespondValidation(c, validationError("shipping_address", errShippingAddressRequired))
		return
	}

	order, err := h.service.Checkout(c.Request.Context(), actor, payload.ShippingAddress)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}
	middlewares.RespondData(c, http.StatusCreated, order)
}

func (h *OrderHandler) GetByID(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	criteria := query.Parse(c.Request.URL.Query(), "status", "patient_id")
	orders, total, err := h.service.List(c.Request.Context(), actor, criteria)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to list orders", err)
		return
	}
	middlewares.RespondList(c, orders, middlewares.Pagination{
		Page:       criteria.Page,
		Limit:      criteria.Limit,
		Total:      total,
		TotalPages: query.TotalPages(total, criteria.Limit),
	})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), actor, id, payload.Status)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, "order", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Order cancelled successfully")
}

func (h *OrderHandler) Stats(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), actor)
	if err != nil {
		middlewares.RespondError(c, http.StatusInternalServerError, "Failed to load order stats", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, stats)
}
