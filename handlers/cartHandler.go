package handlers

import (
	"CareLink/middlewares"
	"CareLink/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	service *services.CartService
}

func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Get(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	cart, err := h.service.Get(c.Request.Context(), actor.ID)
	if err != nil {
		respondServiceError(c, "cart", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, cart)
}

type cartItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var payload cartItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, err := uuid.Parse(payload.ProductID); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}
	if payload.Quantity <= 0 {
		payload.Quantity = 1
	}

	cart, err := h.service.AddItem(c.Request.Context(), actor.ID, payload.ProductID, payload.Quantity)
	if err != nil {
		respondServiceError(c, "cart", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, cart)
}

type cartQuantityPayload struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	productID := c.Param("product_id")
	if _, err := uuid.Parse(productID); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	var payload cartQuantityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cart, err := h.service.SetQuantity(c.Request.Context(), actor.ID, productID, payload.Quantity)
	if err != nil {
		respondServiceError(c, "cart", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	productID := c.Param("product_id")
	if _, err := uuid.Parse(productID); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(), actor.ID, productID)
	if err != nil {
		respondServiceError(c, "cart", err)
		return
	}
	middlewares.RespondData(c, http.StatusOK, cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	actor, err := middlewares.ExtractActor(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := h.service.Clear(c.Request.Context(), actor.ID); err != nil {
		respondServiceError(c, "cart", err)
		return
	}
	middlewares.RespondMessage(c, http.StatusOK, "Cart cleared")
}
