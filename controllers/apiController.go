package controllers

import (
	"CareLink/handlers"
	"CareLink/middlewares"
	"CareLink/models"

	"github.com/gin-gonic/gin"
)

// APIHandlers bundles the resource handlers registered under /api.
type APIHandlers struct {
	Records       *handlers.RecordHandler
	Appointments  *handlers.AppointmentHandler
	Prescriptions *handlers.PrescriptionHandler
	Pharmacies    *handlers.PharmacyHandler
	Products      *handlers.ProductHandler
	Cart          *handlers.CartHandler
	Orders        *handlers.OrderHandler
}

// SetupAPIRoutes registers the resource routes. Every route requires a valid
// session; mutations additionally require the owning role.
func SetupAPIRoutes(router *gin.Engine, h APIHandlers) {
	api := router.Group("/api", middlewares.TokenAuthMiddleware())

	clinical := middlewares.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor)
	inventory := middlewares.RoleAuthMiddleware(models.RoleAdmin, models.RolePharmacist)
	shopper := middlewares.RoleAuthMiddleware(models.RoleAdmin, models.RolePatient)
	dispensing := middlewares.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor, models.RolePharmacist)

	records := api.Group("/records")
	{
		records.GET("", h.Records.List)
		records.GET("/stats", h.Records.Stats)
		records.GET("/download", h.Records.DownloadAttachment)
		records.GET("/:id", h.Records.GetByID)
		records.POST("", clinical, h.Records.Create)
		records.POST("/upload", clinical, h.Records.UploadAttachment)
		records.PUT("/:id", clinical, h.Records.Update)
		records.PUT("/:id/status", clinical, h.Records.UpdateStatus)
		records.DELETE("/:id", clinical, h.Records.Delete)
	}

	appointments := api.Group("/appointments")
	{
		appointments.GET("", h.Appointments.List)
		appointments.GET("/stats", h.Appointments.Stats)
		appointments.GET("/:id", h.Appointments.GetByID)
		// Patients book their own appointments, so creation is open to all roles.
		appointments.POST("", h.Appointments.Create)
		appointments.PUT("/:id", h.Appointments.Update)
		appointments.PUT("/:id/status", clinical, h.Appointments.UpdateStatus)
		appointments.DELETE("/:id", h.Appointments.Delete)
	}

	prescriptions := api.Group("/prescriptions")
	{
		prescriptions.GET("", h.Prescriptions.List)
		prescriptions.GET("/stats", h.Prescriptions.Stats)
		prescriptions.GET("/:id", h.Prescriptions.GetByID)
		prescriptions.POST("", clinical, h.Prescriptions.Create)
		prescriptions.PUT("/:id", clinical, h.Prescriptions.Update)
		// Pharmacists flip prescriptions to COMPLETED when dispensing.
		prescriptions.PUT("/:id/status", dispensing, h.Prescriptions.UpdateStatus)
		prescriptions.DELETE("/:id", clinical, h.Prescriptions.Delete)
	}

	pharmacies := api.Group("/pharmacies")
	{
		pharmacies.GET("", h.Pharmacies.List)
		pharmacies.GET("/:id", h.Pharmacies.GetByID)
		pharmacies.POST("", inventory, h.Pharmacies.Create)
		pharmacies.PUT("/:id", inventory, h.Pharmacies.Update)
		pharmacies.DELETE("/:id", inventory, h.Pharmacies.Delete)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.GET("/stats", h.Products.Stats)
		products.GET("/:id", h.Products.GetByID)
		products.POST("", inventory, h.Products.Create)
		products.PUT("/:id", inventory, h.Products.Update)
		products.DELETE("/:id", inventory, h.Products.Delete)
	}

	cart := api.Group("/cart", shopper)
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:product_id", h.Cart.UpdateItem)
		cart.DELETE("/items/:product_id", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", h.Orders.List)
		orders.GET("/stats", h.Orders.Stats)
		orders.GET("/:id", h.Orders.GetByID)
		orders.POST("/checkout", shopper, h.Orders.Checkout)
		orders.PUT("/:id/status", middlewares.RoleAuthMiddleware(models.RoleAdmin, models.RolePharmacist), h.Orders.UpdateStatus)
		orders.DELETE("/:id", shopper, h.Orders.Cancel)
	}
}
