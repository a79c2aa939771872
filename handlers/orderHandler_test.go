package handlers

import (
	"CareLink/models"
	"CareLink/query"
	"CareLink/repositories"
	"CareLink/services"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memOrderStore struct {
	orders map[string]*models.Order
}

func (s *memOrderStore) CreateWithItems(_ context.Context, order *models.Order, _ repositories.Stocker) error {
	order.ID = "11e4c1a2-9d7e-4b6a-8f21-3c1f6a2b9d10"
	s.orders[order.ID] = order
	return nil
}

func (s *memOrderStore) GetByID(_ context.Context, _ models.Actor, id string) (*models.Order, error) {
	return s.orders[id], nil
}

func (s *memOrderStore) List(_ context.Context, _ models.Actor, _ query.Criteria) ([]models.Order, int64, error) {
	return nil, 0, nil
}

func (s *memOrderStore) Update(_ context.Context, _ models.Actor, id string, changes map[string]interface{}) (*models.Order, error) {
	order := s.orders[id]
	if order != nil {
		if status, ok := changes["status"].(string); ok {
			order.Status = status
		}
	}
	return order, nil
}

func (s *memOrderStore) SoftDelete(_ context.Context, _ models.Actor, id string) (bool, error) {
	return s.orders[id] != nil, nil
}

func (s *memOrderStore) CountsByStatus(_ context.Context, _ models.Actor) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type noopStocker struct{}

func (noopStocker) DecrementStock(_ *gorm.DB, _ string, _ int) error { return nil }
func (noopStocker) InvalidateCaches(_ context.Context, _ []string) error { return nil }

type memUserReader struct{}

func (memUserReader) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Email: "pat@example.com"}, nil
}

type silentMailer struct{}

func (silentMailer) Send(_, _, _, _ string) error { return nil }

func newOrderRouter(t *testing.T, carts *memCartStore) *gin.Engine {
	t.Helper()
	reader := &memProductReader{products: map[string]*models.Product{
		testProductID: {ID: testProductID, Name: "Vitamin D", Price: 25.00, Stock: 10, IsActive: true},
	}}
	svc := services.NewOrderService(
		&memOrderStore{orders: map[string]*models.Order{}},
		carts, reader, noopStocker{}, memUserReader{}, silentMailer{},
	)
	h := NewOrderHandler(svc)

	patient := models.Actor{ID: "patient-1", Role: models.RolePatient}
	router := gin.New()
	group := router.Group("/api/orders", asActor(patient))
	group.POST("/checkout", h.Checkout)
	group.GET("/:id", h.GetByID)
	return router
}

func TestCheckoutEndpointComputesTotals(t *testing.T) {
	carts := &memCartStore{carts: map[string]*models.Cart{}}
	cart := models.NewCart()
	cart.Add(testProductID, 4)
	carts.carts["patient-1"] = cart

	router := newOrderRouter(t, carts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout",
		strings.NewReader(`{"shipping_address":"12 Main St"}`))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, 100.0, data["subtotal"])
	assert.Equal(t, 5.99, data["shipping"])
	assert.Equal(t, 8.0, data["tax"])
	assert.Equal(t, 113.99, data["total"])
	assert.Equal(t, models.StatusPending, data["status"])

	// The cart is consumed by a successful checkout.
	_, stillThere := carts.carts["patient-1"]
	assert.False(t, stillThere)
}

func TestCheckoutEndpointEmptyCart(t *testing.T) {
	router := newOrderRouter(t, &memCartStore{carts: map[string]*models.Cart{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout",
		strings.NewReader(`{"shipping_address":"12 Main St"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
}

func TestCheckoutEndpointRequiresShippingAddress(t *testing.T) {
	router := newOrderRouter(t, &memCartStore{carts: map[string]*models.Cart{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout",
		strings.NewReader(`{"shipping_address":"  "}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	details := body["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Contains(t, details[0], "shipping_address")
}
