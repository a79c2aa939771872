package handlers

import (
	"CareLink/models"
	"CareLink/services"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCartStore struct {
	carts map[string]*models.Cart
}

func (s *memCartStore) Get(_ context.Context, userID string) (*models.Cart, error) {
	if cart, ok := s.carts[userID]; ok {
		return cart, nil
	}
	return models.NewCart(), nil
}

func (s *memCartStore) Save(_ context.Context, userID string, cart *models.Cart) error {
	s.carts[userID] = cart
	return nil
}

func (s *memCartStore) Clear(_ context.Context, userID string) error {
	delete(s.carts, userID)
	return nil
}

type memProductReader struct {
	products map[string]*models.Product
}

func (r *memProductReader) GetByID(_ context.Context, id string) (*models.Product, error) {
	return r.products[id], nil
}

const testProductID = "7a1f4e2b-6c3d-4f5a-9b8e-1d2c3b4a5f60"

func newCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	reader := &memProductReader{products: map[string]*models.Product{
		testProductID: {ID: testProductID, Name: "Ibuprofen", Price: 7.50, Stock: 20, IsActive: true},
	}}
	svc := services.NewCartService(&memCartStore{carts: map[string]*models.Cart{}}, reader)
	h := NewCartHandler(svc)

	patient := models.Actor{ID: "patient-1", Role: models.RolePatient}
	router := gin.New()
	group := router.Group("/api/cart", asActor(patient))
	group.GET("", h.Get)
	group.POST("/items", h.AddItem)
	group.PUT("/items/:product_id", h.UpdateItem)
	group.DELETE("/items/:product_id", h.RemoveItem)
	group.DELETE("", h.Clear)
	return router
}

func TestCartAddAndGetRoundTrip(t *testing.T) {
	router := newCartRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"`+testProductID+`","quantity":2}`))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, 15.0, data["subtotal"])
}

func TestCartAddRejectsMalformedProductID(t *testing.T) {
	router := newCartRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"nope","quantity":1}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "invalid product ID", body["error"])
}

func TestCartUpdateQuantityToZeroRemoves(t *testing.T) {
	router := newCartRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"`+testProductID+`","quantity":2}`))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/cart/items/"+testProductID,
		strings.NewReader(`{"quantity":0}`))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Empty(t, data["items"])
}

func TestCartClearEndpoint(t *testing.T) {
	router := newCartRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
		strings.NewReader(`{"product_id":"`+testProductID+`"}`))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	router.ServeHTTP(w, req)
	body := decodeEnvelope(t, w)
	data := body["data"].(map[string]interface{})
	assert.Empty(t, data["items"])
}
