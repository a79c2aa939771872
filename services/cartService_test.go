package services

import (
	"CareLink/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartStore struct {
	carts   map[string]*models.Cart
	cleared []string
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*models.Cart{}}
}

func (f *fakeCartStore) Get(_ context.Context, userID string) (*models.Cart, error) {
	if cart, ok := f.carts[userID]; ok {
		return cart, nil
	}
	return models.NewCart(), nil
}

func (f *fakeCartStore) Save(_ context.Context, userID string, cart *models.Cart) error {
	f.carts[userID] = cart
	return nil
}

func (f *fakeCartStore) Clear(_ context.Context, userID string) error {
	delete(f.carts, userID)
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeProductReader struct {
	products map[string]*models.Product
}

func (f *fakeProductReader) GetByID(_ context.Context, id string) (*models.Product, error) {
	return f.products[id], nil
}

func aspirin() *models.Product {
	return &models.Product{ID: "p-aspirin", Name: "Aspirin", Price: 4.50, Stock: 10, IsActive: true}
}

func bandages() *models.Product {
	return &models.Product{ID: "p-bandages", Name: "Bandages", Price: 2.25, Stock: 3, IsActive: true}
}

func newCartFixture(products ...*models.Product) (*CartService, *fakeCartStore) {
	reader := &fakeProductReader{products: map[string]*models.Product{}}
	for _, p := range products {
		reader.products[p.ID] = p
	}
	store := newFakeCartStore()
	return NewCartService(store, reader), store
}

func TestCartAddItemAccumulates(t *testing.T) {
	svc, _ := newCartFixture(aspirin())

	_, err := svc.AddItem(context.Background(), "u1", "p-aspirin", 2)
	require.NoError(t, err)
	view, err := svc.AddItem(context.Background(), "u1", "p-aspirin", 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, 22.50, view.Items[0].LineTotal)
	assert.Equal(t, 22.50, view.Subtotal)
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	svc, _ := newCartFixture()

	_, err := svc.AddItem(context.Background(), "u1", "nope", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartAddItemExceedsStock(t *testing.T) {
	svc, _ := newCartFixture(bandages())

	_, err := svc.AddItem(context.Background(), "u1", "p-bandages", 4)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartSetQuantityZeroRemovesLine(t *testing.T) {
	svc, _ := newCartFixture(aspirin(), bandages())

	_, err := svc.AddItem(context.Background(), "u1", "p-aspirin", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "u1", "p-bandages", 2)
	require.NoError(t, err)

	view, err := svc.SetQuantity(context.Background(), "u1", "p-aspirin", 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p-bandages", view.Items[0].Product.ID)
}

func TestCartViewDropsDeactivatedProducts(t *testing.T) {
	stale := aspirin()
	svc, store := newCartFixture(stale)

	_, err := svc.AddItem(context.Background(), "u1", "p-aspirin", 2)
	require.NoError(t, err)

	stale.IsActive = false
	view, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.Subtotal)

	// The stored cart still holds the line; only the priced view hides it.
	assert.Equal(t, 2, store.carts["u1"].Items["p-aspirin"])
}

func TestCartClear(t *testing.T) {
	svc, store := newCartFixture(aspirin())

	_, err := svc.AddItem(context.Background(), "u1", "p-aspirin", 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(context.Background(), "u1"))

	assert.Contains(t, store.cleared, "u1")
	view, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
