package services

import (
	"CareLink/models"
	"CareLink/utils"
	"context"
)

// cartStore and productReader are the slices of the repositories the cart and
// order services actually touch, kept narrow so tests can stand in for them.
type cartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, userID string, cart *models.Cart) error
	Clear(ctx context.Context, userID string) error
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// CartItem is one priced line of the cart as shown to the patient.
type CartItem struct {
	Product   *models.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal float64         `json:"line_total"`
}

type CartView struct {
	Items    []CartItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
}

type CartService struct {
	carts    cartStore
	products productReader
}

func NewCartService(carts cartStore, products productReader) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get prices the stored cart against the current catalog. Products that have
// vanished or been deactivated since they were added are dropped silently.
func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: []CartItem{}}
	for productID, quantity := range cart.Items {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			continue
		}
		lineTotal := utils.Round2(product.Price * float64(quantity))
		view.Items = append(view.Items, CartItem{Product: product, Quantity: quantity, LineTotal: lineTotal})
		view.Subtotal += lineTotal
	}
	view.Subtotal = utils.Round2(view.Subtotal)
	return view, nil
}

// AddItem puts quantity more of a product into the cart.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return s.Get(ctx, userID)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Add(productID, quantity)
	if cart.Items[productID] > product.Stock {
		return nil, ErrInsufficientStock
	}
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// SetQuantity pins a line to an exact quantity; zero or less removes it.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quantity > 0 {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, ErrNotFound
		}
		if quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
	}
	cart.SetQuantity(productID, quantity)
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}
