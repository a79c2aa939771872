package services

import (
	"CareLink/models"
	"CareLink/query"
	"CareLink/repositories"
	"CareLink/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
)

type orderStore interface {
	CreateWithItems(ctx context.Context, order *models.Order, products repositories.Stocker) error
	GetByID(ctx context.Context, actor models.Actor, id string) (*models.Order, error)
	List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Order, int64, error)
	Update(ctx context.Context, actor models.Actor, id string, changes map[string]interface{}) (*models.Order, error)
	SoftDelete(ctx context.Context, actor models.Actor, id string) (bool, error)
	CountsByStatus(ctx context.Context, actor models.Actor) (map[string]int64, error)
}

type userReader interface {
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

type OrderService struct {
	orders   orderStore
	carts    cartStore
	products productReader
	stocker  repositories.Stocker
	users    userReader
	mailer   utils.Mailer
}

func NewOrderService(orders orderStore, carts cartStore, products productReader, stocker repositories.Stocker, users userReader, mailer utils.Mailer) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, stocker: stocker, users: users, mailer: mailer}
}

// Checkout turns the patient's cart into a PENDING order: prices every line
// against the current catalog, charges flat shipping plus tax on the subtotal,
// decrements stock, and empties the cart. The cart survives any failure.
func (s *OrderService) Checkout(ctx context.Context, actor models.Actor, shippingAddress string) (*models.Order, error) {
	cart, err := s.carts.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// Deterministic item order keeps receipts and lock ordering stable.
	productIDs := make([]string, 0, len(cart.Items))
	for id := range cart.Items {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var items []models.OrderItem
	var subtotal float64
	for _, productID := range productIDs {
		quantity := cart.Items[productID]
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, fmt.Errorf("product %s: %w", productID, ErrNotFound)
		}
		if product.Stock < quantity {
			return nil, fmt.Errorf("product %s: %w", product.Name, ErrInsufficientStock)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
		})
		subtotal += product.Price * float64(quantity)
	}

	subtotal = utils.Round2(subtotal)
	tax, total := utils.CheckoutTotal(subtotal, utils.DefaultShippingFee, utils.TaxRate)

	order := &models.Order{
		PatientID:       actor.ID,
		Subtotal:        subtotal,
		Shipping:        utils.DefaultShippingFee,
		Tax:             tax,
		Total:           total,
		Status:          models.StatusPending,
		ShippingAddress: shippingAddress,
		Items:           items,
	}

	if err := s.orders.CreateWithItems(ctx, order, s.stocker); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			return nil, fmt.Errorf("%v: %w", err, ErrInsufficientStock)
		}
		return nil, err
	}

	if err := s.carts.Clear(ctx, actor.ID); err != nil {
		log.Printf("Failed to clear cart after checkout: %v", err)
	}

	go s.sendReceipt(actor.ID, order)
	return order, nil
}

func (s *OrderService) sendReceipt(patientID string, order *models.Order) {
	ctx := context.Background()
	patient, err := s.users.GetUserByID(ctx, patientID)
	if err != nil || patient == nil {
		log.Printf("Failed to load patient %s for receipt mail: %v", patientID, err)
		return
	}
	subject, text, html := utils.OrderReceiptMail(order.ID, order.Total)
	if err := s.mailer.Send(patient.Email, subject, text, html); err != nil {
		log.Printf("Failed to send order receipt: %v", err)
	}
}

func (s *OrderService) GetByID(ctx context.Context, actor models.Actor, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, actor models.Actor, c query.Criteria) ([]models.Order, int64, error) {
	return s.orders.List(ctx, actor, c)
}

func (s *OrderService) UpdateStatus(ctx context.Context, actor models.Actor, id, status string) (*models.Order, error) {
	if !models.OrderTransitions.Valid(status) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	order, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !models.OrderTransitions.Allowed(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}
	updated, err := s.orders.Update(ctx, actor, id, map[string]interface{}{"status": status})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Cancel marks the order CANCELLED.
func (s *OrderService) Cancel(ctx context.Context, actor models.Actor, id string) error {
	deleted, err := s.orders.SoftDelete(ctx, actor, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *OrderService) Stats(ctx context.Context, actor models.Actor) (map[string]int64, error) {
	return s.orders.CountsByStatus(ctx, actor)
}
