package repositories

import (
	"CareLink/cache"
	"CareLink/models"
	"context"
	"fmt"
	"time"
)

const CartExpiry = 30 * 24 * time.Hour

// CartRepository keeps carts in Redis only; an abandoned cart just expires.
type CartRepository struct {
	cache *cache.Cache
}

func NewCartRepository(cache *cache.Cache) *CartRepository {
	return &CartRepository{cache: cache}
}

func (r *CartRepository) Get(ctx context.Context, userID string) (*models.Cart, error) {
	cart := models.NewCart()
	hit, err := r.cache.GetJSON(ctx, r.cartKey(userID), cart)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if !hit {
		return models.NewCart(), nil
	}
	if cart.Items == nil {
		cart.Items = map[string]int{}
	}
	return cart, nil
}

func (r *CartRepository) Save(ctx context.Context, userID string, cart *models.Cart) error {
	if err := r.cache.SetJSON(ctx, r.cartKey(userID), cart, CartExpiry); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	if err := r.cache.Delete(ctx, r.cartKey(userID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *CartRepository) cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
