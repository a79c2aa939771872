package models

// Cart is the per-patient shopping cart, a product ID to quantity map kept in
// Redis until checkout empties it.
type Cart struct {
	Items map[string]int `json:"items"`
}

func NewCart() *Cart {
	return &Cart{Items: map[string]int{}}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Add increases the quantity of a product, creating the entry if needed.
func (c *Cart) Add(productID string, quantity int) {
	if quantity <= 0 {
		return
	}
	if c.Items == nil {
		c.Items = map[string]int{}
	}
	c.Items[productID] += quantity
}

// SetQuantity pins the quantity of a product; zero or less removes the entry.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		delete(c.Items, productID)
		return
	}
	if c.Items == nil {
		c.Items = map[string]int{}
	}
	c.Items[productID] = quantity
}

func (c *Cart) Remove(productID string) {
	delete(c.Items, productID)
}

func (c *Cart) Clear() {
	c.Items = map[string]int{}
}
