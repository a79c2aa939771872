package models

import (
	"time"
)

// Order model. Created by checkout from the patient's cart; items are priced
// server-side at checkout time. CANCELLED doubles as the soft-delete state.
type Order struct {
	ID              string      `gorm:"primaryKey;column:id" json:"id"`
	PatientID       string      `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Subtotal        float64     `gorm:"column:subtotal;not null" json:"subtotal"`
	Shipping        float64     `gorm:"column:shipping;not null" json:"shipping"`
	Tax             float64     `gorm:"column:tax;not null" json:"tax"`
	Total           float64     `gorm:"column:total;not null" json:"total"`
	Status          string      `gorm:"column:status;check:status IN ('PENDING', 'PAID', 'SHIPPED', 'DELIVERED', 'CANCELLED');not null;default:'PENDING'" json:"status"`
	ShippingAddress string      `gorm:"column:shipping_address;not null" json:"shipping_address"`
	CreatedAt       time.Time   `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`
	Patient         User        `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
}

func (Order) TableName() string {
	return "shop_order"
}

// OrderItem captures the unit price at the moment of checkout so later price
// changes do not rewrite order history.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID   string  `gorm:"column:order_id;not null;index" json:"order_id"`
	ProductID string  `gorm:"column:product_id;not null;index" json:"product_id"`
	Name      string  `gorm:"column:name;not null" json:"name"`
	UnitPrice float64 `gorm:"column:unit_price;not null" json:"unit_price"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
	Product   Product `gorm:"foreignKey:ProductID;references:ID" json:"-"`
}

func (OrderItem) TableName() string {
	return "shop_order_item"
}
