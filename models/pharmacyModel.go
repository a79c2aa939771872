package models

import (
	"time"
)

// Pharmacy model. Owned by the pharmacist who registered it. Operating hours
// use the HH:MM wall-clock format and must satisfy open < close.
type Pharmacy struct {
	ID            string    `gorm:"primaryKey;column:id" json:"id"`
	PharmacistID  string    `gorm:"column:pharmacist_id;not null;index" json:"pharmacist_id"`
	Name          string    `gorm:"column:name;not null;index" json:"name"`
	LicenseNumber string    `gorm:"column:license_number;not null;unique" json:"license_number"`
	Phone         string    `gorm:"column:phone" json:"phone"`
	Address       string    `gorm:"column:address" json:"address"`
	OpenTime      string    `gorm:"column:open_time;not null" json:"open_time"`
	CloseTime     string    `gorm:"column:close_time;not null" json:"close_time"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Products      []Product `gorm:"foreignKey:PharmacyID;references:ID" json:"-"`
	Pharmacist    User      `gorm:"foreignKey:PharmacistID;references:ID" json:"pharmacist"`
}

func (Pharmacy) TableName() string {
	return "pharmacy"
}

// Product model, one row per item a pharmacy stocks.
type Product struct {
	ID           string    `gorm:"primaryKey;column:id" json:"id"`
	PharmacyID   string    `gorm:"column:pharmacy_id;not null;index" json:"pharmacy_id"`
	PharmacistID string    `gorm:"column:pharmacist_id;not null;index" json:"pharmacist_id"`
	Name         string    `gorm:"column:name;not null;index" json:"name"`
	Category     string    `gorm:"column:category;index" json:"category"`
	Description  string    `gorm:"type:text;column:description" json:"description"`
	Price        float64   `gorm:"column:price;not null" json:"price"`
	Stock        int       `gorm:"column:stock;not null" json:"stock"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Pharmacy     Pharmacy  `gorm:"foreignKey:PharmacyID;references:ID" json:"pharmacy"`
}

func (Product) TableName() string {
	return "product"
}
