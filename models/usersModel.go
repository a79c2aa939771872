package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names seeded at startup.
const (
	RoleAdmin      = "Admin"
	RoleDoctor     = "Doctor"
	RolePatient    = "Patient"
	RolePharmacist = "Pharmacist"
)

// Seeded role IDs, in insertion order.
const (
	RoleIDAdmin      int64 = 1
	RoleIDDoctor     int64 = 2
	RoleIDPatient    int64 = 3
	RoleIDPharmacist int64 = 4
)

// Role represents a user role
type Role struct {
	ID          int64        `gorm:"primaryKey;column:id" json:"id"`
	Name        string       `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string       `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts initial roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: RoleAdmin, Description: "Full access to the system"},
		{Name: RoleDoctor, Description: "Manages medical records, appointments and prescriptions"},
		{Name: RolePatient, Description: "Views own records and shops for pharmacy products"},
		{Name: RolePharmacist, Description: "Manages pharmacies and product inventory"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User represents a user in the system
type User struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	Username    string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email       string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password    string    `gorm:"size:255;not null;column:password" json:"password,omitempty"`
	FirstName   string    `gorm:"size:100;column:first_name" json:"first_name"`
	LastName    string    `gorm:"size:100;column:last_name" json:"last_name"`
	Sex         string    `gorm:"size:10;column:sex" json:"sex"`
	DateOfBirth string    `gorm:"size:10;column:date_of_birth" json:"date_of_birth"`
	Phone       string    `gorm:"size:20;column:phone" json:"phone"`
	Address     string    `gorm:"size:255;column:address" json:"address"`
	RoleID      int64     `gorm:"index;not null;column:role_id" json:"role_id"`
	Role        Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"role"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Permission represents a permission in the system
type Permission struct {
	ID          int64  `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"size:100;not null;unique;index;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// SeedPermissions inserts initial permissions into the database
func SeedPermissions(db *gorm.DB) error {
	initialPermissions := []Permission{
		{Name: "manage_users", Description: "Create, update, or delete users"},
		{Name: "manage_records", Description: "Create and update medical records"},
		{Name: "manage_appointments", Description: "Create or update appointments"},
		{Name: "manage_prescriptions", Description: "Create and update prescriptions"},
		{Name: "manage_inventory", Description: "Manage pharmacies and products"},
		{Name: "place_orders", Description: "Shop for products and place orders"},
		{Name: "view_self", Description: "View personal data"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, permission := range initialPermissions {
			if err := tx.FirstOrCreate(&permission, Permission{Name: permission.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RolePermission represents the association between roles and permissions
type RolePermission struct {
	ID           int64 `gorm:"primaryKey;column:id" json:"id"`
	RoleID       int64 `gorm:"index;column:role_id" json:"role_id"`
	PermissionID int64 `gorm:"index;column:permission_id" json:"permission_id"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// SeedRolePermissions inserts initial role permissions into the database
func SeedRolePermissions(db *gorm.DB) error {
	initialRolePermissions := []RolePermission{
		{RoleID: 1, PermissionID: 1}, // Admin: manage_users
		{RoleID: 1, PermissionID: 2}, // Admin: manage_records
		{RoleID: 1, PermissionID: 3}, // Admin: manage_appointments
		{RoleID: 1, PermissionID: 4}, // Admin: manage_prescriptions
		{RoleID: 1, PermissionID: 5}, // Admin: manage_inventory
		{RoleID: 2, PermissionID: 2}, // Doctor: manage_records
		{RoleID: 2, PermissionID: 3}, // Doctor: manage_appointments
		{RoleID: 2, PermissionID: 4}, // Doctor: manage_prescriptions
		{RoleID: 3, PermissionID: 6}, // Patient: place_orders
		{RoleID: 3, PermissionID: 7}, // Patient: view_self
		{RoleID: 4, PermissionID: 5}, // Pharmacist: manage_inventory
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, rolePermission := range initialRolePermissions {
			if err := tx.FirstOrCreate(&rolePermission, RolePermission{RoleID: rolePermission.RoleID, PermissionID: rolePermission.PermissionID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
