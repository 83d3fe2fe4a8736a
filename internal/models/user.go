package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleMerchant UserRole = "MERCHANT"
	RoleAdmin    UserRole = "ADMIN"
)

// ParseRole maps a client-supplied role string to the closed enumeration.
// An empty value defaults to CUSTOMER; anything else must match exactly
// after uppercasing, otherwise ok is false.
func ParseRole(s string) (UserRole, bool) {
	switch UserRole(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return RoleCustomer, true
	case RoleCustomer:
		return RoleCustomer, true
	case RoleMerchant:
		return RoleMerchant, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Phone        string   `gorm:"size:50"`
	Role         UserRole `gorm:"size:20;not null"`
	ShopID       *uint
	Shop         *Shop `gorm:"foreignKey:ShopID"`
	Active       bool  `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
