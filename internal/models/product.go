package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey"`
	ShopID      uint            `gorm:"not null;index"`
	Name        string          `gorm:"size:150;not null"`
	Description string          `gorm:"size:1000"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Available   bool            `gorm:"not null;default:true"`
	ImageURL    string          `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
