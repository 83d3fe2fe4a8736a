package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart holds items from a single shop at a time. ShopID is set by the
// first item added and cleared when the cart empties.
type Cart struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex"`
	ShopID    *uint
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CartItem
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey"`
	CartID    uint            `gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_cart_product"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Qty       int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SubTotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
