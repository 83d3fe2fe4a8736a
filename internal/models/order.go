package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderAccepted   OrderStatus = "accepted"
	OrderPreparing  OrderStatus = "preparing"
	OrderDelivering OrderStatus = "delivering"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID          uint            `gorm:"primaryKey"`
	Number      string          `gorm:"size:20;uniqueIndex;not null"`
	UserID      uint            `gorm:"not null;index"`
	ShopID      uint            `gorm:"not null;index"`
	Status      OrderStatus     `gorm:"size:20;not null"`
	SubTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	// Delivery address snapshot
	Governorate     string `gorm:"size:100;not null"`
	City            string `gorm:"size:100;not null"`
	AddressDetailed string `gorm:"size:255"`
	Phone           string `gorm:"size:50;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem
}

// OrderItem snapshots name and price at checkout time so later product
// edits don't rewrite order history.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"not null;index"`
	ProductID   uint            `gorm:"not null"`
	ProductName string          `gorm:"size:150;not null"`
	Qty         int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SubTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}
