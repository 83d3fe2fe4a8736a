package models

import "time"

const (
	NotifyShopCreated  = "shop.created"
	NotifyOrderCreated = "order.created"
	NotifyOrderStatus  = "order.status"
)

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Type      string `gorm:"size:50;not null"`
	Title     string `gorm:"size:150;not null"`
	Body      string `gorm:"size:500"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}
