package models

import (
	"strings"
	"time"
)

type ShopCategory string

const (
	CategoryRestaurant  ShopCategory = "restaurant"
	CategoryGrocery     ShopCategory = "grocery"
	CategoryPharmacy    ShopCategory = "pharmacy"
	CategoryBakery      ShopCategory = "bakery"
	CategoryClothing    ShopCategory = "clothing"
	CategoryElectronics ShopCategory = "electronics"
	CategoryServices    ShopCategory = "services"
	CategoryOther       ShopCategory = "other"
)

var ShopCategories = []ShopCategory{
	CategoryRestaurant,
	CategoryGrocery,
	CategoryPharmacy,
	CategoryBakery,
	CategoryClothing,
	CategoryElectronics,
	CategoryServices,
	CategoryOther,
}

// NormalizeCategory maps free-form input onto the closed enumeration,
// falling back to "other" for anything unrecognized.
func NormalizeCategory(s string) ShopCategory {
	c := ShopCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ShopCategories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

type Shop struct {
	ID              uint         `gorm:"primaryKey"`
	Name            string       `gorm:"size:150;not null"`
	Slug            string       `gorm:"size:160;uniqueIndex;not null"`
	Category        ShopCategory `gorm:"size:30;not null"`
	Governorate     string       `gorm:"size:100;not null"`
	City            string       `gorm:"size:100;not null"`
	AddressDetailed string       `gorm:"size:255"`
	Phone           string       `gorm:"size:50"`
	Email           string       `gorm:"size:100"`
	Description     string       `gorm:"size:1000"`
	OpeningHours    string       `gorm:"size:255"`
	OwnerID         uint         `gorm:"not null;index"`
	Verified        bool         `gorm:"not null;default:false"`
	Active          bool         `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Products []Product
}
