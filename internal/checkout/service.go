package checkout

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"raymarket-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("invalid input")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("not enough stock")
)

// Flat delivery fee until per-zone pricing lands.
var DeliveryFee = decimal.NewFromInt(25)

type Notifier interface {
	Notify(userID uint, typ, title, body string)
}

type Input struct {
	Governorate     string `json:"governorate"`
	City            string `json:"city"`
	AddressDetailed string `json:"address_detailed"`
	Phone           string `json:"phone"`
}

type Service struct {
	db       *gorm.DB
	notifier Notifier
}

func NewService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

// Checkout turns the cart into an order in one transaction: stock is
// re-checked and decremented, the order and its line snapshots are
// created, and the cart is emptied. Any failure rolls the whole thing
// back.
func (s *Service) Checkout(userID uint, in Input) (*models.Order, error) {
	if strings.TrimSpace(in.Governorate) == "" ||
		strings.TrimSpace(in.City) == "" ||
		strings.TrimSpace(in.Phone) == "" {
		return nil, fmt.Errorf("%w: governorate, city and phone are required", ErrValidation)
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 || cart.ShopID == nil {
			return ErrEmptyCart
		}

		subTotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			// Conditional decrement: the WHERE guard keeps stock from
			// going negative under concurrent checkouts.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Qty).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				name := fmt.Sprintf("product %d", item.ProductID)
				if item.Product != nil {
					name = item.Product.Name
				}
				return fmt.Errorf("%w for %s", ErrInsufficientStock, name)
			}

			name := ""
			if item.Product != nil {
				name = item.Product.Name
			}
			items = append(items, models.OrderItem{
				ProductID:   item.ProductID,
				ProductName: name,
				Qty:         item.Qty,
				UnitPrice:   item.UnitPrice,
				SubTotal:    item.SubTotal,
			})
			subTotal = subTotal.Add(item.SubTotal)
		}

		order = &models.Order{
			Number:          newOrderNumber(),
			UserID:          userID,
			ShopID:          *cart.ShopID,
			Status:          models.OrderPending,
			SubTotal:        subTotal,
			DeliveryFee:     DeliveryFee,
			Total:           subTotal.Add(DeliveryFee),
			Governorate:     strings.TrimSpace(in.Governorate),
			City:            strings.TrimSpace(in.City),
			AddressDetailed: strings.TrimSpace(in.AddressDetailed),
			Phone:           strings.TrimSpace(in.Phone),
			Items:           items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&cart).Update("shop_id", nil).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyShopOwner(order)
	return order, nil
}

func (s *Service) notifyShopOwner(order *models.Order) {
	if s.notifier == nil {
		return
	}

	var shop models.Shop
	if err := s.db.First(&shop, order.ShopID).Error; err != nil {
		log.Printf("failed to resolve shop %d for order notification: %v", order.ShopID, err)
		return
	}

	s.notifier.Notify(shop.OwnerID, models.NotifyOrderCreated,
		"New order received",
		fmt.Sprintf("Order %s for %s was placed.", order.Number, order.Total.StringFixed(2)))
}

// newOrderNumber derives a short human-quotable code from a UUID. The
// unique index on orders.number catches the unlikely collision.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
