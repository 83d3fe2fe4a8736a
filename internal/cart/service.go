package cart

import (
	"errors"

	"raymarket-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidQty        = errors.New("quantity must be positive")
	ErrProductNotFound   = errors.New("product not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrDifferentShop     = errors.New("cart already holds items from another shop")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) getOrCreate(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if err := s.db.Create(&cart).Error; err != nil {
		// Two requests racing on the first add; reuse the winner's cart.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if ferr := s.db.Where("user_id = ?", userID).First(&cart).Error; ferr == nil {
				return &cart, nil
			}
		}
		return nil, err
	}
	return &cart, nil
}

func (s *Service) load(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.Preload("Items.Product").First(&cart, cartID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// View returns the user's cart, creating an empty one on first access.
func (s *Service) View(userID uint) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return s.load(cart.ID)
}

// AddItem puts qty of a product into the cart, merging with an existing
// line. A cart holds items from one shop at a time.
func (s *Service) AddItem(userID, productID uint, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return nil, ErrInvalidQty
	}

	var product models.Product
	if err := s.db.Where("id = ? AND available = ?", productID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if cart.ShopID != nil && *cart.ShopID != product.ShopID {
		return nil, ErrDifferentShop
	}

	var item models.CartItem
	err = s.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{CartID: cart.ID, ProductID: productID}
	case err != nil:
		return nil, err
	}

	newQty := item.Qty + qty
	if product.Stock < newQty {
		return nil, ErrInsufficientStock
	}

	item.Qty = newQty
	item.UnitPrice = product.Price
	item.SubTotal = product.Price.Mul(decimal.NewFromInt(int64(newQty)))
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}

	if cart.ShopID == nil {
		if err := s.db.Model(cart).Update("shop_id", product.ShopID).Error; err != nil {
			return nil, err
		}
	}

	return s.load(cart.ID)
}

// UpdateQty sets the line quantity; qty <= 0 removes the line.
func (s *Service) UpdateQty(userID, productID uint, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return s.RemoveItem(userID, productID)
	}

	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := s.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		return nil, ErrProductNotFound
	}
	if product.Stock < qty {
		return nil, ErrInsufficientStock
	}

	item.Qty = qty
	item.UnitPrice = product.Price
	item.SubTotal = product.Price.Mul(decimal.NewFromInt(int64(qty)))
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}

	return s.load(cart.ID)
}

// RemoveItem drops a line; when the cart empties its shop binding is
// released so the next add may come from any shop.
func (s *Service) RemoveItem(userID, productID uint) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}

	if err := s.releaseShopIfEmpty(cart); err != nil {
		return nil, err
	}
	return s.load(cart.ID)
}

// Clear empties the cart entirely.
func (s *Service) Clear(userID uint) (*models.Cart, error) {
	cart, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(cart).Update("shop_id", nil).Error; err != nil {
		return nil, err
	}
	return s.load(cart.ID)
}

func (s *Service) releaseShopIfEmpty(cart *models.Cart) error {
	var n int64
	if err := s.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return s.db.Model(cart).Update("shop_id", nil).Error
	}
	return nil
}

// Total sums the line subtotals.
func Total(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.SubTotal)
	}
	return total
}
