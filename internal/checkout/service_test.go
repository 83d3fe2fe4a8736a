package checkout

import (
	"testing"

	"raymarket-backend/internal/cart"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type recordingNotifier struct {
	userIDs []uint
	types   []string
}

func (r *recordingNotifier) Notify(userID uint, typ, title, body string) {
	r.userIDs = append(r.userIDs, userID)
	r.types = append(r.types, typ)
}

func seedShopWithProduct(t *testing.T, db *gorm.DB, ownerID uint, price string, stock int) *models.Product {
	t.Helper()

	s := &models.Shop{
		Name:        "Omar Grill",
		Slug:        "omar-grill",
		Category:    models.CategoryRestaurant,
		Governorate: "Cairo",
		City:        "Nasr City",
		OwnerID:     ownerID,
		Verified:    true,
		Active:      true,
	}
	require.NoError(t, db.Create(s).Error)

	p := &models.Product{
		ShopID:    s.ID,
		Name:      "Mixed Grill",
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		Available: true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func validInput() Input {
	return Input{
		Governorate:     "Cairo",
		City:            "Maadi",
		AddressDetailed: "12 Street 9, apt 4",
		Phone:           "+20100000000",
	}
}

func TestCheckoutCreatesOrderDecrementsStockAndEmptiesCart(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	svc := NewService(db, notifier)
	carts := cart.NewService(db)

	p := seedShopWithProduct(t, db, 77, "120.00", 5)
	_, err := carts.AddItem(5, p.ID, 2)
	require.NoError(t, err)

	order, err := svc.Checkout(5, validInput())
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-[A-F0-9]{8}$`, order.Number)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.EqualValues(t, 5, order.UserID)
	assert.EqualValues(t, p.ShopID, order.ShopID)
	assert.True(t, order.SubTotal.Equal(decimal.RequireFromString("240.00")))
	assert.True(t, order.DeliveryFee.Equal(DeliveryFee))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("265.00")))

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Mixed Grill", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Qty)

	var product models.Product
	require.NoError(t, db.First(&product, p.ID).Error)
	assert.Equal(t, 3, product.Stock)

	after, err := carts.View(5)
	require.NoError(t, err)
	assert.Empty(t, after.Items)
	assert.Nil(t, after.ShopID)

	// The shop owner hears about it.
	require.Len(t, notifier.userIDs, 1)
	assert.EqualValues(t, 77, notifier.userIDs[0])
	assert.Equal(t, models.NotifyOrderCreated, notifier.types[0])
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	_, err := svc.Checkout(5, validInput())
	assert.ErrorIs(t, err, ErrEmptyCart)

	// An existing cart with no items counts as empty too.
	require.NoError(t, db.Create(&models.Cart{UserID: 5}).Error)
	_, err = svc.Checkout(5, validInput())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)
	carts := cart.NewService(db)

	p := seedShopWithProduct(t, db, 77, "120.00", 3)
	_, err := carts.AddItem(5, p.ID, 3)
	require.NoError(t, err)

	// Someone buys the stock out from under the cart.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).Update("stock", 1).Error)

	_, err = svc.Checkout(5, validInput())
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.EqualValues(t, 0, orderCount)

	// Stock and cart are untouched.
	var product models.Product
	require.NoError(t, db.First(&product, p.ID).Error)
	assert.Equal(t, 1, product.Stock)

	after, err := carts.View(5)
	require.NoError(t, err)
	assert.Len(t, after.Items, 1)
}

func TestCheckoutAddressValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil)

	for _, in := range []Input{
		{City: "Maadi", Phone: "+20100000000"},
		{Governorate: "Cairo", Phone: "+20100000000"},
		{Governorate: "Cairo", City: "Maadi"},
		{Governorate: "  ", City: "Maadi", Phone: "+20100000000"},
	} {
		_, err := svc.Checkout(5, in)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestOrderNumbersVary(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := newOrderNumber()
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}
