package auth

import (
	"testing"

	"raymarket-backend/internal/config"
	"raymarket-backend/internal/database"
	"raymarket-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWTSecret:      "test-secret-not-for-production",
		BootstrapAdmin: true,
	}
	return NewService(db, cfg, nil), db
}

func customerInput() SignupInput {
	return SignupInput{
		Email:    "layla@example.com",
		Password: "s3cret-pass",
		Name:     "Layla Hassan",
	}
}

func merchantInput() SignupInput {
	return SignupInput{
		Email:       "omar@example.com",
		Password:    "s3cret-pass",
		Name:        "Omar Farouk",
		Role:        "MERCHANT",
		ShopName:    "Omar Grill",
		Category:    "Restaurant",
		Governorate: "Cairo",
		City:        "Nasr City",
		ShopPhone:   "+20100000000",
	}
}

func TestSignupCustomerCreatesOnlyUser(t *testing.T) {
	svc, db := newTestService(t)

	res, err := svc.Signup(customerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "layla@example.com", res.User.Email)
	assert.Equal(t, models.RoleCustomer, res.User.Role)
	assert.Nil(t, res.User.ShopID)

	var userCount, shopCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Shop{}).Count(&shopCount)
	assert.EqualValues(t, 1, userCount)
	assert.EqualValues(t, 0, shopCount)

	// The stored hash verifies the password; the plaintext is nowhere.
	var user models.User
	require.NoError(t, db.First(&user, res.User.ID).Error)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestSignupMerchantCreatesUserAndShopAtomically(t *testing.T) {
	svc, db := newTestService(t)

	res, err := svc.Signup(merchantInput())
	require.NoError(t, err)
	require.NotNil(t, res.User.ShopID)

	var user models.User
	require.NoError(t, db.First(&user, res.User.ID).Error)
	var shop models.Shop
	require.NoError(t, db.First(&shop, *res.User.ShopID).Error)

	assert.Equal(t, models.RoleMerchant, user.Role)
	assert.Equal(t, shop.ID, *user.ShopID)
	assert.Equal(t, user.ID, shop.OwnerID)
	assert.Equal(t, models.CategoryRestaurant, shop.Category)
	assert.Equal(t, "omar-grill", shop.Slug)
	assert.Equal(t, "+20100000000", shop.Phone)
}

func TestSignupMerchantRollsBackUserWhenShopInsertFails(t *testing.T) {
	svc, db := newTestService(t)

	// Force the shop insert to fail mid-transaction.
	require.NoError(t, db.Migrator().DropTable(&models.Shop{}))

	_, err := svc.Signup(merchantInput())
	require.Error(t, err)

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.EqualValues(t, 0, userCount, "user row must roll back with the failed shop insert")
}

func TestSignupMerchantMissingShopFields(t *testing.T) {
	svc, db := newTestService(t)

	in := merchantInput()
	in.City = ""
	_, err := svc.Signup(in)
	assert.ErrorIs(t, err, ErrValidation)

	in = merchantInput()
	in.ShopPhone = ""
	in.Phone = ""
	_, err = svc.Signup(in)
	assert.ErrorIs(t, err, ErrValidation)

	// A user phone alone satisfies the contact requirement.
	in = merchantInput()
	in.ShopPhone = ""
	in.Phone = "+20111111111"
	_, err = svc.Signup(in)
	assert.NoError(t, err)

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.EqualValues(t, 1, userCount, "failed validations must not write rows")
}

func TestSignupDuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, db := newTestService(t)

	in := customerInput()
	in.Email = "Layla@Example.com"
	_, err := svc.Signup(in)
	require.NoError(t, err)

	in.Email = "LAYLA@EXAMPLE.COM"
	_, err = svc.Signup(in)
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSignupPasswordLengthBoundary(t *testing.T) {
	svc, _ := newTestService(t)

	in := customerInput()
	in.Password = "1234567" // 7 chars
	_, err := svc.Signup(in)
	assert.ErrorIs(t, err, ErrValidation)

	in.Password = "12345678" // 8 chars
	_, err = svc.Signup(in)
	assert.NoError(t, err)
}

func TestSignupRoleHandling(t *testing.T) {
	svc, _ := newTestService(t)

	// Mixed case normalizes.
	in := merchantInput()
	in.Role = "merchant"
	res, err := svc.Signup(in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMerchant, res.User.Role)

	// Unrecognized roles are rejected, not silently downgraded.
	in = customerInput()
	in.Email = "other@example.com"
	in.Role = "SHOPKEEPER"
	_, err = svc.Signup(in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSignupUnknownCategoryFallsBack(t *testing.T) {
	svc, db := newTestService(t)

	in := merchantInput()
	in.Category = "spaceship parts"
	res, err := svc.Signup(in)
	require.NoError(t, err)

	var shop models.Shop
	require.NoError(t, db.First(&shop, *res.User.ShopID).Error)
	assert.Equal(t, models.CategoryOther, shop.Category)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Signup(customerInput())
	require.NoError(t, err)

	_, wrongPass := svc.Login(LoginInput{Email: "layla@example.com", Password: "wrong-password"})
	_, noUser := svc.Login(LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"})

	require.Error(t, wrongPass)
	require.Error(t, noUser)
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestLoginRecordsLastLogin(t *testing.T) {
	svc, db := newTestService(t)

	res, err := svc.Signup(customerInput())
	require.NoError(t, err)

	var before models.User
	require.NoError(t, db.First(&before, res.User.ID).Error)
	assert.Nil(t, before.LastLoginAt)

	_, err = svc.Login(LoginInput{Email: "layla@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	var after models.User
	require.NoError(t, db.First(&after, res.User.ID).Error)
	assert.NotNil(t, after.LastLoginAt)
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	svc, db := newTestService(t)

	res, err := svc.Signup(customerInput())
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", res.User.ID).Update("active", false).Error)

	_, err = svc.Login(LoginInput{Email: "layla@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBootstrapAdminLogin(t *testing.T) {
	svc, db := newTestService(t)

	res, err := svc.Login(LoginInput{Email: "admin@ray.com", Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.NotEmpty(t, res.AccessToken)

	// Second attempt reuses the provisioned account.
	res2, err := svc.Login(LoginInput{Email: "admin@ray.com", Password: "1234"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, res2.User.ID)

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestBootstrapAdminRequiresRecognizedCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(LoginInput{Email: "admin@ray.com", Password: "not-on-the-list"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Email: "someone@ray.com", Password: "1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBootstrapAdminDisabled(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{JWTSecret: "test-secret-not-for-production", BootstrapAdmin: false}
	svc := NewService(db, cfg, nil)

	_, err := svc.Login(LoginInput{Email: "admin@ray.com", Password: "1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(LoginInput{Email: "", Password: "whatever"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Login(LoginInput{Email: "a@b.com", Password: ""})
	assert.ErrorIs(t, err, ErrValidation)
}
