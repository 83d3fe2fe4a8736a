package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"raymarket-backend/internal/config"
	"raymarket-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is fixed: raising it silently would lock out nothing, but
// lowering it would weaken every newly stored hash.
const BcryptCost = 12

// Error categories surfaced to handlers. Login failures collapse into a
// single ErrInvalidCredentials so callers cannot distinguish an unknown
// email from a wrong password.
var (
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// One-time provisioning shortcut: a recognized placeholder email with a
// recognized password creates the first admin account on login, so an
// operator can reach the admin console before any real account exists.
// Gated by BOOTSTRAP_ADMIN in config.
var (
	bootstrapAdminEmails = map[string]bool{
		"admin@ray.com":       true,
		"admin@raymarket.com": true,
	}
	bootstrapAdminPasswords = map[string]bool{
		"1234":      true,
		"admin1234": true,
	}
)

// Notifier decouples the signup flow from the notification transport.
// *notification.Publisher satisfies it.
type Notifier interface {
	Notify(userID uint, typ, title, body string)
}

type Service struct {
	db             *gorm.DB
	secret         string
	bootstrapAdmin bool
	validate       *validator.Validate
	notifier       Notifier
}

func NewService(db *gorm.DB, cfg *config.Config, notifier Notifier) *Service {
	return &Service{
		db:             db,
		secret:         cfg.JWTSecret,
		bootstrapAdmin: cfg.BootstrapAdmin,
		validate:       validator.New(),
		notifier:       notifier,
	}
}

type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`

	// Merchant-only shop fields
	ShopName        string `json:"shopName"`
	Category        string `json:"category"`
	Governorate     string `json:"governorate"`
	City            string `json:"city"`
	ShopEmail       string `json:"shopEmail"`
	ShopPhone       string `json:"shopPhone"`
	OpeningHours    string `json:"openingHours"`
	AddressDetailed string `json:"addressDetailed"`
	ShopDescription string `json:"shopDescription"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserSummary struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	ShopID *uint           `json:"shopId"`
}

type AuthResult struct {
	AccessToken string      `json:"access_token"`
	User        UserSummary `json:"user"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(in SignupInput) (*AuthResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationMessage(err))
	}

	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized role %q", ErrValidation, in.Role)
	}

	if role == models.RoleMerchant {
		if strings.TrimSpace(in.ShopName) == "" ||
			strings.TrimSpace(in.Governorate) == "" ||
			strings.TrimSpace(in.City) == "" {
			return nil, fmt.Errorf("%w: merchant signup requires shopName, governorate and city", ErrValidation)
		}
		if strings.TrimSpace(in.ShopPhone) == "" && strings.TrimSpace(in.Phone) == "" {
			return nil, fmt.Errorf("%w: merchant signup requires a shop phone or a contact phone", ErrValidation)
		}
	}

	email := NormalizeEmail(in.Email)

	// Cheap pre-check so we don't pay for bcrypt on an obvious
	// duplicate; the unique index stays the authoritative guard.
	taken, err := s.emailExists(email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	for attempt := 0; attempt < slugMaxRetries; attempt++ {
		user, err = s.createUserAndShop(in, role, email, string(hash))
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either the email lost a race against a concurrent
			// signup, or the slug did. Re-check which before
			// retrying with a fresh slug.
			taken, checkErr := s.emailExists(email)
			if checkErr != nil {
				return nil, checkErr
			}
			if taken {
				return nil, ErrEmailTaken
			}
			continue
		}
		return nil, err
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("could not allocate a unique shop slug after %d attempts: %w", slugMaxRetries, err)
		}
		return nil, err
	}

	if user.Role == models.RoleMerchant && s.notifier != nil {
		s.notifier.Notify(user.ID, models.NotifyShopCreated,
			"Your shop is live",
			fmt.Sprintf("%s has been created and is now visible on the storefront.", strings.TrimSpace(in.ShopName)))
	}

	return s.result(user)
}

// createUserAndShop runs one attempt of the signup transaction: the
// user row, and for merchants the shop row plus the owner's shop
// backlink, commit together or not at all.
func (s *Service) createUserAndShop(in SignupInput, role models.UserRole, email, hash string) (*models.User, error) {
	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		Active:       true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if role != models.RoleMerchant {
			return nil
		}

		slug, err := UniqueSlug(tx, slugBase(in.ShopName, in.Name))
		if err != nil {
			return err
		}

		shop := &models.Shop{
			Name:            strings.TrimSpace(in.ShopName),
			Slug:            slug,
			Category:        models.NormalizeCategory(in.Category),
			Governorate:     strings.TrimSpace(in.Governorate),
			City:            strings.TrimSpace(in.City),
			AddressDetailed: strings.TrimSpace(in.AddressDetailed),
			OpeningHours:    strings.TrimSpace(in.OpeningHours),
			Description:     strings.TrimSpace(in.ShopDescription),
			Phone:           firstNonEmpty(in.ShopPhone, in.Phone),
			Email:           firstNonEmpty(NormalizeEmail(in.ShopEmail), email),
			OwnerID:         user.ID,
			Active:          true,
		}
		if err := tx.Create(shop).Error; err != nil {
			return err
		}

		user.ShopID = &shop.ID
		return tx.Model(user).Update("shop_id", shop.ID).Error
	})
	if err != nil {
		user.ShopID = nil
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(in LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	email := NormalizeEmail(in.Email)

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if !s.bootstrapAdmin || !bootstrapAdminEmails[email] || !bootstrapAdminPasswords[in.Password] {
			return nil, ErrInvalidCredentials
		}
		u, berr := s.createBootstrapAdmin(email, in.Password)
		if berr != nil {
			return nil, berr
		}
		user = *u
	case err != nil:
		return nil, err
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best-effort, never gates the login.
	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", now).Error; err != nil {
		log.Printf("failed to record last login for user %d: %v", user.ID, err)
	}

	return s.result(&user)
}

func (s *Service) createBootstrapAdmin(email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := s.db.Create(user).Error; err != nil {
		// Two first logins racing: the other one won, use its row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.User
			if ferr := s.db.Where("email = ?", email).First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}

	log.Printf("[WARN] Bootstrap admin account created for %s. Change its password and disable BOOTSTRAP_ADMIN.", email)
	return user, nil
}

func (s *Service) emailExists(email string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Service) result(user *models.User) (*AuthResult, error) {
	token, err := GenerateToken(s.secret, user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{
		AccessToken: token,
		User: UserSummary{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
			ShopID: user.ShopID,
		},
	}, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "email":
			return "email is not valid"
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return field + " is invalid"
	}
	return "invalid input"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
