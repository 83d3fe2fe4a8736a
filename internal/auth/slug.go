package auth

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"raymarket-backend/internal/models"

	"gorm.io/gorm"
)

// How many times signup re-runs the create transaction when a slug
// loses the insert race against a concurrent signup.
const slugMaxRetries = 5

// Slugify normalizes a name into a URL slug: lowercase, whitespace and
// hyphen runs collapsed to a single hyphen, everything outside ASCII
// alphanumerics and Arabic letters stripped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.Is(unicode.Arabic, r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}

	return b.String()
}

// slugBase picks the candidate name for a new shop slug: shop name,
// then owner name, then a timestamp placeholder.
func slugBase(shopName, ownerName string) string {
	if s := Slugify(shopName); s != "" {
		return s
	}
	if s := Slugify(ownerName); s != "" {
		return s
	}
	return fmt.Sprintf("shop-%d", time.Now().Unix())
}

// UniqueSlug finds the first free slug among base, base-2, base-3, ...
// This pre-check is best-effort only: the unique index on shops.slug is
// the real guard, and the caller retries the insert on a duplicate key.
func UniqueSlug(db *gorm.DB, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var n int64
		if err := db.Model(&models.Shop{}).Where("slug = ?", candidate).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
