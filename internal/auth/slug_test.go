package auth

import (
	"fmt"
	"regexp"
	"testing"

	"raymarket-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Omar Grill", "omar-grill"},
		{"  Omar   Grill  ", "omar-grill"},
		{"Ray's Café 24", "rays-caf-24"},
		{"--already--slugged--", "already-slugged"},
		{"مطعم الريان", "مطعم-الريان"},
		{"Koshary مصر", "koshary-مصر"},
		{"!!!", ""},
		{"", ""},
		{"UPPER lower 123", "upper-lower-123"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	for _, in := range []string{"Omar Grill", "Ray's Café 24", "مطعم الريان"} {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once))
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	allowed := regexp.MustCompile(`^[\p{Arabic}a-z0-9]+(-[\p{Arabic}a-z0-9]+)*$`)
	for _, in := range []string{"Omar Grill", "A  B\tC", "shop#1 @home", "مخبز-البركة"} {
		got := Slugify(in)
		if got == "" {
			continue
		}
		assert.Regexp(t, allowed, got, "Slugify(%q)", in)
	}
}

func TestUniqueSlugResolvesCollisionsInOrder(t *testing.T) {
	db := newTestDB(t)

	makeShop := func(slug string) {
		require.NoError(t, db.Create(&models.Shop{
			Name:        slug,
			Slug:        slug,
			Category:    models.CategoryOther,
			Governorate: "Cairo",
			City:        "Maadi",
			OwnerID:     1,
		}).Error)
	}

	got, err := UniqueSlug(db, "omar-grill")
	require.NoError(t, err)
	assert.Equal(t, "omar-grill", got)
	makeShop(got)

	for i := 2; i <= 5; i++ {
		got, err = UniqueSlug(db, "omar-grill")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("omar-grill-%d", i), got)
		makeShop(got)
	}
}

func TestSlugBaseFallbacks(t *testing.T) {
	assert.Equal(t, "omar-grill", slugBase("Omar Grill", "Omar Farouk"))
	assert.Equal(t, "omar-farouk", slugBase("!!!", "Omar Farouk"))
	assert.Regexp(t, `^shop-\d+$`, slugBase("", "???"))
}
