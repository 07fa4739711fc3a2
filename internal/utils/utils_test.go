package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"Simple", "Nike Slim Shirt", "nike-slim-shirt"},
		{"ExtraSpaces", "  Adidas   Fit  Pant ", "adidas-fit-pant"},
		{"SpecialChars", "50% Off! Shoes (Red)", "50-off-shoes-red"},
		{"AlreadySlug", "plain-slug", "plain-slug"},
		{"Empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.input))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Some Product"), Slugify("Some Product"))
}

func TestPointerHelpers(t *testing.T) {
	s := StrPtr("x")
	assert.Equal(t, "x", *s)
	assert.Equal(t, "x", PtrString(s))
	assert.Equal(t, "", PtrString(nil))
	assert.Equal(t, 1.5, *Float64Ptr(1.5))
}
