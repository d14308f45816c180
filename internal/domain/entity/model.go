package entity

import "strings"

// Brand is one of the operator's co-working brands.
type Brand string

const (
	BrandNextSpace  Brand = "NextSpace"
	BrandUnionSpace Brand = "UnionSpace"
	BrandCoSpace    Brand = "CoSpace"
)

// Brands is the canonical brand list. Older admin screens carried other spellings; they are not accepted.
func Brands() []Brand {
	return []Brand{BrandNextSpace, BrandUnionSpace, BrandCoSpace}
}

// ValidBrand reports whether s is exactly one of Brands.
func ValidBrand(s string) bool {
	for _, b := range Brands() {
		if string(b) == s {
			return true
		}
	}
	return false
}

// BrandNames returns the brand list as a comma separated string for messages.
func BrandNames() string {
	names := make([]string, 0, len(Brands()))
	for _, b := range Brands() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}

// Location is the postal address and optional coordinates of a building.
type Location struct {
	Address    string   `json:"address" validate:"notblank"`
	City       string   `json:"city" validate:"notblank"`
	Province   string   `json:"province" validate:"notblank"`
	PostalCode string   `json:"postalCode,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// Page carries list pagination and sorting shared by every collection.
type Page struct {
	Limit  int
	Offset int
	// Sort is a field name, prefixed with "-" for descending order.
	Sort string
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// SortField splits Sort into a field name and a descending flag.
func (p Page) SortField() (string, bool) {
	if strings.HasPrefix(p.Sort, "-") {
		return strings.TrimPrefix(p.Sort, "-"), true
	}
	return p.Sort, false
}
