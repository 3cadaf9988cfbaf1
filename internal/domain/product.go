package domain

import "time"

type Product struct {
	ID            int
	Name          string
	Description   string
	Price         float64
	Category      string
	Image         string
	Stock         int
	RatingAverage float64
	RatingCount   int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const (
	CategoryElectronics = "Electronics"
	CategoryClothing    = "Clothing"
	CategorySports      = "Sports"
	CategoryKitchen     = "Kitchen"
	CategoryHome        = "Home"
	CategoryBooks       = "Books"
	CategoryAccessories = "Accessories"
	CategoryOther       = "Other"
)

var productCategories = map[string]struct{}{
	CategoryElectronics: {},
	CategoryClothing:    {},
	CategorySports:      {},
	CategoryKitchen:     {},
	CategoryHome:        {},
	CategoryBooks:       {},
	CategoryAccessories: {},
	CategoryOther:       {},
}

func IsValidCategory(category string) bool {
	_, ok := productCategories[category]
	return ok
}

func (p Product) IsAvailable() bool {
	return p.Stock > 0 && p.IsActive
}
