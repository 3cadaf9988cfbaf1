package dto

import (
	"time"

	"storefront/internal/domain"
)

// ProductFilter narrows catalog searches. Only active products are ever
// returned; nil price bounds mean unbounded.
type ProductFilter struct {
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
}

type ListProductsRequest struct {
	Page      int
	PageSize  int
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
}

type ProductDTO struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Image         string    `json:"image"`
	Stock         int       `json:"stock"`
	RatingAverage float64   `json:"ratingAverage"`
	RatingCount   int       `json:"ratingCount"`
	IsAvailable   bool      `json:"isAvailable"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ListProductsResponse struct {
	Products   []ProductDTO   `json:"products"`
	Pagination PaginationInfo `json:"pagination"`
}

// SaveProductRequest covers both create and update. Pointer fields are
// optional on update and keep their current value when omitted.
type SaveProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"isActive"`
}

func ProductFromDomain(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category,
		Image:         p.Image,
		Stock:         p.Stock,
		RatingAverage: p.RatingAverage,
		RatingCount:   p.RatingCount,
		IsAvailable:   p.IsAvailable(),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
