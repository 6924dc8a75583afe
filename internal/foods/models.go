package foods

import (
	"time"

	"github.com/fitbite/server/internal/storage"
)

// FoodDTO is the API representation of a catalog food.
type FoodDTO struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	ProteinPer100g  float64   `json:"protein_per_100g"`
	FatPer100g      float64   `json:"fat_per_100g"`
	CarbsPer100g    float64   `json:"carbs_per_100g"`
	CaloriesPer100g float64   `json:"calories_per_100g"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListFoodsResponse is the paginated response for GET /v1/foods.
type ListFoodsResponse struct {
	Foods      []FoodDTO `json:"foods"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
}

// SearchFoodsResponse is the response for GET /v1/foods/search.
type SearchFoodsResponse struct {
	Foods []FoodDTO `json:"foods"`
}

func toDTO(f storage.Food) FoodDTO {
	return FoodDTO{
		ID:              f.ID,
		Name:            f.Name,
		Category:        f.Category,
		ProteinPer100g:  f.ProteinPer100g,
		FatPer100g:      f.FatPer100g,
		CarbsPer100g:    f.CarbsPer100g,
		CaloriesPer100g: f.CaloriesPer100g,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}
