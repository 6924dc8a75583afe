package mealplans

import (
	"strings"
	"time"

	"github.com/fitbite/server/internal/macros"
	"github.com/fitbite/server/internal/storage"
)

// LineItemInput is one food within a slot. quantity_g takes precedence
// over servings; when only servings is given, one serving is 100g.
type LineItemInput struct {
	FoodID    int64    `json:"food_id"`
	QuantityG *float64 `json:"quantity_g,omitempty"`
	Servings  *float64 `json:"servings,omitempty"`
}

// Grams resolves the consumed quantity in grams.
func (li LineItemInput) Grams() float64 {
	if li.QuantityG != nil {
		return *li.QuantityG
	}
	if li.Servings != nil {
		return *li.Servings * 100
	}
	return 0
}

// SlotFoods holds the line items for each of the four fixed slots.
type SlotFoods struct {
	Breakfast []LineItemInput `json:"breakfast"`
	Lunch     []LineItemInput `json:"lunch"`
	Dinner    []LineItemInput `json:"dinner"`
	Snack     []LineItemInput `json:"snack"`
}

// BySlot returns the items keyed by slot name.
func (sf SlotFoods) BySlot() map[string][]LineItemInput {
	return map[string][]LineItemInput{
		"breakfast": sf.Breakfast,
		"lunch":     sf.Lunch,
		"dinner":    sf.Dinner,
		"snack":     sf.Snack,
	}
}

// CreateMealPlanRequest is the payload for POST /v1/meals.
type CreateMealPlanRequest struct {
	Name       string    `json:"name"`
	IsTemplate bool      `json:"is_template"`
	MealDate   string    `json:"meal_date,omitempty"`
	Foods      SlotFoods `json:"foods"`
}

// Validate checks the request without touching any storage. The
// checks run in a fixed order so error messages are stable.
func (r *CreateMealPlanRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return newValidationError("name is required")
	}

	bySlot := r.Foods.BySlot()

	total := 0
	for _, slot := range storage.SlotOrder {
		total += len(bySlot[slot])
	}
	if total == 0 {
		return newValidationError("at least one food is required")
	}

	for _, slot := range storage.SlotOrder {
		for _, li := range bySlot[slot] {
			if li.FoodID <= 0 {
				return newValidationError("food_id is required for every %s item", slot)
			}
			if grams := li.Grams(); grams <= 0 {
				return newValidationError("quantity must be positive for food %d in %s", li.FoodID, slot)
			}
		}
	}

	if r.MealDate != "" {
		if _, err := time.Parse("2006-01-02", r.MealDate); err != nil {
			return newValidationError("meal_date must be YYYY-MM-DD")
		}
	}

	return nil
}

// FoodIDs returns every referenced food id, in request order, with
// duplicates preserved.
func (r *CreateMealPlanRequest) FoodIDs() []int64 {
	bySlot := r.Foods.BySlot()
	var ids []int64
	for _, slot := range storage.SlotOrder {
		for _, li := range bySlot[slot] {
			ids = append(ids, li.FoodID)
		}
	}
	return ids
}

// MealPlanDTO is the plan header in API form.
type MealPlanDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsTemplate bool      `json:"is_template"`
	MealDate   string    `json:"meal_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MealFoodDTO is a line item with its nutrition computed for the
// consumed quantity. Per-item values are rounded for display only;
// slot and plan totals are summed from unrounded values.
type MealFoodDTO struct {
	ID        string  `json:"id"`
	FoodID    int64   `json:"food_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	QuantityG float64 `json:"quantity_g"`
	Servings  float64 `json:"servings"`
	Calories  float64 `json:"calories"`
	ProteinG  float64 `json:"protein_g"`
	CarbsG    float64 `json:"carbs_g"`
	FatG      float64 `json:"fat_g"`
}

// MealDTO is one slot with its foods and slot totals.
type MealDTO struct {
	ID       string        `json:"id"`
	MealType string        `json:"meal_type"`
	Foods    []MealFoodDTO `json:"foods"`
	Totals   macros.Totals `json:"totals"`
}

// MealPlanDetailResponse is the full plan read model for GET /v1/meals/{id}.
type MealPlanDetailResponse struct {
	MealPlanDTO
	Meals  []MealDTO     `json:"meals"`
	Totals macros.Totals `json:"totals"`
}

// MealPlanSummaryDTO is one row of the plan list.
type MealPlanSummaryDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsTemplate bool      `json:"is_template"`
	MealDate   string    `json:"meal_date"`
	FoodCount  int       `json:"food_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListMealPlansResponse is the paginated response for GET /v1/meals.
type ListMealPlansResponse struct {
	Meals      []MealPlanSummaryDTO `json:"meals"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
}
