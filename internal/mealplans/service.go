package mealplans

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fitbite/server/internal/macros"
	"github.com/fitbite/server/internal/storage"
)

// FoodCatalog is the slice of the food catalog this service needs.
type FoodCatalog interface {
	// CheckExistence returns the ids with no catalog entry, sorted
	// ascending and deduplicated.
	CheckExistence(ctx context.Context, ids []int64) ([]int64, error)
}

// Service handles meal plan business logic.
type Service struct {
	store   storage.MealPlansStorage
	catalog FoodCatalog
}

// NewService creates a new meal plans service.
func NewService(store storage.MealPlansStorage, catalog FoodCatalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Create validates the request, verifies every referenced food exists
// and persists the whole plan atomically. Validation failures never
// reach the store.
func (s *Service) Create(ctx context.Context, ownerUserID string, req CreateMealPlanRequest) (MealPlanDTO, error) {
	if err := req.Validate(); err != nil {
		return MealPlanDTO{}, err
	}

	missing, err := s.catalog.CheckExistence(ctx, req.FoodIDs())
	if err != nil {
		return MealPlanDTO{}, fmt.Errorf("failed to check food ids: %w", err)
	}
	if len(missing) > 0 {
		return MealPlanDTO{}, newNotFoundError("foods not found: %s", joinIDs(missing))
	}

	mealDate := req.MealDate
	if mealDate == "" {
		mealDate = time.Now().UTC().Format("2006-01-02")
	}

	items := make(map[string][]storage.LineItemDraft)
	for slot, inputs := range req.Foods.BySlot() {
		for _, li := range inputs {
			items[slot] = append(items[slot], storage.LineItemDraft{
				FoodID:    li.FoodID,
				QuantityG: li.Grams(),
			})
		}
	}

	plan, err := s.store.Create(ctx, storage.MealPlanDraft{
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(req.Name),
		IsTemplate:  req.IsTemplate,
		MealDate:    mealDate,
		Items:       items,
	})
	if err != nil {
		return MealPlanDTO{}, fmt.Errorf("failed to create meal plan: %w", err)
	}

	return toPlanDTO(plan), nil
}

// Get returns the full plan with per-item, per-slot and plan-level
// nutrition. A plan owned by someone else is reported as absent.
func (s *Service) Get(ctx context.Context, ownerUserID string, planID string) (MealPlanDetailResponse, error) {
	graph, found, err := s.store.GetByID(ctx, planID)
	if err != nil {
		return MealPlanDetailResponse{}, fmt.Errorf("failed to get meal plan: %w", err)
	}
	if !found || graph.Plan.OwnerUserID != ownerUserID {
		return MealPlanDetailResponse{}, newNotFoundError("meal plan %s not found", planID)
	}

	resp := MealPlanDetailResponse{
		MealPlanDTO: toPlanDTO(graph.Plan),
		Meals:       []MealDTO{},
	}

	var planEntries []macros.Entry
	for _, sg := range graph.Slots {
		meal := MealDTO{
			ID:       sg.Slot.ID,
			MealType: sg.Slot.Slot,
			Foods:    []MealFoodDTO{},
		}

		var slotEntries []macros.Entry
		for _, it := range sg.Items {
			facts := macros.Facts{
				ProteinPer100g:  it.Food.ProteinPer100g,
				FatPer100g:      it.Food.FatPer100g,
				CarbsPer100g:    it.Food.CarbsPer100g,
				CaloriesPer100g: it.Food.CaloriesPer100g,
			}
			entry := macros.Entry{Facts: facts, Grams: it.Item.QuantityG}
			slotEntries = append(slotEntries, entry)
			planEntries = append(planEntries, entry)

			actual := macros.Actual(facts, it.Item.QuantityG)
			meal.Foods = append(meal.Foods, MealFoodDTO{
				ID:        it.Item.ID,
				FoodID:    it.Item.FoodID,
				Name:      it.Food.Name,
				Category:  it.Food.Category,
				QuantityG: it.Item.QuantityG,
				Servings:  macros.Round2(it.Item.QuantityG / 100),
				Calories:  macros.Round2(actual.Calories),
				ProteinG:  macros.Round2(actual.ProteinG),
				CarbsG:    macros.Round2(actual.CarbsG),
				FatG:      macros.Round2(actual.FatG),
			})
		}

		meal.Totals = macros.Aggregate(slotEntries)
		resp.Meals = append(resp.Meals, meal)
	}

	resp.Totals = macros.Aggregate(planEntries)
	return resp, nil
}

// List returns a page of the owner's plans, newest first.
func (s *Service) List(ctx context.Context, ownerUserID string, page, pageSize int) (ListMealPlansResponse, error) {
	offset := (page - 1) * pageSize

	summaries, total, err := s.store.ListByOwner(ctx, ownerUserID, pageSize, offset)
	if err != nil {
		return ListMealPlansResponse{}, fmt.Errorf("failed to list meal plans: %w", err)
	}

	dtos := make([]MealPlanSummaryDTO, 0, len(summaries))
	for _, sum := range summaries {
		dtos = append(dtos, MealPlanSummaryDTO{
			ID:         sum.ID,
			Name:       sum.Name,
			IsTemplate: sum.IsTemplate,
			MealDate:   sum.MealDate,
			FoodCount:  sum.FoodCount,
			CreatedAt:  sum.CreatedAt,
			UpdatedAt:  sum.UpdatedAt,
		})
	}

	return ListMealPlansResponse{
		Meals:      dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Delete removes a plan the caller owns. Someone else's plan is
// reported as absent, same as Get.
func (s *Service) Delete(ctx context.Context, ownerUserID string, planID string) error {
	deleted, err := s.store.Delete(ctx, ownerUserID, planID)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	if !deleted {
		return newNotFoundError("meal plan %s not found", planID)
	}
	return nil
}

func toPlanDTO(plan storage.MealPlan) MealPlanDTO {
	return MealPlanDTO{
		ID:         plan.ID,
		Name:       plan.Name,
		IsTemplate: plan.IsTemplate,
		MealDate:   plan.MealDate,
		CreatedAt:  plan.CreatedAt,
		UpdatedAt:  plan.UpdatedAt,
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, ", ")
}
