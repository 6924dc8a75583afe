package mealplans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fitbite/server/internal/storage"
)

type mockPlanStore struct {
	createCalls int
	failCreate  bool
	plans       []storage.MealPlanGraph
}

func (m *mockPlanStore) Create(ctx context.Context, draft storage.MealPlanDraft) (storage.MealPlan, error) {
	m.createCalls++
	if m.failCreate {
		return storage.MealPlan{}, errors.New("insert line item: connection reset")
	}

	now := time.Now()
	plan := storage.MealPlan{
		ID:          fmt.Sprintf("plan%d", len(m.plans)+1),
		OwnerUserID: draft.OwnerUserID,
		Name:        draft.Name,
		IsTemplate:  draft.IsTemplate,
		MealDate:    draft.MealDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	graph := storage.MealPlanGraph{Plan: plan}
	for _, slotName := range storage.SlotOrder {
		sg := storage.SlotGraph{
			Slot:  storage.MealSlot{ID: plan.ID + "-" + slotName, PlanID: plan.ID, Slot: slotName, MealDate: draft.MealDate},
			Items: []storage.LineItemWithFood{},
		}
		for pos, li := range draft.Items[slotName] {
			sg.Items = append(sg.Items, storage.LineItemWithFood{
				Item: storage.MealLineItem{
					ID:        fmt.Sprintf("%s-item%d", sg.Slot.ID, pos),
					SlotID:    sg.Slot.ID,
					FoodID:    li.FoodID,
					QuantityG: li.QuantityG,
					Position:  pos,
					CreatedAt: now,
				},
				Food: testCatalogFoods[li.FoodID],
			})
		}
		graph.Slots = append(graph.Slots, sg)
	}
	m.plans = append(m.plans, graph)

	return plan, nil
}

func (m *mockPlanStore) GetByID(ctx context.Context, planID string) (storage.MealPlanGraph, bool, error) {
	for _, g := range m.plans {
		if g.Plan.ID == planID {
			return g, true, nil
		}
	}
	return storage.MealPlanGraph{}, false, nil
}

func (m *mockPlanStore) ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.MealPlanSummary, int, error) {
	summaries := []storage.MealPlanSummary{}
	for _, g := range m.plans {
		if g.Plan.OwnerUserID != ownerUserID {
			continue
		}
		count := 0
		for _, sg := range g.Slots {
			count += len(sg.Items)
		}
		summaries = append(summaries, storage.MealPlanSummary{
			ID:        g.Plan.ID,
			Name:      g.Plan.Name,
			MealDate:  g.Plan.MealDate,
			FoodCount: count,
			CreatedAt: g.Plan.CreatedAt,
			UpdatedAt: g.Plan.UpdatedAt,
		})
	}
	total := len(summaries)
	if offset >= total {
		return []storage.MealPlanSummary{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return summaries[offset:end], total, nil
}

func (m *mockPlanStore) Delete(ctx context.Context, ownerUserID string, planID string) (bool, error) {
	for i, g := range m.plans {
		if g.Plan.ID == planID && g.Plan.OwnerUserID == ownerUserID {
			m.plans = append(m.plans[:i], m.plans[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

var testCatalogFoods = map[int64]storage.Food{
	1: {ID: 1, Name: "Chicken Breast", Category: "protein", ProteinPer100g: 31, FatPer100g: 3.6, CarbsPer100g: 0, CaloriesPer100g: 165},
	2: {ID: 2, Name: "White Rice", Category: "carbs", ProteinPer100g: 2.7, FatPer100g: 0.3, CarbsPer100g: 28, CaloriesPer100g: 130},
	3: {ID: 3, Name: "Avocado", Category: "fats", ProteinPer100g: 2, FatPer100g: 15, CarbsPer100g: 9, CaloriesPer100g: 160},
}

type mockCatalog struct {
	checkCalls int
}

func (m *mockCatalog) CheckExistence(ctx context.Context, ids []int64) ([]int64, error) {
	m.checkCalls++
	seen := make(map[int64]bool)
	var missing []int64
	for _, id := range ids {
		if _, ok := testCatalogFoods[id]; !ok && !seen[id] {
			seen[id] = true
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func ptr(v float64) *float64 { return &v }

func newTestService() (*Service, *mockPlanStore, *mockCatalog) {
	store := &mockPlanStore{}
	catalog := &mockCatalog{}
	return NewService(store, catalog), store, catalog
}

func TestCreate_ComputesTotalsOnRead(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	plan, err := service.Create(ctx, "user1", CreateMealPlanRequest{
		Name: "Cut day",
		Foods: SlotFoods{
			Lunch: []LineItemInput{{FoodID: 1, QuantityG: ptr(150)}},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	detail, err := service.Get(ctx, "user1", plan.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	got := detail.Totals
	if got.Calories != 247.5 {
		t.Errorf("expected 247.5 calories, got %v", got.Calories)
	}
	if got.ProteinG != 46.5 {
		t.Errorf("expected 46.5 protein, got %v", got.ProteinG)
	}
	if got.CarbsG != 0 {
		t.Errorf("expected 0 carbs, got %v", got.CarbsG)
	}
	if got.FatG != 5.4 {
		t.Errorf("expected 5.4 fat, got %v", got.FatG)
	}

	if len(detail.Meals) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(detail.Meals))
	}
	lunch := detail.Meals[1]
	if lunch.MealType != "lunch" {
		t.Fatalf("expected second slot to be lunch, got %s", lunch.MealType)
	}
	if len(lunch.Foods) != 1 {
		t.Fatalf("expected 1 lunch item, got %d", len(lunch.Foods))
	}
	if lunch.Foods[0].Servings != 1.5 {
		t.Errorf("expected 1.5 servings, got %v", lunch.Foods[0].Servings)
	}
	if lunch.Totals != got {
		t.Errorf("expected lunch totals to equal plan totals, got %+v vs %+v", lunch.Totals, got)
	}
}

func TestCreate_UnknownFoodID(t *testing.T) {
	service, store, _ := newTestService()
	ctx := context.Background()

	_, err := service.Create(ctx, "user1", CreateMealPlanRequest{
		Name: "Bad plan",
		Foods: SlotFoods{
			Breakfast: []LineItemInput{{FoodID: 9999, QuantityG: ptr(100)}},
		},
	})
	if err == nil {
		t.Fatal("expected error for unknown food id")
	}

	nfe, ok := AsNotFoundError(err)
	if !ok {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
	if !strings.Contains(nfe.Message, "9999") {
		t.Errorf("expected error to name the missing id, got %q", nfe.Message)
	}

	if store.createCalls != 0 {
		t.Errorf("store should not be touched, got %d create calls", store.createCalls)
	}

	list, err := service.List(ctx, "user1", 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 0 {
		t.Errorf("expected no plans after failed create, got %d", list.Total)
	}
}

func TestCreate_WhitespaceName(t *testing.T) {
	service, store, catalog := newTestService()

	_, err := service.Create(context.Background(), "user1", CreateMealPlanRequest{
		Name: "   ",
		Foods: SlotFoods{
			Dinner: []LineItemInput{{FoodID: 1, QuantityG: ptr(100)}},
		},
	})
	if err == nil {
		t.Fatal("expected validation error for whitespace name")
	}
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	if store.createCalls != 0 || catalog.checkCalls != 0 {
		t.Errorf("expected zero store/catalog calls, got %d/%d", store.createCalls, catalog.checkCalls)
	}
}

func TestCreate_NoFoods(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Create(context.Background(), "user1", CreateMealPlanRequest{
		Name:  "Empty",
		Foods: SlotFoods{},
	})
	if err == nil {
		t.Fatal("expected validation error for empty plan")
	}
	if _, ok := AsValidationError(err); !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestCreate_QuantityValidation(t *testing.T) {
	tests := []struct {
		name    string
		item    LineItemInput
		wantErr bool
	}{
		{"zero quantity", LineItemInput{FoodID: 1, QuantityG: ptr(0)}, true},
		{"negative quantity", LineItemInput{FoodID: 1, QuantityG: ptr(-5)}, true},
		{"tiny quantity", LineItemInput{FoodID: 1, QuantityG: ptr(0.1)}, false},
		{"zero servings", LineItemInput{FoodID: 1, Servings: ptr(0)}, true},
		{"no quantity at all", LineItemInput{FoodID: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestService()
			_, err := service.Create(context.Background(), "user1", CreateMealPlanRequest{
				Name:  "Plan",
				Foods: SlotFoods{Snack: []LineItemInput{tt.item}},
			})
			if tt.wantErr {
				if _, ok := AsValidationError(err); !ok {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	}
}

func TestCreate_ServingsFallback(t *testing.T) {
	service, store, _ := newTestService()
	ctx := context.Background()

	// servings alone resolves to servings*100 grams
	plan, err := service.Create(ctx, "user1", CreateMealPlanRequest{
		Name: "Servings plan",
		Foods: SlotFoods{
			Breakfast: []LineItemInput{{FoodID: 2, Servings: ptr(2)}},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	graph, _, _ := store.GetByID(ctx, plan.ID)
	if got := graph.Slots[0].Items[0].Item.QuantityG; got != 200 {
		t.Errorf("expected 200g from 2 servings, got %v", got)
	}

	// quantity_g wins when both are present
	plan2, err := service.Create(ctx, "user1", CreateMealPlanRequest{
		Name: "Both fields",
		Foods: SlotFoods{
			Breakfast: []LineItemInput{{FoodID: 2, QuantityG: ptr(50), Servings: ptr(3)}},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	graph2, _, _ := store.GetByID(ctx, plan2.ID)
	if got := graph2.Slots[0].Items[0].Item.QuantityG; got != 50 {
		t.Errorf("expected quantity_g to take precedence, got %v", got)
	}
}

func TestCreate_StoreFailureLeavesNothingBehind(t *testing.T) {
	service, store, _ := newTestService()
	store.failCreate = true
	ctx := context.Background()

	_, err := service.Create(ctx, "user1", CreateMealPlanRequest{
		Name: "Doomed plan",
		Foods: SlotFoods{
			Dinner: []LineItemInput{{FoodID: 1, QuantityG: ptr(100)}},
		},
	})
	if err == nil {
		t.Fatal("expected error from failing store")
	}

	store.failCreate = false
	list, err := service.List(ctx, "user1", 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Total != 0 {
		t.Errorf("expected no plans after failed create, got %d", list.Total)
	}
}

func TestGet_OwnershipMismatchLooksLikeAbsence(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	plan, err := service.Create(ctx, "user1", CreateMealPlanRequest{
		Name: "Private plan",
		Foods: SlotFoods{
			Lunch: []LineItemInput{{FoodID: 1, QuantityG: ptr(100)}},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, errOther := service.Get(ctx, "user2", plan.ID)
	_, errMissing := service.Get(ctx, "user1", "no-such-plan")

	nfeOther, ok := AsNotFoundError(errOther)
	if !ok {
		t.Fatalf("expected NotFoundError for foreign plan, got %v", errOther)
	}
	if _, ok := AsNotFoundError(errMissing); !ok {
		t.Fatalf("expected NotFoundError for missing plan, got %v", errMissing)
	}
	if strings.Contains(nfeOther.Message, "own") || strings.Contains(nfeOther.Message, "forbidden") {
		t.Errorf("ownership mismatch must not be distinguishable: %q", nfeOther.Message)
	}
}

func TestList_Pagination(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := service.Create(ctx, "user1", CreateMealPlanRequest{
			Name: fmt.Sprintf("Plan %d", i),
			Foods: SlotFoods{
				Snack: []LineItemInput{{FoodID: 3, QuantityG: ptr(30)}},
			},
		})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	resp, err := service.List(ctx, "user1", 2, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if resp.Total != 5 {
		t.Errorf("expected total 5, got %d", resp.Total)
	}
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if len(resp.Meals) != 2 {
		t.Errorf("expected 2 rows on page 2, got %d", len(resp.Meals))
	}
	if resp.Meals[0].FoodCount != 1 {
		t.Errorf("expected food_count 1, got %d", resp.Meals[0].FoodCount)
	}
}

func TestAggregate_RoundsOnceAfterSummation(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	// Three items whose per-item rounded values would drift from the
	// round-once total.
	plan, err := service.Create(ctx, "user1", CreateMealPlanRequest{
		Name: "Rounding plan",
		Foods: SlotFoods{
			Lunch: []LineItemInput{
				{FoodID: 1, QuantityG: ptr(33.333)},
				{FoodID: 1, QuantityG: ptr(33.333)},
				{FoodID: 1, QuantityG: ptr(33.333)},
			},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	detail, err := service.Get(ctx, "user1", plan.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	// 99.999g of chicken: 164.99835 kcal, rounded once to 165.0
	if detail.Totals.Calories != 165.0 {
		t.Errorf("expected 165.0 calories, got %v", detail.Totals.Calories)
	}
	if detail.Totals.ProteinG != 31.0 {
		t.Errorf("expected 31.0 protein, got %v", detail.Totals.ProteinG)
	}
}
