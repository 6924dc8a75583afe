package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fitbite/server/internal/storage"
	"github.com/google/uuid"
)

type mealPlansStorage struct {
	mu    sync.RWMutex
	foods *foodsStorage

	plans map[string]*storage.MealPlan
	slots map[string]*storage.MealSlot     // key: slot_id
	items map[string]*storage.MealLineItem // key: item_id

	slotsByPlan map[string][]string // plan_id -> slot ids in creation order
	itemsBySlot map[string][]string // slot_id -> item ids in insertion order
}

func newMealPlansStorage(foods *foodsStorage) *mealPlansStorage {
	return &mealPlansStorage{
		foods:       foods,
		plans:       make(map[string]*storage.MealPlan),
		slots:       make(map[string]*storage.MealSlot),
		items:       make(map[string]*storage.MealLineItem),
		slotsByPlan: make(map[string][]string),
		itemsBySlot: make(map[string][]string),
	}
}

func (s *mealPlansStorage) Create(ctx context.Context, draft storage.MealPlanDraft) (storage.MealPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	// Build the whole graph up front; only publish it into the maps
	// once every row has been validated. All-or-nothing, same as the
	// Postgres transaction.
	plan := &storage.MealPlan{
		ID:          uuid.New().String(),
		OwnerUserID: draft.OwnerUserID,
		Name:        draft.Name,
		IsTemplate:  draft.IsTemplate,
		MealDate:    draft.MealDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var newSlots []*storage.MealSlot
	var newItems []*storage.MealLineItem
	itemsBySlot := make(map[string][]string)

	for _, slotName := range storage.SlotOrder {
		slot := &storage.MealSlot{
			ID:       uuid.New().String(),
			PlanID:   plan.ID,
			Slot:     slotName,
			MealDate: draft.MealDate,
		}
		newSlots = append(newSlots, slot)

		for pos, li := range draft.Items[slotName] {
			if _, ok := s.foods.foods[li.FoodID]; !ok {
				return storage.MealPlan{}, fmt.Errorf("insert line item: food %d does not exist", li.FoodID)
			}
			item := &storage.MealLineItem{
				ID:        uuid.New().String(),
				SlotID:    slot.ID,
				FoodID:    li.FoodID,
				QuantityG: li.QuantityG,
				Position:  pos,
				CreatedAt: now,
			}
			newItems = append(newItems, item)
			itemsBySlot[slot.ID] = append(itemsBySlot[slot.ID], item.ID)
		}
	}

	// Commit.
	s.plans[plan.ID] = plan
	for _, slot := range newSlots {
		s.slots[slot.ID] = slot
		s.slotsByPlan[plan.ID] = append(s.slotsByPlan[plan.ID], slot.ID)
	}
	for _, item := range newItems {
		s.items[item.ID] = item
	}
	for slotID, ids := range itemsBySlot {
		s.itemsBySlot[slotID] = ids
	}

	return *plan, nil
}

func (s *mealPlansStorage) GetByID(ctx context.Context, planID string) (storage.MealPlanGraph, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.foods.mu.RLock()
	defer s.foods.mu.RUnlock()

	plan, ok := s.plans[planID]
	if !ok {
		return storage.MealPlanGraph{}, false, nil
	}

	graph := storage.MealPlanGraph{Plan: *plan}

	// Reimpose the fixed slot order at read time.
	for _, slotName := range storage.SlotOrder {
		var slot *storage.MealSlot
		for _, slotID := range s.slotsByPlan[planID] {
			if s.slots[slotID].Slot == slotName {
				slot = s.slots[slotID]
				break
			}
		}
		if slot == nil {
			continue
		}

		sg := storage.SlotGraph{Slot: *slot, Items: []storage.LineItemWithFood{}}
		for _, itemID := range s.itemsBySlot[slot.ID] {
			item := s.items[itemID]
			entry := storage.LineItemWithFood{Item: *item}
			if f, ok := s.foods.foods[item.FoodID]; ok {
				entry.Food = *f
			}
			sg.Items = append(sg.Items, entry)
		}
		graph.Slots = append(graph.Slots, sg)
	}

	return graph, true, nil
}

func (s *mealPlansStorage) ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.MealPlanSummary, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []*storage.MealPlan
	for _, p := range s.plans {
		if p.OwnerUserID == ownerUserID {
			owned = append(owned, p)
		}
	}

	// Newest first, matching the Postgres ORDER BY created_at DESC.
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	total := len(owned)

	summaries := []storage.MealPlanSummary{}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		for _, p := range owned[offset:end] {
			summaries = append(summaries, storage.MealPlanSummary{
				ID:         p.ID,
				Name:       p.Name,
				IsTemplate: p.IsTemplate,
				MealDate:   p.MealDate,
				FoodCount:  s.countItemsLocked(p.ID),
				CreatedAt:  p.CreatedAt,
				UpdatedAt:  p.UpdatedAt,
			})
		}
	}

	return summaries, total, nil
}

func (s *mealPlansStorage) Delete(ctx context.Context, ownerUserID string, planID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[planID]
	if !ok || plan.OwnerUserID != ownerUserID {
		return false, nil
	}

	for _, slotID := range s.slotsByPlan[planID] {
		for _, itemID := range s.itemsBySlot[slotID] {
			delete(s.items, itemID)
		}
		delete(s.itemsBySlot, slotID)
		delete(s.slots, slotID)
	}
	delete(s.slotsByPlan, planID)
	delete(s.plans, planID)

	return true, nil
}

func (s *mealPlansStorage) countItemsLocked(planID string) int {
	count := 0
	for _, slotID := range s.slotsByPlan[planID] {
		count += len(s.itemsBySlot[slotID])
	}
	return count
}
