package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fitbite/server/internal/storage"
)

type foodsStorage struct {
	mu     sync.RWMutex
	foods  map[int64]*storage.Food
	nextID int64
}

func newFoodsStorage() *foodsStorage {
	return &foodsStorage{
		foods:  make(map[int64]*storage.Food),
		nextID: 1,
	}
}

// seedDefaults loads a handful of common foods so memory mode is
// usable out of the box.
func (s *foodsStorage) seedDefaults() {
	defaults := []storage.Food{
		{Name: "Chicken Breast", Category: "protein", ProteinPer100g: 31, FatPer100g: 3.6, CarbsPer100g: 0, CaloriesPer100g: 165},
		{Name: "Salmon", Category: "protein", ProteinPer100g: 20, FatPer100g: 13, CarbsPer100g: 0, CaloriesPer100g: 208},
		{Name: "Egg", Category: "protein", ProteinPer100g: 13, FatPer100g: 11, CarbsPer100g: 1.1, CaloriesPer100g: 155},
		{Name: "White Rice", Category: "carbs", ProteinPer100g: 2.7, FatPer100g: 0.3, CarbsPer100g: 28, CaloriesPer100g: 130},
		{Name: "Oats", Category: "carbs", ProteinPer100g: 16.9, FatPer100g: 6.9, CarbsPer100g: 66.3, CaloriesPer100g: 389},
		{Name: "Sweet Potato", Category: "carbs", ProteinPer100g: 1.6, FatPer100g: 0.1, CarbsPer100g: 20, CaloriesPer100g: 86},
		{Name: "Avocado", Category: "fats", ProteinPer100g: 2, FatPer100g: 15, CarbsPer100g: 9, CaloriesPer100g: 160},
		{Name: "Olive Oil", Category: "fats", ProteinPer100g: 0, FatPer100g: 100, CarbsPer100g: 0, CaloriesPer100g: 884},
	}
	for _, f := range defaults {
		s.add(f)
	}
}

func (s *foodsStorage) add(f storage.Food) storage.Food {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == 0 {
		f.ID = s.nextID
	}
	if f.ID >= s.nextID {
		s.nextID = f.ID + 1
	}

	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	stored := f
	s.foods[f.ID] = &stored
	return stored
}

func (s *foodsStorage) List(ctx context.Context, category, search string, limit, offset int) ([]storage.Food, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []storage.Food
	for _, f := range s.foods {
		if category != "" && f.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, *f)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	total := len(matched)
	if offset >= total {
		return []storage.Food{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *foodsStorage) GetByID(ctx context.Context, id int64) (storage.Food, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.foods[id]
	if !ok {
		return storage.Food{}, false, nil
	}
	return *f, true, nil
}

func (s *foodsStorage) GetByIDs(ctx context.Context, ids []int64) (map[int64]storage.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[int64]storage.Food, len(ids))
	for _, id := range ids {
		if f, ok := s.foods[id]; ok {
			result[id] = *f
		}
	}
	return result, nil
}
