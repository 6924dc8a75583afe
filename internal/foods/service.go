package foods

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/fitbite/server/internal/storage"
)

// Service exposes the read-only food catalog. Other packages consume
// it both over HTTP and directly as the catalog gateway for meal
// plan validation.
type Service struct {
	foodsStorage storage.FoodsStorage
}

// NewService creates a new foods service.
func NewService(foodsStorage storage.FoodsStorage) *Service {
	return &Service{foodsStorage: foodsStorage}
}

// List returns a paginated slice of the catalog.
func (s *Service) List(ctx context.Context, category, search string, page, pageSize int) (ListFoodsResponse, error) {
	offset := (page - 1) * pageSize

	foods, total, err := s.foodsStorage.List(ctx, category, search, pageSize, offset)
	if err != nil {
		return ListFoodsResponse{}, fmt.Errorf("failed to list foods: %w", err)
	}

	dtos := make([]FoodDTO, 0, len(foods))
	for _, f := range foods {
		dtos = append(dtos, toDTO(f))
	}

	return ListFoodsResponse{
		Foods:      dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// GetByID returns a single food. found=false means the id is unknown.
func (s *Service) GetByID(ctx context.Context, id int64) (FoodDTO, bool, error) {
	f, found, err := s.foodsStorage.GetByID(ctx, id)
	if err != nil {
		return FoodDTO{}, false, fmt.Errorf("failed to get food: %w", err)
	}
	if !found {
		return FoodDTO{}, false, nil
	}
	return toDTO(f), true, nil
}

// Search returns up to limit foods whose names contain q.
func (s *Service) Search(ctx context.Context, q string, limit int) (SearchFoodsResponse, error) {
	foods, _, err := s.foodsStorage.List(ctx, "", q, limit, 0)
	if err != nil {
		return SearchFoodsResponse{}, fmt.Errorf("failed to search foods: %w", err)
	}

	dtos := make([]FoodDTO, 0, len(foods))
	for _, f := range foods {
		dtos = append(dtos, toDTO(f))
	}
	return SearchFoodsResponse{Foods: dtos}, nil
}

// CheckExistence verifies every id refers to a catalog food and
// returns the missing ids sorted ascending, deduplicated.
func (s *Service) CheckExistence(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.foodsStorage.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check food ids: %w", err)
	}

	seen := make(map[int64]bool)
	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok && !seen[id] {
			seen[id] = true
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })

	return missing, nil
}

// GetByIDs returns foods keyed by id; missing ids are absent.
func (s *Service) GetByIDs(ctx context.Context, ids []int64) (map[int64]storage.Food, error) {
	return s.foodsStorage.GetByIDs(ctx, ids)
}
