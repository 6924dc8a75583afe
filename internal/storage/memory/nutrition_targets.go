package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fitbite/server/internal/storage"
)

type nutritionTargetsStorage struct {
	mu      sync.RWMutex
	targets map[string]*storage.NutritionTarget
}

func newNutritionTargetsStorage() *nutritionTargetsStorage {
	return &nutritionTargetsStorage{
		targets: make(map[string]*storage.NutritionTarget),
	}
}

func (s *nutritionTargetsStorage) Get(ctx context.Context, ownerUserID string) (*storage.NutritionTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.targets[ownerUserID]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (s *nutritionTargetsStorage) Upsert(ctx context.Context, ownerUserID string, upsert storage.NutritionTargetUpsert) (*storage.NutritionTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	t, ok := s.targets[ownerUserID]
	if !ok {
		t = &storage.NutritionTarget{
			OwnerUserID: ownerUserID,
			CreatedAt:   now,
		}
		s.targets[ownerUserID] = t
	}
	t.CaloriesKcal = upsert.CaloriesKcal
	t.ProteinG = upsert.ProteinG
	t.FatG = upsert.FatG
	t.CarbsG = upsert.CarbsG
	t.UpdatedAt = now

	copied := *t
	return &copied, nil
}
