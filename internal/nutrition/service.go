package nutrition

import (
	"context"
	"fmt"

	"github.com/fitbite/server/internal/storage"
)

// Service handles nutrition targets business logic.
type Service struct {
	targetsStorage storage.NutritionTargetsStorage
}

// NewService creates a new nutrition service.
func NewService(targetsStorage storage.NutritionTargetsStorage) *Service {
	return &Service{targetsStorage: targetsStorage}
}

// GetOrDefault returns the user's targets, or the built-in defaults
// if none have been set yet.
func (s *Service) GetOrDefault(ctx context.Context, ownerUserID string) (TargetsDTO, bool, error) {
	target, err := s.targetsStorage.Get(ctx, ownerUserID)
	if err != nil {
		return TargetsDTO{}, false, fmt.Errorf("failed to get nutrition targets: %w", err)
	}

	if target == nil {
		return DefaultTargets(), true, nil
	}

	return TargetsDTO{
		CaloriesKcal: target.CaloriesKcal,
		ProteinG:     target.ProteinG,
		FatG:         target.FatG,
		CarbsG:       target.CarbsG,
		CreatedAt:    target.CreatedAt,
		UpdatedAt:    target.UpdatedAt,
	}, false, nil
}

// Upsert creates or replaces the user's targets.
func (s *Service) Upsert(ctx context.Context, ownerUserID string, req UpsertTargetsRequest) (TargetsDTO, error) {
	if err := req.Validate(); err != nil {
		return TargetsDTO{}, fmt.Errorf("invalid_request: %w", err)
	}

	target, err := s.targetsStorage.Upsert(ctx, ownerUserID, storage.NutritionTargetUpsert{
		CaloriesKcal: req.CaloriesKcal,
		ProteinG:     req.ProteinG,
		FatG:         req.FatG,
		CarbsG:       req.CarbsG,
	})
	if err != nil {
		return TargetsDTO{}, fmt.Errorf("failed to upsert nutrition targets: %w", err)
	}

	return TargetsDTO{
		CaloriesKcal: target.CaloriesKcal,
		ProteinG:     target.ProteinG,
		FatG:         target.FatG,
		CarbsG:       target.CarbsG,
		CreatedAt:    target.CreatedAt,
		UpdatedAt:    target.UpdatedAt,
	}, nil
}
