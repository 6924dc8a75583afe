package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitbite/server/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type nutritionTargetsStorage struct {
	pool *pgxpool.Pool
}

func newNutritionTargetsStorage(pool *pgxpool.Pool) *nutritionTargetsStorage {
	return &nutritionTargetsStorage{pool: pool}
}

func (s *nutritionTargetsStorage) Get(ctx context.Context, ownerUserID string) (*storage.NutritionTarget, error) {
	query := `
		SELECT owner_user_id, calories_kcal, protein_g, fat_g, carbs_g, created_at, updated_at
		FROM nutrition_targets
		WHERE owner_user_id = $1
	`

	var t storage.NutritionTarget
	err := s.pool.QueryRow(ctx, query, ownerUserID).Scan(
		&t.OwnerUserID,
		&t.CaloriesKcal,
		&t.ProteinG,
		&t.FatG,
		&t.CarbsG,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nutrition targets: %w", err)
	}

	return &t, nil
}

func (s *nutritionTargetsStorage) Upsert(ctx context.Context, ownerUserID string, upsert storage.NutritionTargetUpsert) (*storage.NutritionTarget, error) {
	query := `
		INSERT INTO nutrition_targets (owner_user_id, calories_kcal, protein_g, fat_g, carbs_g)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_user_id) DO UPDATE SET
			calories_kcal = EXCLUDED.calories_kcal,
			protein_g = EXCLUDED.protein_g,
			fat_g = EXCLUDED.fat_g,
			carbs_g = EXCLUDED.carbs_g,
			updated_at = now()
		RETURNING owner_user_id, calories_kcal, protein_g, fat_g, carbs_g, created_at, updated_at
	`

	var t storage.NutritionTarget
	err := s.pool.QueryRow(ctx, query,
		ownerUserID,
		upsert.CaloriesKcal,
		upsert.ProteinG,
		upsert.FatG,
		upsert.CarbsG,
	).Scan(
		&t.OwnerUserID,
		&t.CaloriesKcal,
		&t.ProteinG,
		&t.FatG,
		&t.CarbsG,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert nutrition targets: %w", err)
	}

	return &t, nil
}
