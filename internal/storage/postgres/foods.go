package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitbite/server/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type foodsStorage struct {
	pool *pgxpool.Pool
}

func newFoodsStorage(pool *pgxpool.Pool) *foodsStorage {
	return &foodsStorage{pool: pool}
}

func (s *foodsStorage) List(ctx context.Context, category, search string, limit, offset int) ([]storage.Food, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	argN := 1

	if category != "" {
		where += fmt.Sprintf(" AND category = $%d", argN)
		args = append(args, category)
		argN++
	}
	if search != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argN)
		args = append(args, "%"+search+"%")
		argN++
	}

	countQuery := "SELECT COUNT(*) FROM foods " + where

	var total int
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count foods: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, category, protein_per_100g, fat_per_100g, carbs_per_100g, calories_per_100g, created_at, updated_at
		FROM foods
		%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, where, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list foods: %w", err)
	}
	defer rows.Close()

	foods := []storage.Food{}
	for rows.Next() {
		var f storage.Food
		err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.Category,
			&f.ProteinPer100g,
			&f.FatPer100g,
			&f.CarbsPer100g,
			&f.CaloriesPer100g,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan food: %w", err)
		}
		foods = append(foods, f)
	}

	return foods, total, rows.Err()
}

func (s *foodsStorage) GetByID(ctx context.Context, id int64) (storage.Food, bool, error) {
	query := `
		SELECT id, name, category, protein_per_100g, fat_per_100g, carbs_per_100g, calories_per_100g, created_at, updated_at
		FROM foods
		WHERE id = $1
	`

	var f storage.Food
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&f.ID,
		&f.Name,
		&f.Category,
		&f.ProteinPer100g,
		&f.FatPer100g,
		&f.CarbsPer100g,
		&f.CaloriesPer100g,
		&f.CreatedAt,
		&f.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Food{}, false, nil
	}
	if err != nil {
		return storage.Food{}, false, fmt.Errorf("failed to get food: %w", err)
	}

	return f, true, nil
}

func (s *foodsStorage) GetByIDs(ctx context.Context, ids []int64) (map[int64]storage.Food, error) {
	result := make(map[int64]storage.Food, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, name, category, protein_per_100g, fat_per_100g, carbs_per_100g, calories_per_100g, created_at, updated_at
		FROM foods
		WHERE id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get foods by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f storage.Food
		err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.Category,
			&f.ProteinPer100g,
			&f.FatPer100g,
			&f.CarbsPer100g,
			&f.CaloriesPer100g,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food: %w", err)
		}
		result[f.ID] = f
	}

	return result, rows.Err()
}
