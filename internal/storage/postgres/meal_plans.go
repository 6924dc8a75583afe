package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitbite/server/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type mealPlansStorage struct {
	pool *pgxpool.Pool
}

func newMealPlansStorage(pool *pgxpool.Pool) *mealPlansStorage {
	return &mealPlansStorage{pool: pool}
}

func (s *mealPlansStorage) Create(ctx context.Context, draft storage.MealPlanDraft) (storage.MealPlan, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.MealPlan{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	planQuery := `
		INSERT INTO meal_plans (owner_user_id, name, is_template, meal_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_user_id, name, is_template, to_char(meal_date, 'YYYY-MM-DD'), created_at, updated_at
	`

	var plan storage.MealPlan
	err = tx.QueryRow(ctx, planQuery,
		draft.OwnerUserID,
		draft.Name,
		draft.IsTemplate,
		draft.MealDate,
	).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.Name,
		&plan.IsTemplate,
		&plan.MealDate,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return storage.MealPlan{}, fmt.Errorf("failed to create meal plan: %w", err)
	}

	slotQuery := `
		INSERT INTO meal_slots (meal_plan_id, slot, meal_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	itemQuery := `
		INSERT INTO meal_foods (meal_slot_id, food_id, quantity_g, position)
		VALUES ($1, $2, $3, $4)
	`

	// Every plan gets all four slots, even the empty ones.
	for _, slotName := range storage.SlotOrder {
		var slotID string
		err = tx.QueryRow(ctx, slotQuery, plan.ID, slotName, draft.MealDate).Scan(&slotID)
		if err != nil {
			return storage.MealPlan{}, fmt.Errorf("failed to create meal slot: %w", err)
		}

		for pos, li := range draft.Items[slotName] {
			_, err = tx.Exec(ctx, itemQuery, slotID, li.FoodID, li.QuantityG, pos)
			if err != nil {
				return storage.MealPlan{}, fmt.Errorf("failed to insert meal food: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.MealPlan{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return plan, nil
}

func (s *mealPlansStorage) GetByID(ctx context.Context, planID string) (storage.MealPlanGraph, bool, error) {
	planQuery := `
		SELECT id, owner_user_id, name, is_template, to_char(meal_date, 'YYYY-MM-DD'), created_at, updated_at
		FROM meal_plans
		WHERE id = $1
	`

	var plan storage.MealPlan
	err := s.pool.QueryRow(ctx, planQuery, planID).Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.Name,
		&plan.IsTemplate,
		&plan.MealDate,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.MealPlanGraph{}, false, nil
	}
	if err != nil {
		return storage.MealPlanGraph{}, false, fmt.Errorf("failed to get meal plan: %w", err)
	}

	slotsQuery := `
		SELECT id, meal_plan_id, slot, to_char(meal_date, 'YYYY-MM-DD')
		FROM meal_slots
		WHERE meal_plan_id = $1
		ORDER BY
			CASE slot
				WHEN 'breakfast' THEN 1
				WHEN 'lunch' THEN 2
				WHEN 'dinner' THEN 3
				WHEN 'snack' THEN 4
			END
	`

	rows, err := s.pool.Query(ctx, slotsQuery, planID)
	if err != nil {
		return storage.MealPlanGraph{}, false, fmt.Errorf("failed to get meal slots: %w", err)
	}
	defer rows.Close()

	graph := storage.MealPlanGraph{Plan: plan}
	for rows.Next() {
		var slot storage.MealSlot
		err := rows.Scan(&slot.ID, &slot.PlanID, &slot.Slot, &slot.MealDate)
		if err != nil {
			return storage.MealPlanGraph{}, false, fmt.Errorf("failed to scan meal slot: %w", err)
		}
		graph.Slots = append(graph.Slots, storage.SlotGraph{Slot: slot, Items: []storage.LineItemWithFood{}})
	}
	if rows.Err() != nil {
		return storage.MealPlanGraph{}, false, fmt.Errorf("error iterating meal slots: %w", rows.Err())
	}

	// Nutrition facts are joined at read time so catalog updates are
	// always reflected in plan totals.
	itemsQuery := `
		SELECT mf.id, mf.meal_slot_id, mf.food_id, mf.quantity_g, mf.position, mf.created_at,
		       f.id, f.name, f.category, f.protein_per_100g, f.fat_per_100g, f.carbs_per_100g, f.calories_per_100g, f.created_at, f.updated_at
		FROM meal_foods mf
		JOIN meal_slots ms ON ms.id = mf.meal_slot_id
		LEFT JOIN foods f ON f.id = mf.food_id
		WHERE ms.meal_plan_id = $1
		ORDER BY mf.position ASC, mf.created_at ASC
	`

	itemRows, err := s.pool.Query(ctx, itemsQuery, planID)
	if err != nil {
		return storage.MealPlanGraph{}, false, fmt.Errorf("failed to get meal foods: %w", err)
	}
	defer itemRows.Close()

	bySlot := make(map[string][]storage.LineItemWithFood)
	for itemRows.Next() {
		var entry storage.LineItemWithFood
		var foodID *int64
		var name, category *string
		var protein, fat, carbs, calories *float64
		var foodCreated, foodUpdated *time.Time
		err := itemRows.Scan(
			&entry.Item.ID,
			&entry.Item.SlotID,
			&entry.Item.FoodID,
			&entry.Item.QuantityG,
			&entry.Item.Position,
			&entry.Item.CreatedAt,
			&foodID,
			&name,
			&category,
			&protein,
			&fat,
			&carbs,
			&calories,
			&foodCreated,
			&foodUpdated,
		)
		if err != nil {
			return storage.MealPlanGraph{}, false, fmt.Errorf("failed to scan meal food: %w", err)
		}
		if foodID != nil {
			entry.Food = storage.Food{
				ID:              *foodID,
				Name:            *name,
				Category:        *category,
				ProteinPer100g:  *protein,
				FatPer100g:      *fat,
				CarbsPer100g:    *carbs,
				CaloriesPer100g: *calories,
				CreatedAt:       *foodCreated,
				UpdatedAt:       *foodUpdated,
			}
		}
		bySlot[entry.Item.SlotID] = append(bySlot[entry.Item.SlotID], entry)
	}
	if itemRows.Err() != nil {
		return storage.MealPlanGraph{}, false, fmt.Errorf("error iterating meal foods: %w", itemRows.Err())
	}

	for i := range graph.Slots {
		if items, ok := bySlot[graph.Slots[i].Slot.ID]; ok {
			graph.Slots[i].Items = items
		}
	}

	return graph, true, nil
}

func (s *mealPlansStorage) ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.MealPlanSummary, int, error) {
	countQuery := `SELECT COUNT(*) FROM meal_plans WHERE owner_user_id = $1`

	var total int
	if err := s.pool.QueryRow(ctx, countQuery, ownerUserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meal plans: %w", err)
	}

	query := `
		SELECT p.id, p.name, p.is_template, to_char(p.meal_date, 'YYYY-MM-DD'), p.created_at, p.updated_at,
		       COUNT(mf.id) AS food_count
		FROM meal_plans p
		LEFT JOIN meal_slots ms ON ms.meal_plan_id = p.id
		LEFT JOIN meal_foods mf ON mf.meal_slot_id = ms.id
		WHERE p.owner_user_id = $1
		GROUP BY p.id, p.name, p.is_template, p.meal_date, p.created_at, p.updated_at
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	summaries := []storage.MealPlanSummary{}
	for rows.Next() {
		var sum storage.MealPlanSummary
		err := rows.Scan(
			&sum.ID,
			&sum.Name,
			&sum.IsTemplate,
			&sum.MealDate,
			&sum.CreatedAt,
			&sum.UpdatedAt,
			&sum.FoodCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan meal plan summary: %w", err)
		}
		summaries = append(summaries, sum)
	}

	return summaries, total, rows.Err()
}

func (s *mealPlansStorage) Delete(ctx context.Context, ownerUserID string, planID string) (bool, error) {
	query := `DELETE FROM meal_plans WHERE id = $1 AND owner_user_id = $2`

	result, err := s.pool.Exec(ctx, query, planID, ownerUserID)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal plan: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
