package postgres

import (
	"context"

	"github.com/fitbite/server/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage is the pgx-backed implementation of storage.Storage.
type PostgresStorage struct {
	pool             *pgxpool.Pool
	foods            *foodsStorage
	mealPlans        *mealPlansStorage
	nutritionTargets *nutritionTargetsStorage
}

// New connects to Postgres and verifies the connection with a ping.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:             pool,
		foods:            newFoodsStorage(pool),
		mealPlans:        newMealPlansStorage(pool),
		nutritionTargets: newNutritionTargetsStorage(pool),
	}, nil
}

func (p *PostgresStorage) GetFoodsStorage() storage.FoodsStorage {
	return p.foods
}

func (p *PostgresStorage) GetMealPlansStorage() storage.MealPlansStorage {
	return p.mealPlans
}

func (p *PostgresStorage) GetNutritionTargetsStorage() storage.NutritionTargetsStorage {
	return p.nutritionTargets
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
