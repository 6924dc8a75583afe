package memory

import (
	"github.com/fitbite/server/internal/storage"
)

// MemoryStorage is the in-memory implementation used when no
// DATABASE_URL is configured and by package tests.
type MemoryStorage struct {
	foods            *foodsStorage
	mealPlans        *mealPlansStorage
	nutritionTargets *nutritionTargetsStorage
}

// New creates an empty MemoryStorage with a small seeded food
// catalog so the API is usable without a database.
func New() *MemoryStorage {
	foods := newFoodsStorage()
	foods.seedDefaults()

	return &MemoryStorage{
		foods:            foods,
		mealPlans:        newMealPlansStorage(foods),
		nutritionTargets: newNutritionTargetsStorage(),
	}
}

// NewEmpty creates a MemoryStorage without seed foods (for tests).
func NewEmpty() *MemoryStorage {
	foods := newFoodsStorage()
	return &MemoryStorage{
		foods:            foods,
		mealPlans:        newMealPlansStorage(foods),
		nutritionTargets: newNutritionTargetsStorage(),
	}
}

func (m *MemoryStorage) GetFoodsStorage() storage.FoodsStorage {
	return m.foods
}

func (m *MemoryStorage) GetMealPlansStorage() storage.MealPlansStorage {
	return m.mealPlans
}

func (m *MemoryStorage) GetNutritionTargetsStorage() storage.NutritionTargetsStorage {
	return m.nutritionTargets
}

// AddFood inserts a food into the in-memory catalog (for tests and
// memory-mode seeding).
func (m *MemoryStorage) AddFood(f storage.Food) storage.Food {
	return m.foods.add(f)
}

func (m *MemoryStorage) Close() error {
	return nil
}
