package storage

import (
	"context"
	"time"
)

// Slot names in their fixed display order. A meal plan always owns
// exactly one slot per name; the set never grows or shrinks.
var SlotOrder = [4]string{"breakfast", "lunch", "dinner", "snack"}

// IsValidSlot reports whether name is one of the four fixed slots.
func IsValidSlot(name string) bool {
	for _, s := range SlotOrder {
		if s == name {
			return true
		}
	}
	return false
}

// Food is a catalog entry with per-100g nutrition facts.
// The catalog is read-only for this service; rows are managed by
// seed migrations.
type Food struct {
	ID              int64
	Name            string
	Category        string // protein | carbs | fats
	ProteinPer100g  float64
	FatPer100g      float64
	CarbsPer100g    float64
	CaloriesPer100g float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FoodsStorage is the read-only food catalog.
type FoodsStorage interface {
	// List returns a page of foods with optional category and
	// case-insensitive name filters, plus the unpaginated total.
	List(ctx context.Context, category, search string, limit, offset int) ([]Food, int, error)

	// GetByID returns a food by id. bool=false means not found.
	GetByID(ctx context.Context, id int64) (Food, bool, error)

	// GetByIDs returns the foods for the given ids, keyed by id.
	// Missing ids are simply absent from the map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]Food, error)
}

// MealPlan is the plan header row.
type MealPlan struct {
	ID          string
	OwnerUserID string
	Name        string
	IsTemplate  bool
	MealDate    string // YYYY-MM-DD
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealSlot is one of the four fixed per-plan containers.
type MealSlot struct {
	ID       string
	PlanID   string
	Slot     string // breakfast | lunch | dinner | snack
	MealDate string
}

// MealLineItem is a (food, quantity) pairing within a slot.
type MealLineItem struct {
	ID        string
	SlotID    string
	FoodID    int64
	QuantityG float64
	Position  int
	CreatedAt time.Time
}

// LineItemDraft is the input for one line item at plan creation.
type LineItemDraft struct {
	FoodID    int64
	QuantityG float64
}

// MealPlanDraft is the validated input for atomic plan creation.
// Items is keyed by slot name; every key is one of SlotOrder.
type MealPlanDraft struct {
	OwnerUserID string
	Name        string
	IsTemplate  bool
	MealDate    string // YYYY-MM-DD
	Items       map[string][]LineItemDraft
}

// LineItemWithFood is a line item joined with its food facts at read
// time. Food facts are never cached on the line item row.
type LineItemWithFood struct {
	Item MealLineItem
	Food Food
}

// SlotGraph is a slot with its line items in insertion order.
type SlotGraph struct {
	Slot  MealSlot
	Items []LineItemWithFood
}

// MealPlanGraph is the full plan read model: header plus the four
// slots in fixed order.
type MealPlanGraph struct {
	Plan  MealPlan
	Slots []SlotGraph
}

// MealPlanSummary is a list row with a cross-slot food count.
type MealPlanSummary struct {
	ID         string
	Name       string
	IsTemplate bool
	MealDate   string
	FoodCount  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MealPlansStorage is the only component allowed to mutate the
// plan/slot/line-item graph.
type MealPlansStorage interface {
	// Create inserts the plan header, its four slots and all line
	// items as one atomic unit. On error nothing from the call is
	// ever observable to other readers.
	Create(ctx context.Context, draft MealPlanDraft) (MealPlan, error)

	// GetByID returns the full plan graph. bool=false means absent.
	// Ownership is checked by the caller, not here.
	GetByID(ctx context.Context, planID string) (MealPlanGraph, bool, error)

	// ListByOwner returns a page of plan summaries for an owner plus
	// the total count. The page and the count are separate queries;
	// a plan inserted between them may or may not be counted.
	ListByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]MealPlanSummary, int, error)

	// Delete removes a plan owned by ownerUserID; slots and line
	// items cascade. bool=false means absent or not owned.
	Delete(ctx context.Context, ownerUserID string, planID string) (bool, error)
}

// NutritionTarget holds per-user macro goals.
type NutritionTarget struct {
	OwnerUserID  string
	CaloriesKcal int
	ProteinG     int
	FatG         int
	CarbsG       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NutritionTargetUpsert is the input for creating/updating targets.
type NutritionTargetUpsert struct {
	CaloriesKcal int
	ProteinG     int
	FatG         int
	CarbsG       int
}

// NutritionTargetsStorage persists per-user nutrition goals.
type NutritionTargetsStorage interface {
	// Get returns targets for a user. nil means not set.
	Get(ctx context.Context, ownerUserID string) (*NutritionTarget, error)

	// Upsert creates or updates targets for a user.
	Upsert(ctx context.Context, ownerUserID string, upsert NutritionTargetUpsert) (*NutritionTarget, error)
}

// Storage is the top-level persistence handle.
type Storage interface {
	GetFoodsStorage() FoodsStorage
	GetMealPlansStorage() MealPlansStorage
	GetNutritionTargetsStorage() NutritionTargetsStorage

	// Close releases the underlying connection pool (for Postgres).
	Close() error
}
