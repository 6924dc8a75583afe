package nutrition

import (
	"fmt"
	"time"
)

// Default targets returned before a user sets their own.
const (
	DefaultCaloriesKcal = 2000
	DefaultProteinG     = 150
	DefaultFatG         = 70
	DefaultCarbsG       = 225
)

// TargetsDTO is the API representation of daily macro targets.
type TargetsDTO struct {
	CaloriesKcal int       `json:"calories_kcal"`
	ProteinG     int       `json:"protein_g"`
	FatG         int       `json:"fat_g"`
	CarbsG       int       `json:"carbs_g"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// GetTargetsResponse wraps targets with a flag telling the client
// whether they are the built-in defaults.
type GetTargetsResponse struct {
	Targets   TargetsDTO `json:"targets"`
	IsDefault bool       `json:"is_default"`
}

// UpsertTargetsRequest is the payload for PUT /v1/nutrition/targets.
type UpsertTargetsRequest struct {
	CaloriesKcal int `json:"calories_kcal"`
	ProteinG     int `json:"protein_g"`
	FatG         int `json:"fat_g"`
	CarbsG       int `json:"carbs_g"`
}

// Validate checks targets are within sane bounds.
func (r *UpsertTargetsRequest) Validate() error {
	if r.CaloriesKcal < 500 || r.CaloriesKcal > 10000 {
		return fmt.Errorf("calories_kcal must be between 500 and 10000")
	}
	if r.ProteinG < 0 || r.ProteinG > 1000 {
		return fmt.Errorf("protein_g must be between 0 and 1000")
	}
	if r.FatG < 0 || r.FatG > 1000 {
		return fmt.Errorf("fat_g must be between 0 and 1000")
	}
	if r.CarbsG < 0 || r.CarbsG > 2000 {
		return fmt.Errorf("carbs_g must be between 0 and 2000")
	}
	return nil
}

// DefaultTargets returns the built-in defaults.
func DefaultTargets() TargetsDTO {
	return TargetsDTO{
		CaloriesKcal: DefaultCaloriesKcal,
		ProteinG:     DefaultProteinG,
		FatG:         DefaultFatG,
		CarbsG:       DefaultCarbsG,
	}
}
