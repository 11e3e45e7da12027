package models

import (
	"time"

	"github.com/greenplate/mealsub/pkg/types"
)

// Meal carries localized display names. English is the primary client
// locale; DisplayName falls back so the name is never empty.
type Meal struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	NameEn    string    `gorm:"column:name_en;type:varchar(128)" json:"name_en"`
	NameAr    string    `gorm:"column:name_ar;type:varchar(128)" json:"name_ar"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Meal) TableName() string {
	return "meal"
}

func (m *Meal) DisplayName() string {
	if m.NameEn != "" {
		return m.NameEn
	}
	if m.NameAr != "" {
		return m.NameAr
	}
	return m.ID
}

// Ingredient is a raw material with a base unit and per-100-unit nutrition facts.
type Ingredient struct {
	ID             string               `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name           string               `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Unit           types.IngredientUnit `gorm:"column:unit;type:varchar(8);not null" json:"unit"`
	CaloriesPer100 float64              `gorm:"column:calories_per_100" json:"calories_per_100"`
	ProteinPer100  float64              `gorm:"column:protein_per_100" json:"protein_per_100"`
	CarbsPer100    float64              `gorm:"column:carbs_per_100" json:"carbs_per_100"`
	FatPer100      float64              `gorm:"column:fat_per_100" json:"fat_per_100"`
	CreatedAt      time.Time            `json:"created_at"`
}

func (Ingredient) TableName() string {
	return "ingredient"
}

// MealIngredient is the weighted join between a meal and an ingredient,
// consumed only by the raw-material rollup.
type MealIngredient struct {
	ID           string  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MealID       string  `gorm:"column:meal_id;type:uuid;not null;index" json:"meal_id"`
	IngredientID string  `gorm:"column:ingredient_id;type:uuid;not null" json:"ingredient_id"`
	WeightG      float64 `gorm:"column:weight_g;not null" json:"weight_g"`
}

func (MealIngredient) TableName() string {
	return "meal_ingredient"
}
