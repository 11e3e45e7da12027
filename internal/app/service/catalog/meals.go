package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/tool"
	"github.com/greenplate/mealsub/pkg/types"

	"gorm.io/gorm"
)

type MealInput struct {
	NameEn string `json:"name_en"`
	NameAr string `json:"name_ar"`
}

func (s *Service) CreateMeal(ctx context.Context, in *MealInput) (*models.Meal, error) {
	if in.NameEn == "" && in.NameAr == "" {
		return nil, fmt.Errorf("meal needs a name in at least one locale")
	}
	meal := &models.Meal{
		ID:       tool.GenerateUUIDV7(),
		NameEn:   in.NameEn,
		NameAr:   in.NameAr,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	return meal, nil
}

func (s *Service) SetMealActive(ctx context.Context, mealID string, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.Meal{}).
		Where("id = ?", mealID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListMeals(ctx context.Context) ([]*models.Meal, error) {
	var meals []*models.Meal
	if err := s.db.WithContext(ctx).Order("name_en asc").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

type IngredientInput struct {
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
	CaloriesPer100 float64 `json:"calories_per_100"`
	ProteinPer100  float64 `json:"protein_per_100"`
	CarbsPer100    float64 `json:"carbs_per_100"`
	FatPer100      float64 `json:"fat_per_100"`
}

func (s *Service) CreateIngredient(ctx context.Context, in *IngredientInput) (*models.Ingredient, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("ingredient name is required")
	}
	unit, err := types.ParseIngredientUnit(in.Unit)
	if err != nil {
		return nil, err
	}
	ing := &models.Ingredient{
		ID:             tool.GenerateUUIDV7(),
		Name:           in.Name,
		Unit:           unit,
		CaloriesPer100: in.CaloriesPer100,
		ProteinPer100:  in.ProteinPer100,
		CarbsPer100:    in.CarbsPer100,
		FatPer100:      in.FatPer100,
	}
	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return ing, nil
}

func (s *Service) ListIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	var items []*models.Ingredient
	if err := s.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

type RecipeLine struct {
	IngredientID string  `json:"ingredient_id"`
	WeightG      float64 `json:"weight_g"`
}

// SetMealIngredients replaces a meal's full recipe in one transaction.
func (s *Service) SetMealIngredients(ctx context.Context, mealID string, lines []RecipeLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.First(&meal, "id = ?", mealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe: %w", err)
		}
		for _, line := range lines {
			if line.WeightG <= 0 {
				return fmt.Errorf("recipe weight must be positive for ingredient %s", line.IngredientID)
			}
			var ing models.Ingredient
			if err := tx.First(&ing, "id = ?", line.IngredientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			mi := &models.MealIngredient{
				ID:           tool.GenerateUUIDV7(),
				MealID:       mealID,
				IngredientID: line.IngredientID,
				WeightG:      line.WeightG,
			}
			if err := tx.Create(mi).Error; err != nil {
				return fmt.Errorf("failed to create recipe line: %w", err)
			}
		}
		return nil
	})
}
