package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/tool"
	"github.com/greenplate/mealsub/pkg/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("catalog record not found")

// Service manages the plan catalog, the menu rotation, and the meal and
// ingredient stores. All of it is admin-edited, engine-read data.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type PlanInput struct {
	Code            string `json:"code"`
	Name            string `json:"name"`
	MealsPerDay     int    `json:"meals_per_day"`
	DeliveryPattern []int  `json:"delivery_pattern"`
	BasePrice       int64  `json:"base_price"`
	DiscountedPrice *int64 `json:"discounted_price"`
}

func (in *PlanInput) validate() error {
	if len(in.Code) < 2 {
		return fmt.Errorf("plan code must be at least 2 characters")
	}
	if in.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if in.MealsPerDay != 1 && in.MealsPerDay != 2 {
		return fmt.Errorf("meals_per_day must be 1 or 2")
	}
	if err := types.ValidateDeliveryPattern(in.DeliveryPattern); err != nil {
		return err
	}
	if in.BasePrice <= 0 {
		return fmt.Errorf("base_price must be positive")
	}
	return nil
}

func (s *Service) CreatePlan(ctx context.Context, in *PlanInput) (*models.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	plan := &models.Plan{
		ID:              tool.GenerateUUIDV7(),
		Code:            in.Code,
		Name:            in.Name,
		MealsPerDay:     in.MealsPerDay,
		DeliveryPattern: datatypes.JSONSlice[int](in.DeliveryPattern),
		BasePrice:       in.BasePrice,
		DiscountedPrice: in.DiscountedPrice,
		Status:          types.PlanStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return plan, nil
}

// UpdatePlan replaces the editable fields of a plan. Existing subscriptions
// keep their price_charged; only future checkouts see the new prices.
func (s *Service) UpdatePlan(ctx context.Context, planID string, in *PlanInput) (*models.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var plan models.Plan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&plan, "id = ?", planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		plan.Code = in.Code
		plan.Name = in.Name
		plan.MealsPerDay = in.MealsPerDay
		plan.DeliveryPattern = datatypes.JSONSlice[int](in.DeliveryPattern)
		plan.BasePrice = in.BasePrice
		plan.DiscountedPrice = in.DiscountedPrice
		return tx.Save(&plan).Error
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ArchivePlan removes a plan from the storefront. Never deletes: existing
// subscriptions keep referencing it.
func (s *Service) ArchivePlan(ctx context.Context, planID string) error {
	res := s.db.WithContext(ctx).Model(&models.Plan{}).
		Where("id = ?", planID).
		Update("status", types.PlanStatusArchived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListPlans(ctx context.Context, includeArchived bool) ([]*models.Plan, error) {
	q := s.db.WithContext(ctx).Order("code asc")
	if !includeArchived {
		q = q.Where("status = ?", types.PlanStatusActive)
	}
	var plans []*models.Plan
	if err := q.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}
