package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/logctx"
	"github.com/greenplate/mealsub/pkg/tool"
	"github.com/greenplate/mealsub/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the subscription state machine. It is the only writer of
// Subscription.Status; every change is paired with exactly one
// SubscriptionStateHistory row inside the same transaction.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// ReasonInitialCreation is the history reason written for the creation event.
const ReasonInitialCreation = "Initial subscription creation"

// ExecuteTransition validates newState against the current state's allowed
// destinations and, on success, writes the status change and appends the
// history row as one transaction.
func (s *Service) ExecuteTransition(ctx context.Context, subscriptionID string, newState types.SubscriptionStatus, reason, changedBy string) (*models.Subscription, error) {
	// Normalize alias/case spellings ("New", "active") to the canonical
	// value before the edge lookup; only canonical values are stored.
	parsed, err := types.ParseSubscriptionStatus(string(newState))
	if err != nil {
		return nil, &ValidationError{Field: "new_state", Detail: err.Error()}
	}
	newState = parsed

	var sub models.Subscription
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, "id = ?", subscriptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		return s.applyTransition(ctx, tx, &sub, newState, reason, changedBy)
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// applyTransition performs the guarded status write plus history append.
// Must run inside tx. sub is updated in place on success.
func (s *Service) applyTransition(ctx context.Context, tx *gorm.DB, sub *models.Subscription, newState types.SubscriptionStatus, reason, changedBy string) error {
	prev := sub.Status
	if !prev.CanTransitionTo(newState) {
		return &InvalidTransitionError{From: prev, To: newState}
	}

	// Compare-and-set on the previous status serializes concurrent
	// transitions on the same row: the loser sees zero rows affected
	// instead of silently overwriting.
	res := tx.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", sub.ID, prev).
		Updates(map[string]any{"status": newState, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTransitionConflict
	}

	prevCopy := prev
	entry := &models.SubscriptionStateHistory{
		ID:             tool.GenerateUUIDV7(),
		SubscriptionID: sub.ID,
		PreviousState:  &prevCopy,
		NewState:       newState,
		Reason:         reason,
		ChangedBy:      changedBy,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append state history: %w", err)
	}

	sub.Status = newState
	logctx.FromCtx(ctx, s.log).Infow("subscription transition",
		"subscription_id", sub.ID, "from", prev, "to", newState, "reason", reason, "changed_by", changedBy)
	return nil
}

// CreateSubscriptionInput carries the fields required to create a
// subscription with a caller-supplied initial status.
type CreateSubscriptionInput struct {
	UserID       string
	PlanID       string
	Status       types.SubscriptionStatus
	StartDate    time.Time
	EndDate      *time.Time
	PriceCharged int64
	AutoRenewal  bool
	ChangedBy    string
}

// CreateWithState creates the subscription row and its creation history
// entry (previous_state null) in one transaction.
func (s *Service) CreateWithState(ctx context.Context, in CreateSubscriptionInput) (*models.Subscription, error) {
	if in.UserID == "" {
		return nil, &ValidationError{Field: "user_id", Detail: "required"}
	}
	if in.PlanID == "" {
		return nil, &ValidationError{Field: "plan_id", Detail: "required"}
	}
	status, err := types.ParseSubscriptionStatus(string(in.Status))
	if err != nil {
		return nil, &ValidationError{Field: "status", Detail: err.Error()}
	}
	if in.StartDate.IsZero() {
		return nil, &ValidationError{Field: "start_date", Detail: "required"}
	}

	sub := &models.Subscription{
		ID:           tool.GenerateUUIDV7(),
		UserID:       in.UserID,
		PlanID:       in.PlanID,
		Status:       status,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		PriceCharged: in.PriceCharged,
		AutoRenewal:  in.AutoRenewal,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.Plan
		if err := tx.First(&plan, "id = ?", in.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Field: "plan_id", Detail: "plan not found"}
			}
			return fmt.Errorf("failed to load plan: %w", err)
		}
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		entry := &models.SubscriptionStateHistory{
			ID:             tool.GenerateUUIDV7(),
			SubscriptionID: sub.ID,
			PreviousState:  nil,
			NewState:       status,
			Reason:         ReasonInitialCreation,
			ChangedBy:      in.ChangedBy,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append creation history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("subscription created",
		"subscription_id", sub.ID, "user_id", sub.UserID, "plan_id", sub.PlanID, "status", sub.Status)
	return sub, nil
}

// Get loads one subscription.
func (s *Service) Get(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).First(&sub, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListHistory returns the append-only state history of a subscription,
// oldest first.
func (s *Service) ListHistory(ctx context.Context, subscriptionID string) ([]*models.SubscriptionStateHistory, error) {
	if _, err := s.Get(ctx, subscriptionID); err != nil {
		return nil, err
	}
	var entries []*models.SubscriptionStateHistory
	if err := s.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at asc, id asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListSubscriptionsRequest pages through subscriptions for the admin list view.
type ListSubscriptionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ListSubscriptionsResult struct {
	Items []*models.Subscription
	Total int64
}

// filtersWhere wraps a list of filters into a single clause.Expression.
type filtersWhere struct{ filters []*types.CommonFilter }

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

func (s *Service) ListSubscriptions(ctx context.Context, req *ListSubscriptionsRequest) (*ListSubscriptionsResult, error) {
	q := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where(clause.Where{Exprs: []clause.Expression{filtersWhere{filters: req.Filters}}})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	desc := req.SortOrder != "asc"
	size := req.Size
	if size <= 0 || size > 500 {
		size = 50
	}

	var items []*models.Subscription
	if err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: sortBy}, Desc: desc}).
		Offset(req.From).Limit(size).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return &ListSubscriptionsResult{Items: items, Total: total}, nil
}
