package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/types"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Statistic types served to the admin dashboard.
type StatisticType string

const (
	// Pipeline: subscription counts per lifecycle status.
	StatisticTypeStatusCounts StatisticType = "status_counts"
	// Pipeline and revenue per plan.
	StatisticTypePlanCounts  StatisticType = "plan_counts"
	StatisticTypePlanRevenue StatisticType = "plan_revenue"
	// Growth: new subscriptions per day.
	StatisticTypeDailyNewSubscriptions StatisticType = "daily_new_subscriptions"
)

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
}

// filtersWhere composes the request filters into one WHERE expression.
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

type StatisticResponseDataItem struct {
	Date  string `json:"date,omitempty"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// Service provides read-only reporting aggregations.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getStatusCounts(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Subscription{}).TableName()).
		Select("status as label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{filtersWhere{filters: request.Filters}}}).
		Group("status").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPlanCounts(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.db.WithContext(ctx).Table((models.Subscription{}).TableName()).
		Select("plan.code as label, count(*) as value").
		Joins("JOIN plan ON plan.id = subscription.plan_id").
		Where(clause.Where{Exprs: []clause.Expression{filtersWhere{filters: request.Filters}}}).
		Group("plan.code").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// getPlanRevenue sums price_charged over subscriptions that have at least
// one successful payment, per plan.
func (s *Service) getPlanRevenue(ctx context.Context, _ *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
SELECT plan.code as label, COALESCE(SUM(subscription.price_charged), 0) as value
FROM subscription
JOIN plan ON plan.id = subscription.plan_id
WHERE subscription.has_successful_payment = 1
GROUP BY plan.code
ORDER BY label
`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyNewSubscriptions(ctx context.Context, _ *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
SELECT strftime('%Y-%m-%d', created_at) as date, count(*) as value
FROM subscription
GROUP BY strftime('%Y-%m-%d', created_at)
ORDER BY date DESC
`).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getStatistic(ctx context.Context, request *StatisticRequest, dataItem *StatisticDataItem) ([]StatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeStatusCounts:
		return s.getStatusCounts(ctx, request)
	case StatisticTypePlanCounts:
		return s.getPlanCounts(ctx, request)
	case StatisticTypePlanRevenue:
		return s.getPlanRevenue(ctx, request)
	case StatisticTypeDailyNewSubscriptions:
		return s.getDailyNewSubscriptions(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetStatistics resolves all requested data items concurrently.
func (s *Service) GetStatistics(ctx context.Context, request *StatisticRequest) (*StatisticResponse, error) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []StatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *StatisticDataItem) {
			defer wg.Done()
			res, err := s.getStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	wg.Wait()
	close(errChan)
	close(resChan)

	if err := <-errChan; err != nil {
		return nil, err
	}
	results := make(map[StatisticType][]StatisticResponseDataItem)
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	return &StatisticResponse{DataItems: results}, nil
}
