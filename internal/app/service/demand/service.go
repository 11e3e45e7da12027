package demand

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service exposes the demand aggregation over a live database. It only
// ever reads; all computation happens in the pure functions over a Snapshot.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// DailyDemand aggregates one date; withMaterials adds the raw-material rollup.
func (s *Service) DailyDemand(ctx context.Context, date time.Time, withMaterials bool) (*DayDemand, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeDayDemand(snap, date, withMaterials), nil
}

// MonthCalendar aggregates every day of the month for the calendar view.
func (s *Service) MonthCalendar(ctx context.Context, year int, month time.Month) ([]CalendarCell, error) {
	snap, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeMonthCalendar(snap, year, month), nil
}
