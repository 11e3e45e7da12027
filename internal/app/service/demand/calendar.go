package demand

import "time"

// CalendarCell is one cell of the month calendar view. Filler cells carry
// real neighbor-month dates with InMonth false and zero counts.
type CalendarCell struct {
	DayDemand
	InMonth bool `json:"in_month"`
}

// ComputeMonthCalendar runs the per-date aggregation (without raw materials)
// for every day of the month and pads both ends with filler cells so the
// result is Monday-aligned and always a multiple of 7 long.
func ComputeMonthCalendar(snap *Snapshot, year int, month time.Month) []CalendarCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-start offset: Monday=0 .. Sunday=6.
	lead := (int(first.Weekday()) + 6) % 7

	cells := make([]CalendarCell, 0, lead+daysInMonth+6)
	for i := lead; i > 0; i-- {
		cells = append(cells, fillerCell(first.AddDate(0, 0, -i)))
	}
	for day := 0; day < daysInMonth; day++ {
		date := first.AddDate(0, 0, day)
		cells = append(cells, CalendarCell{DayDemand: *ComputeDayDemand(snap, date, false), InMonth: true})
	}
	next := first.AddDate(0, 1, 0)
	for i := 0; len(cells)%7 != 0; i++ {
		cells = append(cells, fillerCell(next.AddDate(0, 0, i)))
	}
	return cells
}

func fillerCell(date time.Time) CalendarCell {
	return CalendarCell{
		DayDemand: DayDemand{
			Date:      date.Format(time.DateOnly),
			DayName:   date.Weekday().String(),
			DayNumber: date.Day(),
		},
	}
}
