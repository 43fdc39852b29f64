package era

import (
	"fmt"
	"time"
)

// Era is one drafting period. The active era has no end date.
type Era struct {
	ID         int64
	Label      string
	Year       int
	StartDate  time.Time
	EndDate    *time.Time
	Generation int64
}

func (e Era) Active() bool {
	return e.EndDate == nil
}

func LabelFor(n int) string {
	return fmt.Sprintf("Era %d", n)
}

// First opens the very first era on today's date.
func First(today time.Time) Era {
	day := Day(today)
	return Era{
		Label:     LabelFor(1),
		Year:      day.Year(),
		StartDate: day,
	}
}

// Rollover closes current on closeOn and returns it along with its successor.
// count is the number of eras that exist so far. The successor keeps the year
// and starts the day after the close date. closeOn is clamped so an era never
// ends before it started.
func Rollover(current Era, count int, closeOn time.Time) (closed Era, next Era) {
	end := Day(closeOn)
	if end.Before(current.StartDate) {
		end = Day(current.StartDate)
	}

	closed = current
	closed.EndDate = &end

	next = Era{
		Label:     LabelFor(count + 1),
		Year:      current.Year,
		StartDate: end.AddDate(0, 0, 1),
	}
	return closed, next
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
