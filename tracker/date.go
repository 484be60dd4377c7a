package tracker

import (
	"math"
	"time"
)

// =============================================================================
// DATE - Calendar-day abstraction (every record in this system is day-keyed)
// =============================================================================

// Date is a calendar day with no time-of-day component. Rows are keyed by
// the string form ("2006-01-02"), matching how they are stored.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a wall-clock instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses the canonical "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }
func (d Date) IsZero() bool           { return d.Time.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// DaysUntil returns the number of whole days from d to other, rounded up.
// Mirrors the ceil(|diff| / msPerDay) convention the day counter expects.
func (d Date) DaysUntil(other time.Time) int {
	diff := other.Sub(d.Time)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}
