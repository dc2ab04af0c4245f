package analytics

import (
	"fmt"
	"time"

	"salescore/pkg/domain"
)

// Period is a bucket width.
type Period string

// Supported bucket widths. Weeks start on Monday.
const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Bucket aggregates the counted orders created in [Start, End).
type Bucket struct {
	Start   time.Time
	End     time.Time
	Orders  int
	Revenue float64
}

func (p Period) floor(t time.Time) time.Time {
	y, m, d := t.Date()
	switch p {
	case PeriodMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case PeriodWeek:
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
}

func (p Period) next(t time.Time) time.Time {
	switch p {
	case PeriodMonth:
		return t.AddDate(0, 1, 0)
	case PeriodWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// BucketOrders splits [from, to) into consecutive periods, including empty
// ones, and sums value over the counted orders created in each. Cancelled and
// returned orders are skipped.
func BucketOrders(orders []domain.Order, period Period, from, to time.Time, value func(domain.Order) float64) []Bucket {
	if !to.After(from) {
		return nil
	}
	var buckets []Bucket
	for start := period.floor(from); start.Before(to); start = period.next(start) {
		buckets = append(buckets, Bucket{Start: start, End: period.next(start)})
	}
	for _, o := range orders {
		if !o.Status.Counted() || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		for i := range buckets {
			if !o.CreatedAt.Before(buckets[i].Start) && o.CreatedAt.Before(buckets[i].End) {
				buckets[i].Orders++
				if value != nil {
					buckets[i].Revenue += value(o)
				}
				break
			}
		}
	}
	return buckets
}
