// Package dashboard aggregates stored records for the admin views.
//
// Every function is pure and accepts an empty slice, returning empty or zero results.
package dashboard

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"time"

	"medguide/internal/domain/entity"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RollingWindow is the number of daily periods averaged by DailyCounts.
const RollingWindow = 7

// Unknown labels records whose grouped field is empty.
const Unknown = "unknown"

// Stored multi-select answers are joined with ", " and free-text answers often use "and";
// both separate values.
var multiValueSeparator = regexp.MustCompile(`(?i)\s*,\s*|\s+and\s+`)

type Count struct {
	Value string          `json:"value"`
	Count int             `json:"count"`
	Share decimal.Decimal `json:"share"`
}

type DailyPoint struct {
	Date        string              `json:"date"`
	Count       int                 `json:"count"`
	RollingMean decimal.NullDecimal `json:"rolling_mean"`
}

// CountBy groups records by a stored field, most frequent first (ties by value).
func CountBy[T entity.Record](records []T, field string) []Count {
	values := lo.Map(records, func(r T, _ int) string {
		return groupValue(r.Fields()[field])
	})
	return tally(values, len(records))
}

// CountByMultiValue counts every value of a delimiter-joined field separately, so one record
// can contribute to several groups. Shares are relative to the number of records.
func CountByMultiValue[T entity.Record](records []T, field string) []Count {
	values := lo.FlatMap(records, func(r T, _ int) []string {
		parts := SplitMultiValue(r.Fields()[field])
		if len(parts) == 0 {
			return []string{Unknown}
		}
		return lo.Uniq(parts)
	})
	return tally(values, len(records))
}

func tally(values []string, total int) []Count {
	counts := lo.CountValuesBy(values, func(v string) string { return v })
	out := make([]Count, 0, len(counts))
	for value, n := range counts {
		out = append(out, Count{Value: value, Count: n, Share: share(n, total)})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

func share(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Div(decimal.NewFromInt(int64(total))).Round(4)
}

func groupValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Unknown
	}
	return v
}

// FilterByDateRange keeps records whose stamp falls on a day in [from, to], both inclusive.
// Only the date component is compared; a zero bound leaves that side open.
func FilterByDateRange[T entity.Record](records []T, from, to time.Time) []T {
	lower, upper := dayKey(from), dayKey(to)
	return lo.Filter(records, func(r T, _ int) bool {
		day := dayKey(r.StampedAt())
		if day == "" {
			return false
		}
		if lower != "" && day < lower {
			return false
		}
		if upper != "" && day > upper {
			return false
		}
		return true
	})
}

func dayKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(entity.DateLayout)
}

// SplitMultiValue splits on commas and on the standalone word "and".
func SplitMultiValue(s string) []string {
	parts := multiValueSeparator.Split(strings.TrimSpace(s), -1)
	return lo.FilterMap(parts, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
}

// FilterByAnyValue keeps records where field holds at least one of values (case-insensitive).
// An empty values list filters nothing.
func FilterByAnyValue[T entity.Record](records []T, field string, values []string) []T {
	wanted := lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.ToLower(strings.TrimSpace(v))
		return v, v != ""
	})
	if len(wanted) == 0 {
		return records
	}

	return lo.Filter(records, func(r T, _ int) bool {
		return lo.SomeBy(SplitMultiValue(r.Fields()[field]), func(v string) bool {
			return lo.Contains(wanted, strings.ToLower(v))
		})
	})
}

// DailyCounts counts records per day from the first to the last day present, filling gaps with
// zero, and adds the mean over the trailing window. The first window-1 periods have no mean.
func DailyCounts[T entity.Record](records []T, window int) []DailyPoint {
	if len(records) == 0 {
		return []DailyPoint{}
	}
	if window <= 0 {
		window = RollingWindow
	}

	perDay := lo.CountValuesBy(records, func(r T) string { return dayKey(r.StampedAt()) })
	delete(perDay, "")
	if len(perDay) == 0 {
		return []DailyPoint{}
	}

	days := lo.Keys(perDay)
	slices.Sort(days)
	first, _ := time.Parse(entity.DateLayout, days[0])
	last, _ := time.Parse(entity.DateLayout, days[len(days)-1])

	var points []DailyPoint
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(entity.DateLayout)
		points = append(points, DailyPoint{Date: key, Count: perDay[key]})
	}

	sum := 0
	for i := range points {
		sum += points[i].Count
		if i >= window {
			sum -= points[i-window].Count
		}
		if i >= window-1 {
			mean := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(window))).Round(4)
			points[i].RollingMean = decimal.NewNullDecimal(mean)
		}
	}

	return points
}
