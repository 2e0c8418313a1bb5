package dashboard

import (
	"testing"
	"time"

	"medguide/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(id int64, submitted string, gender, conditions string) entity.Booking {
	b := entity.Booking{
		ID:                id,
		Name:              "patient",
		ChronicConditions: conditions,
		SubmittedOn:       day(submitted).Add(15 * time.Hour),
	}
	if gender != "" {
		b.Gender = &gender
	}
	return b
}

func TestFilterByDateRange(t *testing.T) {
	records := []entity.Booking{
		booking(1, "2025-01-01", "", ""),
		booking(2, "2025-01-05", "", ""),
		booking(3, "2025-01-10", "", ""),
	}

	got := FilterByDateRange(records, day("2025-01-02"), day("2025-01-06"))
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	t.Run("bounds are inclusive on the date", func(t *testing.T) {
		got := FilterByDateRange(records, day("2025-01-05"), day("2025-01-10"))
		assert.Len(t, got, 2)
	})

	t.Run("open bounds", func(t *testing.T) {
		assert.Len(t, FilterByDateRange(records, time.Time{}, day("2025-01-05")), 2)
		assert.Len(t, FilterByDateRange(records, day("2025-01-05"), time.Time{}), 2)
		assert.Len(t, FilterByDateRange(records, time.Time{}, time.Time{}), 3)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterByDateRange([]entity.Booking{}, day("2025-01-01"), day("2025-01-02")))
	})
}

func TestSplitMultiValue(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Asthma, Diabetes", []string{"Asthma", "Diabetes"}},
		{"Asthma and Diabetes", []string{"Asthma", "Diabetes"}},
		{"Asthma,Diabetes AND Hypertension", []string{"Asthma", "Diabetes", "Hypertension"}},
		{"Sandra's band", []string{"Sandra's band"}},
		{"", []string{}},
		{" , ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMultiValue(tt.in))
		})
	}
}

func TestFilterByAnyValue(t *testing.T) {
	records := []entity.Booking{
		booking(1, "2025-01-01", "", "Asthma, Diabetes"),
		booking(2, "2025-01-01", "", "Hypertension and diabetes"),
		booking(3, "2025-01-01", "", "None"),
	}

	got := FilterByAnyValue(records, "chronic_conditions", []string{"diabetes"})
	assert.Equal(t, []int64{1, 2}, []int64{got[0].ID, got[1].ID})

	got = FilterByAnyValue(records, "chronic_conditions", []string{"Asthma", "None"})
	assert.Len(t, got, 2)

	assert.Len(t, FilterByAnyValue(records, "chronic_conditions", nil), 3)
}

func TestCountBy(t *testing.T) {
	records := []entity.Booking{
		booking(1, "2025-01-01", "Female", ""),
		booking(2, "2025-01-01", "Male", ""),
		booking(3, "2025-01-01", "Female", ""),
		booking(4, "2025-01-01", "", ""),
	}

	got := CountBy(records, "gender")
	require.Len(t, got, 3)
	assert.Equal(t, "Female", got[0].Value)
	assert.Equal(t, 2, got[0].Count)
	assert.True(t, decimal.RequireFromString("0.5").Equal(got[0].Share))
	assert.Equal(t, "Male", got[1].Value)
	assert.Equal(t, Unknown, got[2].Value)

	assert.Empty(t, CountBy([]entity.Booking{}, "gender"))
}

func TestCountByMultiValue(t *testing.T) {
	records := []entity.Booking{
		booking(1, "2025-01-01", "", "Asthma, Diabetes"),
		booking(2, "2025-01-01", "", "Diabetes"),
		booking(3, "2025-01-01", "", ""),
	}

	got := CountByMultiValue(records, "chronic_conditions")
	require.Len(t, got, 3)
	assert.Equal(t, "Diabetes", got[0].Value)
	assert.Equal(t, 2, got[0].Count)
	assert.True(t, decimal.RequireFromString("0.6667").Equal(got[0].Share))
	assert.Equal(t, []string{"Asthma", Unknown}, []string{got[1].Value, got[2].Value})
}

func TestDailyCounts(t *testing.T) {
	var records []entity.Booking
	// two on the first day, none on the 2nd, one on each of the 3rd..8th
	records = append(records, booking(1, "2025-01-01", "", ""), booking(2, "2025-01-01", "", ""))
	for i, d := range []string{"2025-01-03", "2025-01-04", "2025-01-05", "2025-01-06", "2025-01-07", "2025-01-08"} {
		records = append(records, booking(int64(i+3), d, "", ""))
	}

	points := DailyCounts(records, RollingWindow)
	require.Len(t, points, 8)
	assert.Equal(t, "2025-01-01", points[0].Date)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, 0, points[1].Count)

	for i := 0; i < 6; i++ {
		assert.False(t, points[i].RollingMean.Valid, "period %d", i)
	}
	// days 1..7: 2+0+1+1+1+1+1 = 7
	require.True(t, points[6].RollingMean.Valid)
	assert.True(t, decimal.NewFromInt(1).Equal(points[6].RollingMean.Decimal))
	// days 2..8: 0+1+1+1+1+1+1 = 6
	assert.True(t, decimal.RequireFromString("0.8571").Equal(points[7].RollingMean.Decimal))

	assert.Empty(t, DailyCounts([]entity.Booking{}, RollingWindow))
}
