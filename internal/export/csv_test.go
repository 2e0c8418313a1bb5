package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"medguide/internal/domain/entity"
	"medguide/internal/domain/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_QuotesDelimiters(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"id", "chronic_conditions", "other_notes"}, []map[string]string{
		{"id": "2", "chronic_conditions": "Asthma, Diabetes", "other_notes": `said "call me"`},
		{"id": "1"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"id,chronic_conditions,other_notes\n"+
			"2,\"Asthma, Diabetes\",\"said \"\"call me\"\"\"\n"+
			"1,,\n",
		buf.String())
}

func TestRecords_UsesTableColumnOrder(t *testing.T) {
	name := "Ada"
	preds := []entity.Prediction{
		{ID: 7, Name: &name, Age: 30, Gender: "Female", Fever: 38.5, PredictedDisease: "Flu",
			PredictedOn: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)},
		{ID: 3, Age: 51, Gender: "Male", Fever: 37, PredictedDisease: "Common Cold"},
	}

	out, err := Bytes(schema.Predictions, preds)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, schema.Predictions.ColumnNames(), rows[0])
	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "Ada", rows[1][1])
	assert.Equal(t, "2025-01-05 10:00:00", rows[1][len(rows[1])-1])
	assert.Equal(t, "", rows[2][1])
}

func TestRecords_Empty(t *testing.T) {
	out, err := Bytes[entity.Booking](schema.Bookings, nil)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(schema.Bookings.ColumnNames(), ",")+"\n", string(out))
}
