// Package schema declares the fixed column sets of the two record kinds.
package schema

import (
	"strings"
)

type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Real
	Date
	Timestamp
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	default:
		return "text"
	}
}

type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Kind names a record kind; it doubles as the table name.
type Kind string

const (
	KindBookings    Kind = "bookings"
	KindPredictions Kind = "predictions"
)

// IdentityColumn is assigned by the backend and never accepted from callers.
const IdentityColumn = "id"

type Table struct {
	Kind Kind
	// Columns excludes the identity column.
	Columns []Column
	// StampColumn is filled with the backend clock when a record omits it.
	StampColumn string
}

func (t Table) Name() string {
	return string(t.Kind)
}

func (t Table) Column(name string) (Column, bool) {
	name = strings.ToLower(name)
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the identity column followed by every data column, in table order.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns)+1)
	names = append(names, IdentityColumn)
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

var Bookings = Table{
	Kind: KindBookings,
	Columns: []Column{
		{Name: "name", Type: Text},
		{Name: "email", Type: Text},
		{Name: "gender", Type: Text, Nullable: true},
		{Name: "phone", Type: Text, Nullable: true},
		{Name: "preferred_date", Type: Date},
		{Name: "preferred_time", Type: Text},
		{Name: "problem", Type: Text},
		{Name: "start_date", Type: Text},
		{Name: "current_condition_after_start", Type: Text},
		{Name: "severity", Type: Integer},
		{Name: "occured_before", Type: Text},
		{Name: "medication_taken", Type: Text},
		{Name: "fever", Type: Text},
		{Name: "pain", Type: Text},
		{Name: "cough_cold_breath_shortness", Type: Text},
		{Name: "change_in_appetite_weight", Type: Text},
		{Name: "chronic_conditions", Type: Text},
		{Name: "current_medication", Type: Text},
		{Name: "allergies", Type: Text},
		{Name: "past_hospitalization_surgery", Type: Text},
		{Name: "smoke_or_alcohol", Type: Text},
		{Name: "sleep_hours", Type: Integer},
		{Name: "exercise_frequency", Type: Text},
		{Name: "stress_fatigue", Type: Text},
		{Name: "women_status", Type: Text},
		{Name: "other_notes", Type: Text},
		{Name: "submitted_on", Type: Timestamp},
	},
	StampColumn: "submitted_on",
}

var Predictions = Table{
	Kind: KindPredictions,
	Columns: []Column{
		{Name: "name", Type: Text, Nullable: true},
		{Name: "age", Type: Integer},
		{Name: "gender", Type: Text},
		{Name: "fever", Type: Real},
		{Name: "cough", Type: Integer},
		{Name: "headache", Type: Integer},
		{Name: "fatigue", Type: Integer},
		{Name: "nausea", Type: Integer},
		{Name: "muscle_pain", Type: Integer},
		{Name: "shortness_of_breath", Type: Integer},
		{Name: "loss_of_taste", Type: Integer},
		{Name: "abdominal_pain", Type: Integer},
		{Name: "appetite_loss", Type: Integer},
		{Name: "frequent_urination", Type: Integer},
		{Name: "thirst_level", Type: Integer},
		{Name: "blurred_vision", Type: Integer},
		{Name: "symptom_duration_days", Type: Integer},
		{Name: "severity", Type: Integer},
		{Name: "predicted_disease", Type: Text},
		{Name: "predicted_on", Type: Timestamp},
	},
	StampColumn: "predicted_on",
}

// Lookup resolves a kind name (as found in URLs) to its table.
func Lookup(kind string) (Table, bool) {
	switch Kind(strings.ToLower(kind)) {
	case KindBookings:
		return Bookings, true
	case KindPredictions:
		return Predictions, true
	}
	return Table{}, false
}
