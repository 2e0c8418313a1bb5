package entity

import (
	"strconv"
	"time"
)

// IntakeState is a step of the booking intake pipeline.
type IntakeState string

const (
	IntakeStateCollecting  IntakeState = "collecting"
	IntakeStateValidating  IntakeState = "validating"
	IntakeStateNormalizing IntakeState = "normalizing"
	IntakeStatePersisting  IntakeState = "persisting"
	IntakeStateNotifying   IntakeState = "notifying"
	IntakeStateBooked      IntakeState = "booked"
	IntakeStateRejected    IntakeState = "rejected"
	IntakeStateFailed      IntakeState = "failed"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Booking represents one patient intake submission with its health questionnaire
type Booking struct {
	ID                         int64     `gorm:"column:id;primaryKey" json:"id"`
	Name                       string    `gorm:"column:name" json:"name"`
	Email                      string    `gorm:"column:email" json:"email"`
	Gender                     *string   `gorm:"column:gender" json:"gender,omitempty"`
	Phone                      *string   `gorm:"column:phone" json:"phone,omitempty"`
	PreferredDate              time.Time `gorm:"column:preferred_date" json:"preferred_date"`
	PreferredTime              string    `gorm:"column:preferred_time" json:"preferred_time"`
	Problem                    string    `gorm:"column:problem" json:"problem"`
	StartDate                  string    `gorm:"column:start_date" json:"start_date"`
	CurrentConditionAfterStart string    `gorm:"column:current_condition_after_start" json:"current_condition_after_start"`
	Severity                   int       `gorm:"column:severity" json:"severity"`
	OccuredBefore              string    `gorm:"column:occured_before" json:"occured_before"`
	MedicationTaken            string    `gorm:"column:medication_taken" json:"medication_taken"`
	Fever                      string    `gorm:"column:fever" json:"fever"`
	Pain                       string    `gorm:"column:pain" json:"pain"`
	CoughColdBreathShortness   string    `gorm:"column:cough_cold_breath_shortness" json:"cough_cold_breath_shortness"`
	ChangeInAppetiteWeight     string    `gorm:"column:change_in_appetite_weight" json:"change_in_appetite_weight"`
	ChronicConditions          string    `gorm:"column:chronic_conditions" json:"chronic_conditions"`
	CurrentMedication          string    `gorm:"column:current_medication" json:"current_medication"`
	Allergies                  string    `gorm:"column:allergies" json:"allergies"`
	PastHospitalizationSurgery string    `gorm:"column:past_hospitalization_surgery" json:"past_hospitalization_surgery"`
	SmokeOrAlcohol             string    `gorm:"column:smoke_or_alcohol" json:"smoke_or_alcohol"`
	SleepHours                 int       `gorm:"column:sleep_hours" json:"sleep_hours"`
	ExerciseFrequency          string    `gorm:"column:exercise_frequency" json:"exercise_frequency"`
	StressFatigue              string    `gorm:"column:stress_fatigue" json:"stress_fatigue"`
	WomenStatus                string    `gorm:"column:women_status" json:"women_status"`
	OtherNotes                 string    `gorm:"column:other_notes" json:"other_notes"`
	SubmittedOn                time.Time `gorm:"column:submitted_on" json:"submitted_on"`
}

func (Booking) TableName() string {
	return "bookings"
}

// RecordID implements Record
func (b Booking) RecordID() int64 {
	return b.ID
}

// StampedAt implements Record
func (b Booking) StampedAt() time.Time {
	return b.SubmittedOn
}

// Fields implements Record, keyed by column name
func (b Booking) Fields() map[string]string {
	return map[string]string{
		"id":                            strconv.FormatInt(b.ID, 10),
		"name":                          b.Name,
		"email":                         b.Email,
		"gender":                        deref(b.Gender),
		"phone":                         deref(b.Phone),
		"preferred_date":                formatDate(b.PreferredDate),
		"preferred_time":                b.PreferredTime,
		"problem":                       b.Problem,
		"start_date":                    b.StartDate,
		"current_condition_after_start": b.CurrentConditionAfterStart,
		"severity":                      strconv.Itoa(b.Severity),
		"occured_before":                b.OccuredBefore,
		"medication_taken":              b.MedicationTaken,
		"fever":                         b.Fever,
		"pain":                          b.Pain,
		"cough_cold_breath_shortness":   b.CoughColdBreathShortness,
		"change_in_appetite_weight":     b.ChangeInAppetiteWeight,
		"chronic_conditions":            b.ChronicConditions,
		"current_medication":            b.CurrentMedication,
		"allergies":                     b.Allergies,
		"past_hospitalization_surgery":  b.PastHospitalizationSurgery,
		"smoke_or_alcohol":              b.SmokeOrAlcohol,
		"sleep_hours":                   strconv.Itoa(b.SleepHours),
		"exercise_frequency":            b.ExerciseFrequency,
		"stress_fatigue":                b.StressFatigue,
		"women_status":                  b.WomenStatus,
		"other_notes":                   b.OtherNotes,
		"submitted_on":                  formatTimestamp(b.SubmittedOn),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
