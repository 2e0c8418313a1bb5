package dto

import (
	"medguide/internal/domain/entity"
)

// Request DTOs

// BookingRequest is the consultation booking form with its 20-question health questionnaire.
type BookingRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Email         string  `json:"email" validate:"required,email"`
	Gender        *string `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	PreferredDate string  `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime string  `json:"preferred_time" validate:"required,max=20"`

	Problem                    string `json:"problem" validate:"required"`
	StartDate                  string `json:"start_date" validate:"required"`
	CurrentConditionAfterStart string `json:"current_condition_after_start" validate:"required,oneof=Better Worse Same"`
	Severity                   int    `json:"severity" validate:"required,gte=1,lte=10"`
	OccuredBefore              string `json:"occured_before" validate:"required,oneof=Yes No"`
	MedicationTaken            string `json:"medication_taken" validate:"required"`
	Fever                      string `json:"fever" validate:"required,oneof=Yes No"`
	Pain                       string `json:"pain" validate:"required"`
	CoughColdBreathShortness   string `json:"cough_cold_breath_shortness" validate:"required,oneof=Yes No"`
	ChangeInAppetiteWeight     string `json:"change_in_appetite_weight" validate:"required,oneof=Yes No"`
	ChronicConditions          string `json:"chronic_conditions" validate:"required"`
	CurrentMedication          string `json:"current_medication" validate:"required"`
	Allergies                  string `json:"allergies" validate:"required"`
	PastHospitalizationSurgery string `json:"past_hospitalization_surgery" validate:"required"`
	SmokeOrAlcohol             string `json:"smoke_or_alcohol" validate:"required,oneof=Yes No"`
	SleepHours                 *int   `json:"sleep_hours" validate:"required,gte=0,lte=12"`
	ExerciseFrequency          string `json:"exercise_frequency" validate:"required,oneof=Daily 'A few times a week' Rarely Never"`
	StressFatigue              string `json:"stress_fatigue" validate:"required,oneof=Yes No"`
	WomenStatus                string `json:"women_status" validate:"required,oneof=Pregnant Breastfeeding 'Expecting period' 'None of the above'"`
	OtherNotes                 string `json:"other_notes" validate:"required"`
}

// Response DTOs

type BookingConfirmation struct {
	ID        int64              `json:"id"`
	State     entity.IntakeState `json:"state"`
	Record    map[string]string  `json:"record"`
	Notified  bool               `json:"notified"`
	Warning   string             `json:"warning,omitempty"`
	// NotificationError is set when the booking was stored but staff could not be notified.
	NotificationError error `json:"-"`
}

type BookingListResponse struct {
	Bookings []entity.Booking `json:"bookings"`
	Total    int              `json:"total"`
}
