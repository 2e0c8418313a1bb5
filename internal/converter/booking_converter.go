package converter

import (
	"medguide/internal/delivery/dto"
)

// BookingRequestToForm lays the request out the way the booking form submits it: field label to a
// single-element answer list. Labels normalize to the bookings column names.
func BookingRequestToForm(req *dto.BookingRequest) map[string]any {
	form := map[string]any{
		"Name":                          []any{req.Name},
		"Email":                         []any{req.Email},
		"Preferred Date":                []any{req.PreferredDate},
		"Preferred Time":                []any{req.PreferredTime},
		"Problem":                       []any{req.Problem},
		"Start_date":                    []any{req.StartDate},
		"Current_condition_after_start": []any{req.CurrentConditionAfterStart},
		"Severity":                      []any{req.Severity},
		"Occured_Before":                []any{req.OccuredBefore},
		"Medication_taken":              []any{req.MedicationTaken},
		"Fever":                         []any{req.Fever},
		"Pain":                          []any{req.Pain},
		"Cough/Cold/Breath_Shortness":   []any{req.CoughColdBreathShortness},
		"Change_in_appetite/weight":     []any{req.ChangeInAppetiteWeight},
		"Chronic_Conditions":            []any{req.ChronicConditions},
		"Current_Medication":            []any{req.CurrentMedication},
		"Allergies":                     []any{req.Allergies},
		"Past_Hospitalization/Surgery":  []any{req.PastHospitalizationSurgery},
		"Smoke_or_Alcohol":              []any{req.SmokeOrAlcohol},
		"Exercise_Frequency":            []any{req.ExerciseFrequency},
		"Stress/Fatigue":                []any{req.StressFatigue},
		"Women_Status":                  []any{req.WomenStatus},
		"Other_Notes":                   []any{req.OtherNotes},
	}
	if req.SleepHours != nil {
		form["Sleep_Hours"] = []any{*req.SleepHours}
	}
	if req.Gender != nil && *req.Gender != "" {
		form["Gender"] = []any{*req.Gender}
	}
	if req.Phone != nil && *req.Phone != "" {
		form["Phone"] = []any{*req.Phone}
	}
	return form
}
