package converter

import (
	"medguide/internal/delivery/dto"
)

// Feature names as the preprocessor was trained on them, paired with the predictions column.
var predictionFeatures = []struct {
	Feature string
	Column  string
}{
	{"Age", "Age"},
	{"Gender", "Gender"},
	{"Fever", "Fever"},
	{"Cough", "Cough"},
	{"Headache", "Headache"},
	{"Fatigue", "Fatigue"},
	{"Nausea", "Nausea"},
	{"Muscle_Pain", "Muscle_Pain"},
	{"Shortness_of_Breath", "Shortness_of_Breath"},
	{"Loss_of_Taste", "Loss_of_Taste"},
	{"Abdominal_Pain", "Abdominal_Pain"},
	{"Appetite_Loss", "Appetite_Loss"},
	{"Frequent_Urination", "Frequent_Urination"},
	{"Thirst_Level", "Thirst_Level"},
	{"Blurred_Vision", "Blurred_Vision"},
	{"Symptom_Duration_Days", "Symptom_Duration_Days"},
	{"Severity(1-5)", "Severity"},
}

// PredictionRequestToFeatures returns the feature table row under the trained feature names.
func PredictionRequestToFeatures(req *dto.PredictionRequest) []dto.FeatureValue {
	values := predictionValues(req)
	features := make([]dto.FeatureValue, len(predictionFeatures))
	for i, f := range predictionFeatures {
		features[i] = dto.FeatureValue{Name: f.Feature, Value: values[i]}
	}
	return features
}

// PredictionRecordForm merges the submitted inputs with the predicted label, labeled for storage.
func PredictionRecordForm(req *dto.PredictionRequest, label string) map[string]any {
	values := predictionValues(req)
	form := make(map[string]any, len(predictionFeatures)+2)
	for i, f := range predictionFeatures {
		form[f.Column] = values[i]
	}
	if req.Name != nil && *req.Name != "" {
		form["Name"] = *req.Name
	}
	form["Predicted_Disease"] = label
	return form
}

func predictionValues(req *dto.PredictionRequest) []any {
	return []any{
		deref(req.Age),
		req.Gender,
		derefFloat(req.Fever),
		deref(req.Cough),
		deref(req.Headache),
		deref(req.Fatigue),
		deref(req.Nausea),
		deref(req.MusclePain),
		deref(req.ShortnessOfBreath),
		deref(req.LossOfTaste),
		deref(req.AbdominalPain),
		deref(req.AppetiteLoss),
		deref(req.FrequentUrination),
		deref(req.ThirstLevel),
		deref(req.BlurredVision),
		deref(req.SymptomDurationDays),
		deref(req.Severity),
	}
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
