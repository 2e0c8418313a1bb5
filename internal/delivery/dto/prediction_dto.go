package dto

import (
	"medguide/internal/domain/entity"
)

// Request DTOs

// PredictionRequest is the symptom questionnaire fed to the disease classifier.
// Binary symptoms take 0 or 1, graded symptoms 0 to 5.
type PredictionRequest struct {
	Name                *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Age                 *int     `json:"age" validate:"required,gte=0,lte=120"`
	Gender              string   `json:"gender" validate:"required,oneof=Male Female"`
	Fever               *float64 `json:"fever" validate:"required,gte=35,lte=42"`
	Cough               *int     `json:"cough" validate:"required,gte=0,lte=1"`
	Headache            *int     `json:"headache" validate:"required,gte=0,lte=1"`
	Fatigue             *int     `json:"fatigue" validate:"required,gte=0,lte=5"`
	Nausea              *int     `json:"nausea" validate:"required,gte=0,lte=5"`
	MusclePain          *int     `json:"muscle_pain" validate:"required,gte=0,lte=5"`
	ShortnessOfBreath   *int     `json:"shortness_of_breath" validate:"required,gte=0,lte=5"`
	LossOfTaste         *int     `json:"loss_of_taste" validate:"required,gte=0,lte=1"`
	AbdominalPain       *int     `json:"abdominal_pain" validate:"required,gte=0,lte=5"`
	AppetiteLoss        *int     `json:"appetite_loss" validate:"required,gte=0,lte=5"`
	FrequentUrination   *int     `json:"frequent_urination" validate:"required,gte=0,lte=5"`
	ThirstLevel         *int     `json:"thirst_level" validate:"required,gte=0,lte=5"`
	BlurredVision       *int     `json:"blurred_vision" validate:"required,gte=0,lte=1"`
	SymptomDurationDays *int     `json:"symptom_duration_days" validate:"required,gte=0,lte=90"`
	Severity            *int     `json:"severity" validate:"required,gte=1,lte=5"`
}

// Response DTOs

// FeatureValue is one column of the feature table, in the order the classifier was trained on.
type FeatureValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type PredictionResult struct {
	PredictedDisease string         `json:"predicted_disease"`
	Features         []FeatureValue `json:"features"`
	RecordID         *int64         `json:"record_id,omitempty"`
	Warning          string         `json:"warning,omitempty"`
}

type ModelInfoResponse struct {
	FeatureNames []string `json:"feature_names"`
	Accuracy     float64  `json:"accuracy"`
	Version      string   `json:"version,omitempty"`
}

type PredictionListResponse struct {
	Predictions []entity.Prediction `json:"predictions"`
	Total       int                 `json:"total"`
}
