package entity

import (
	"strconv"
	"time"
)

// Prediction is one classifier invocation: the submitted features and the predicted label.
type Prediction struct {
	ID                  int64     `gorm:"column:id;primaryKey" json:"id"`
	Name                *string   `gorm:"column:name" json:"name,omitempty"`
	Age                 int       `gorm:"column:age" json:"age"`
	Gender              string    `gorm:"column:gender" json:"gender"`
	Fever               float64   `gorm:"column:fever" json:"fever"`
	Cough               int       `gorm:"column:cough" json:"cough"`
	Headache            int       `gorm:"column:headache" json:"headache"`
	Fatigue             int       `gorm:"column:fatigue" json:"fatigue"`
	Nausea              int       `gorm:"column:nausea" json:"nausea"`
	MusclePain          int       `gorm:"column:muscle_pain" json:"muscle_pain"`
	ShortnessOfBreath   int       `gorm:"column:shortness_of_breath" json:"shortness_of_breath"`
	LossOfTaste         int       `gorm:"column:loss_of_taste" json:"loss_of_taste"`
	AbdominalPain       int       `gorm:"column:abdominal_pain" json:"abdominal_pain"`
	AppetiteLoss        int       `gorm:"column:appetite_loss" json:"appetite_loss"`
	FrequentUrination   int       `gorm:"column:frequent_urination" json:"frequent_urination"`
	ThirstLevel         int       `gorm:"column:thirst_level" json:"thirst_level"`
	BlurredVision       int       `gorm:"column:blurred_vision" json:"blurred_vision"`
	SymptomDurationDays int       `gorm:"column:symptom_duration_days" json:"symptom_duration_days"`
	Severity            int       `gorm:"column:severity" json:"severity"`
	PredictedDisease    string    `gorm:"column:predicted_disease" json:"predicted_disease"`
	PredictedOn         time.Time `gorm:"column:predicted_on" json:"predicted_on"`
}

func (Prediction) TableName() string {
	return "predictions"
}

func (p Prediction) RecordID() int64 {
	return p.ID
}

func (p Prediction) StampedAt() time.Time {
	return p.PredictedOn
}

func (p Prediction) Fields() map[string]string {
	itoa := strconv.Itoa
	return map[string]string{
		"id":                    strconv.FormatInt(p.ID, 10),
		"name":                  deref(p.Name),
		"age":                   itoa(p.Age),
		"gender":                p.Gender,
		"fever":                 strconv.FormatFloat(p.Fever, 'f', -1, 64),
		"cough":                 itoa(p.Cough),
		"headache":              itoa(p.Headache),
		"fatigue":               itoa(p.Fatigue),
		"nausea":                itoa(p.Nausea),
		"muscle_pain":           itoa(p.MusclePain),
		"shortness_of_breath":   itoa(p.ShortnessOfBreath),
		"loss_of_taste":         itoa(p.LossOfTaste),
		"abdominal_pain":        itoa(p.AbdominalPain),
		"appetite_loss":         itoa(p.AppetiteLoss),
		"frequent_urination":    itoa(p.FrequentUrination),
		"thirst_level":          itoa(p.ThirstLevel),
		"blurred_vision":        itoa(p.BlurredVision),
		"symptom_duration_days": itoa(p.SymptomDurationDays),
		"severity":              itoa(p.Severity),
		"predicted_disease":     p.PredictedDisease,
		"predicted_on":          formatTimestamp(p.PredictedOn),
	}
}
