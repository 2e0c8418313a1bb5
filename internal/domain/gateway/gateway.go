// Package gateway declares the external collaborators the pipelines depend on.
package gateway

import (
	"context"
	"time"

	"medguide/internal/domain/entity"
	"medguide/internal/normalizer"
)

// BookingNotice is what staff are told about a freshly persisted booking.
type BookingNotice struct {
	ID          int64
	Record      normalizer.Record
	SubmittedAt time.Time
}

type Notifier interface {
	NotifyBooking(ctx context.Context, notice BookingNotice) error
}

// ModelInfo describes the trained artifacts served by the model server.
type ModelInfo struct {
	FeatureNames []string `json:"feature_names"`
	Accuracy     float64  `json:"accuracy"`
	Version      string   `json:"version,omitempty"`
}

// Preprocessor encodes a named-column table into the fixed-width numeric form the classifier expects.
type Preprocessor interface {
	Info() ModelInfo
	Transform(ctx context.Context, columns []string, rows [][]any) ([][]float64, error)
}

// Classifier returns one label per encoded row.
type Classifier interface {
	Predict(ctx context.Context, encoded [][]float64) ([]string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

type ChatModel interface {
	Complete(ctx context.Context, messages []entity.ChatMessage) (string, error)
}

// ArchiveStore keeps exported files; Put returns the stored object's location.
type ArchiveStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
