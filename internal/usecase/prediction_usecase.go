package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medguide/internal/converter"
	"medguide/internal/delivery/dto"
	"medguide/internal/domain/errs"
	"medguide/internal/domain/gateway"
	"medguide/internal/domain/repository"
	"medguide/internal/infrastructure/monitoring"
	"medguide/internal/normalizer"
	"medguide/pkg/validator"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const predictionNotSavedWarning = "Prediction made, but it could not be saved"

type PredictionUsecase interface {
	Predict(ctx context.Context, req *dto.PredictionRequest) (*dto.PredictionResult, error)
	ModelInfo(ctx context.Context) (*dto.ModelInfoResponse, error)
}

type predictionUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	validator      *validator.CustomValidator
	predictionRepo repository.PredictionRepository
	preprocessor   gateway.Preprocessor
	classifier     gateway.Classifier
	metrics        *monitoring.Metrics
	timeout        time.Duration
}

// NewPredictionUsecase accepts nil collaborators; predictions then fail with ErrClassifierUnavailable.
func NewPredictionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	predictionRepo repository.PredictionRepository,
	preprocessor gateway.Preprocessor,
	classifier gateway.Classifier,
	metrics *monitoring.Metrics,
	timeout time.Duration,
) PredictionUsecase {
	return &predictionUsecase{
		db:             db,
		log:            log,
		validator:      validator,
		predictionRepo: predictionRepo,
		preprocessor:   preprocessor,
		classifier:     classifier,
		metrics:        metrics,
		timeout:        timeout,
	}
}

func (u *predictionUsecase) Predict(ctx context.Context, req *dto.PredictionRequest) (*dto.PredictionResult, error) {
	if req == nil {
		return nil, errs.NewValidationError(map[string]string{"body": "prediction form is empty"})
	}

	validator.TrimStrings(req)
	if err := u.validator.Validate(req); err != nil {
		u.metrics.ObservePrediction("rejected")
		fields := u.validator.FormatValidationErrors(err)
		if len(fields) == 0 {
			fields = map[string]string{"body": err.Error()}
		}
		return nil, errs.NewValidationError(fields)
	}

	features := converter.PredictionRequestToFeatures(req)
	label, aligned, err := u.classify(ctx, features)
	if err != nil {
		u.log.Warnf("Failed to predict disease: %+v", err)
		u.metrics.ObservePrediction("failed")
		return nil, err
	}

	result := &dto.PredictionResult{
		PredictedDisease: label,
		Features:         aligned,
	}

	id, err := u.persist(ctx, req, label)
	if err != nil {
		u.log.Errorf("Failed to persist prediction: %+v", err)
		monitoring.CaptureError(err, map[string]interface{}{"predicted_disease": label})
		result.Warning = predictionNotSavedWarning
	} else {
		result.RecordID = &id
	}

	u.metrics.ObservePrediction("succeeded")
	u.log.WithFields(logrus.Fields{"prediction_id": id, "predicted_disease": label}).Debug("prediction complete")

	return result, nil
}

func (u *predictionUsecase) ModelInfo(ctx context.Context) (*dto.ModelInfoResponse, error) {
	if u.preprocessor == nil {
		return nil, errs.Prediction("model info", ErrClassifierUnavailable)
	}
	info := u.preprocessor.Info()
	return &dto.ModelInfoResponse{
		FeatureNames: info.FeatureNames,
		Accuracy:     info.Accuracy,
		Version:      info.Version,
	}, nil
}

// classify runs the feature row through the preprocessor and the classifier.
func (u *predictionUsecase) classify(ctx context.Context, features []dto.FeatureValue) (string, []dto.FeatureValue, error) {
	if u.preprocessor == nil || u.classifier == nil {
		return "", nil, errs.Prediction("classify", ErrClassifierUnavailable)
	}

	aligned, err := alignFeatures(u.preprocessor.Info().FeatureNames, features)
	if err != nil {
		return "", nil, errs.Prediction("align features", err)
	}

	columns := lo.Map(aligned, func(f dto.FeatureValue, _ int) string { return f.Name })
	row := lo.Map(aligned, func(f dto.FeatureValue, _ int) any { return f.Value })

	transformCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	encoded, err := u.preprocessor.Transform(transformCtx, columns, [][]any{row})
	if err != nil {
		return "", nil, errs.Prediction("transform features", err)
	}

	predictCtx, cancelPredict := context.WithTimeout(ctx, u.timeout)
	defer cancelPredict()
	labels, err := u.classifier.Predict(predictCtx, encoded)
	if err != nil {
		return "", nil, errs.Prediction("predict", err)
	}
	if len(labels) != 1 {
		return "", nil, errs.Prediction("predict", fmt.Errorf("classifier returned %d labels for 1 row", len(labels)))
	}

	label := strings.TrimSpace(labels[0])
	if label == "" {
		return "", nil, errs.Prediction("predict", errors.New("classifier returned an empty label"))
	}

	return label, aligned, nil
}

// alignFeatures orders features as the preprocessor expects them and drops columns it does not know.
// Every expected column must be present.
func alignFeatures(expected []string, features []dto.FeatureValue) ([]dto.FeatureValue, error) {
	if len(expected) == 0 {
		return nil, fmt.Errorf("preprocessor declares no input columns")
	}

	byName := lo.SliceToMap(features, func(f dto.FeatureValue) (string, dto.FeatureValue) {
		return f.Name, f
	})

	missing := lo.Filter(expected, func(name string, _ int) bool {
		_, ok := byName[name]
		return !ok
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing input columns: %s", strings.Join(missing, ", "))
	}

	return lo.Map(expected, func(name string, _ int) dto.FeatureValue { return byName[name] }), nil
}

func (u *predictionUsecase) persist(ctx context.Context, req *dto.PredictionRequest, label string) (int64, error) {
	record, err := normalizer.Normalize(converter.PredictionRecordForm(req, label))
	if err != nil {
		return 0, errs.Persistence("normalize prediction", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	return u.predictionRepo.Insert(u.db.WithContext(callCtx), record)
}
