// Package classifier talks to the model server that hosts the trained preprocessor and classifier.
//
// The server exposes:
//
//	GET  /metadata   -> {"feature_names": [...], "accuracy": 0.93, "version": "..."}
//	POST /transform  {"columns": [...], "rows": [[...]]} -> {"encoded": [[...]]}
//	POST /predict    {"instances": [[...]]}              -> {"labels": [...]}
package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medguide/internal/domain/gateway"
	"medguide/internal/infrastructure/httpjson"
)

type HTTPArtifacts struct {
	baseURL string
	client  *http.Client
	info    gateway.ModelInfo
}

type transformRequest struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

type transformResponse struct {
	Encoded [][]float64 `json:"encoded"`
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Labels []string `json:"labels"`
}

// NewHTTPArtifacts loads the artifact metadata once; a server without declared input columns is refused.
func NewHTTPArtifacts(ctx context.Context, baseURL string, client *http.Client) (*HTTPArtifacts, error) {
	if client == nil {
		client = http.DefaultClient
	}
	a := &HTTPArtifacts{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}

	if err := httpjson.Do(ctx, a.client, http.MethodGet, a.baseURL+"/metadata", nil, nil, &a.info); err != nil {
		return nil, fmt.Errorf("failed to load model metadata: %w", err)
	}
	if len(a.info.FeatureNames) == 0 {
		return nil, errors.New("model server declared no input columns")
	}

	return a, nil
}

func (a *HTTPArtifacts) Info() gateway.ModelInfo {
	return a.info
}

func (a *HTTPArtifacts) Transform(ctx context.Context, columns []string, rows [][]any) ([][]float64, error) {
	var out transformResponse
	err := httpjson.Do(ctx, a.client, http.MethodPost, a.baseURL+"/transform", nil,
		transformRequest{Columns: columns, Rows: rows}, &out)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	if len(out.Encoded) != len(rows) {
		return nil, fmt.Errorf("transform: expected %d encoded rows, got %d", len(rows), len(out.Encoded))
	}
	return out.Encoded, nil
}

func (a *HTTPArtifacts) Predict(ctx context.Context, encoded [][]float64) ([]string, error) {
	var out predictResponse
	err := httpjson.Do(ctx, a.client, http.MethodPost, a.baseURL+"/predict", nil,
		predictRequest{Instances: encoded}, &out)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return out.Labels, nil
}
