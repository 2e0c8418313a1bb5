// Package translator calls a LibreTranslate-compatible translation endpoint.
package translator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medguide/internal/infrastructure/httpjson"
)

type HTTPTranslator struct {
	url    string
	apiKey string
	client *http.Client
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func NewHTTPTranslator(baseURL, apiKey string, client *http.Client) *HTTPTranslator {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTranslator{
		url:    strings.TrimRight(baseURL, "/") + "/translate",
		apiKey: apiKey,
		client: client,
	}
}

// Translate returns text unchanged for English targets.
func (t *HTTPTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	target := strings.ToLower(strings.TrimSpace(targetLang))
	if target == "" || target == "en" || strings.TrimSpace(text) == "" {
		return text, nil
	}

	var out translateResponse
	err := httpjson.Do(ctx, t.client, http.MethodPost, t.url, nil, translateRequest{
		Q:      text,
		Source: "auto",
		Target: target,
		Format: "text",
		APIKey: t.apiKey,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", target, err)
	}
	if out.TranslatedText == "" {
		return "", errors.New("translator returned an empty text")
	}
	return out.TranslatedText, nil
}
