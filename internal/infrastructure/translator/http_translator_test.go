package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTranslator_Translate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/translate", r.URL.Path)
		var req translateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hi", req.Target)
		assert.Equal(t, "key", req.APIKey)
		_ = json.NewEncoder(w).Encode(translateResponse{TranslatedText: "नमस्ते"})
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, "key", srv.Client())

	got, err := tr.Translate(context.Background(), "Hello", "HI")
	require.NoError(t, err)
	assert.Equal(t, "नमस्ते", got)

	got, err = tr.Translate(context.Background(), "Hello", "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPTranslator_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPTranslator(srv.URL, "", srv.Client()).Translate(context.Background(), "Hello", "fr")
	assert.Error(t, err)
}
