package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMock_Translate_DifferentLanguages(t *testing.T) {
	translator := NewMock()

	result, err := translator.Translate(context.Background(), "Hello", "en", "ar")

	assert.NoError(t, err)
	assert.Equal(t, "[en->ar] Hello", result)
}

func TestMock_Translate_SameLanguageIsNoop(t *testing.T) {
	translator := NewMock()

	for _, text := range []string{"Hello", "مرحبا", "123", ""} {
		result, err := translator.Translate(context.Background(), text, "en", "en")

		assert.NoError(t, err)
		assert.Equal(t, text, result)
	}
}

func TestMock_Translate_EmptyTextIsNoop(t *testing.T) {
	translator := NewMock()

	result, err := translator.Translate(context.Background(), "", "en", "ar")

	assert.NoError(t, err)
	assert.Equal(t, "", result)
}

func TestMock_Translate_EmptyTargetIsNoop(t *testing.T) {
	translator := NewMock()

	result, err := translator.Translate(context.Background(), "Hello", "en", "")

	assert.NoError(t, err)
	assert.Equal(t, "Hello", result)
}

func TestMock_Translate_AutoSource(t *testing.T) {
	translator := NewMock()

	result, err := translator.Translate(context.Background(), "123", "auto", "ar")

	assert.NoError(t, err)
	assert.Equal(t, "[auto->ar] 123", result)
}

func TestLibreTranslate_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req libreTranslateRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "Hello", req.Q)
		assert.Equal(t, "en", req.Source)
		assert.Equal(t, "ar", req.Target)

		json.NewEncoder(w).Encode(libreTranslateResponse{TranslatedText: "مرحبا"})
	}))
	defer server.Close()

	translator := NewLibreTranslate(server.URL, "", 5*time.Second)

	result, err := translator.Translate(context.Background(), "Hello", "en", "ar")

	assert.NoError(t, err)
	assert.Equal(t, "مرحبا", result)
}

func TestLibreTranslate_Translate_NoopSkipsNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	translator := NewLibreTranslate(server.URL, "", 5*time.Second)

	result, err := translator.Translate(context.Background(), "Hello", "en", "en")

	assert.NoError(t, err)
	assert.Equal(t, "Hello", result)
	assert.False(t, called)
}

func TestLibreTranslate_Translate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	translator := NewLibreTranslate(server.URL, "", 5*time.Second)

	_, err := translator.Translate(context.Background(), "Hello", "en", "ar")

	assert.Error(t, err)
}

// failingTranslator always errors, simulating a provider outage
type failingTranslator struct{}

func (f *failingTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	return "", errors.New("provider unavailable")
}

func TestResilient_Translate_FallsBackToOriginalText(t *testing.T) {
	translator := NewResilient(&failingTranslator{}, 1*time.Second, zap.NewNop())

	result, err := translator.Translate(context.Background(), "Hello", "en", "ar")

	assert.NoError(t, err)
	assert.Equal(t, "Hello", result)
}

func TestResilient_Translate_PassesThroughSuccess(t *testing.T) {
	translator := NewResilient(NewMock(), 1*time.Second, zap.NewNop())

	result, err := translator.Translate(context.Background(), "Hello", "en", "ar")

	assert.NoError(t, err)
	assert.Equal(t, "[en->ar] Hello", result)
}
