package external_services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiAIService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := NewGeminiAIService("key-1", "gemini-test")
	s.baseURL = srv.URL
	return s
}

func TestGenerateContent_ReturnsText(t *testing.T) {
	s := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi "},{"text":"there"}]}}]}`))
	})

	reply, err := s.GenerateContent(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
}

func TestGenerateContent_UpstreamError(t *testing.T) {
	s := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	})

	_, err := s.GenerateContent(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGenerateContent_NoCandidates(t *testing.T) {
	s := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := s.GenerateContent(context.Background(), "hello")
	assert.Error(t, err)
}

func TestGenerateContent_NotConfigured(t *testing.T) {
	s := NewGeminiAIService("", "")
	_, err := s.GenerateContent(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrAINotConfigured)
}
