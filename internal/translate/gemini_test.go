package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Hindi")
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMIMEType)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": `{"title":"अनुवादित","content":"सामग्री"}`},
				}}},
			},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "gemini-2.0-flash", "test-key")
	out, err := c.Generate(context.Background(), "Translate into Hindi: hello")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"अनुवादित","content":"सामग्री"}`, out)
}

func TestGeminiGenerateErrors(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		c := NewGeminiClient("", "gemini-2.0-flash", "")
		_, err := c.Generate(context.Background(), "prompt")
		assert.Error(t, err)
	})

	t.Run("http error carries body excerpt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewGeminiClient(srv.URL, "gemini-2.0-flash", "test-key")
		_, err := c.Generate(context.Background(), "prompt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("empty candidates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer srv.Close()

		c := NewGeminiClient(srv.URL, "gemini-2.0-flash", "test-key")
		_, err := c.Generate(context.Background(), "prompt")
		assert.Error(t, err)
	})
}
