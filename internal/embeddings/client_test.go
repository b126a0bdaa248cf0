package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embeddingServer(t *testing.T, vectors map[string][]float32, calls *int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++

		require.Equal(t, "/embeddings", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var resp embeddingResponse
		for i, text := range req.Input {
			vec, ok := vectors[text]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: vec})
		}

		json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedTexts(t *testing.T) {
	calls := 0
	srv := embeddingServer(t, map[string][]float32{
		"alpha": {1, 0},
		"beta":  {0, 1},
	}, &calls)
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	vectors, err := c.EmbedTexts(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1}, vectors[1])
	assert.Equal(t, 1, calls)
}

func TestEmbedTextsEmptyInput(t *testing.T) {
	c := NewClient("test-key")

	vectors, err := c.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedTextsSplitsBatches(t *testing.T) {
	calls := 0
	srv := embeddingServer(t, map[string][]float32{
		"a": {1},
		"b": {2},
		"c": {3},
	}, &calls)
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithBatchSize(2))

	vectors, err := c.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{3}, vectors[2])
	assert.Equal(t, 2, calls)
}

func TestEmbedTextsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := c.EmbedTexts(context.Background(), []string{"alpha"})
	assert.Error(t, err)
}

func TestEmbedTextsMissingEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Respond with fewer entries than inputs
		json.NewEncoder(w).Encode(embeddingResponse{})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := c.EmbedTexts(context.Background(), []string{"alpha"})
	assert.Error(t, err)
}

func TestDimension(t *testing.T) {
	assert.Equal(t, 1536, Dimension(ModelTextEmbedding3Small))
	assert.Equal(t, 3072, Dimension(ModelTextEmbedding3Large))
	assert.Equal(t, 384, Dimension(ModelMiniLML6))
	assert.Equal(t, 1536, Dimension("unknown/model"))
}
