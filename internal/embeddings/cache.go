package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache stores embeddings keyed by CacheKey, letting repeated analyses skip
// the embedding API for fragments already seen.
type Cache interface {
	GetMulti(ctx context.Context, keys []string) (map[string][]float32, error)
	SetMulti(ctx context.Context, embeddings map[string][]float32) error
}

// CacheKey derives a stable cache key from model and text
func CacheKey(model, text string) string {
	h := sha256.Sum256([]byte(model + ":" + text))
	return hex.EncodeToString(h[:])[:16]
}

// MemoryCache is an in-process Cache
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string][]float32
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]float32)}
}

func (c *MemoryCache) GetMulti(ctx context.Context, keys []string) (map[string][]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	found := make(map[string][]float32)
	for _, k := range keys {
		if emb, ok := c.data[k]; ok {
			found[k] = emb
		}
	}
	return found, nil
}

func (c *MemoryCache) SetMulti(ctx context.Context, embeddings map[string][]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, emb := range embeddings {
		c.data[k] = emb
	}
	return nil
}

// CachedClient wraps a Client with a Cache. Cache failures are ignored: a
// broken cache degrades to direct API calls, never to an error.
type CachedClient struct {
	client *Client
	cache  Cache
}

// NewCachedClient creates a caching wrapper around client
func NewCachedClient(client *Client, cache Cache) *CachedClient {
	return &CachedClient{client: client, cache: cache}
}

// EmbedTexts resolves embeddings through the cache, calling the API only for
// misses and storing whatever it fetched.
func (c *CachedClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = CacheKey(c.client.model, text)
	}

	cached, err := c.cache.GetMulti(ctx, keys)
	if err != nil {
		cached = make(map[string][]float32)
	}

	var missingTexts []string
	var missingIdx []int
	for i, key := range keys {
		if _, ok := cached[key]; !ok {
			missingTexts = append(missingTexts, texts[i])
			missingIdx = append(missingIdx, i)
		}
	}

	var fetched [][]float32
	if len(missingTexts) > 0 {
		fetched, err = c.client.EmbedTexts(ctx, missingTexts)
		if err != nil {
			return nil, err
		}

		toCache := make(map[string][]float32, len(missingIdx))
		for i, idx := range missingIdx {
			toCache[keys[idx]] = fetched[i]
		}
		_ = c.cache.SetMulti(ctx, toCache)
	}

	results := make([][]float32, len(texts))
	fetchIdx := 0
	for i, key := range keys {
		if emb, ok := cached[key]; ok {
			results[i] = emb
		} else {
			results[i] = fetched[fetchIdx]
			fetchIdx++
		}
	}

	return results, nil
}

// EmbedText resolves a single embedding through the cache
func (c *CachedClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	results, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Dimension returns the embedding dimension of the underlying client
func (c *CachedClient) Dimension() int {
	return c.client.Dimension()
}
