package storage

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresEmbeddingCache implements embeddings.Cache over a pgvector table,
// so embeddings survive process restarts and are shared between instances.
type PostgresEmbeddingCache struct {
	db *sql.DB
}

// NewPostgresEmbeddingCache creates a new PostgresEmbeddingCache
func NewPostgresEmbeddingCache(db *sql.DB) *PostgresEmbeddingCache {
	return &PostgresEmbeddingCache{db: db}
}

// GetMulti retrieves cached embeddings for the given keys
func (c *PostgresEmbeddingCache) GetMulti(ctx context.Context, keys []string) (map[string][]float32, error) {
	if len(keys) == 0 {
		return map[string][]float32{}, nil
	}

	query := `
		SELECT cache_key, embedding
		FROM embedding_cache
		WHERE cache_key = ANY($1)
	`

	rows, err := c.db.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string][]float32)
	for rows.Next() {
		var key string
		var vec pgvector.Vector
		if err := rows.Scan(&key, &vec); err != nil {
			return nil, err
		}
		found[key] = vec.Slice()
	}

	return found, rows.Err()
}

// SetMulti stores embeddings, overwriting existing entries for the same key
func (c *PostgresEmbeddingCache) SetMulti(ctx context.Context, embeddings map[string][]float32) error {
	query := `
		INSERT INTO embedding_cache (cache_key, embedding)
		VALUES ($1, $2)
		ON CONFLICT (cache_key) DO UPDATE SET embedding = EXCLUDED.embedding
	`

	for key, emb := range embeddings {
		if _, err := c.db.ExecContext(ctx, query, key, pgvector.NewVector(emb)); err != nil {
			return err
		}
	}
	return nil
}
