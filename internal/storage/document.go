package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Document represents an uploaded document scoped to an analysis session
type Document struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	Filename    string
	Content     string
	ContentHash string
	SizeBytes   int64
	CreatedAt   time.Time
}

// DocumentRepository defines the interface for document storage operations
type DocumentRepository interface {
	Create(ctx context.Context, document *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*Document, error)
	GetByHash(ctx context.Context, sessionID uuid.UUID, hash string) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) error
}

// PostgresDocumentRepository implements DocumentRepository using PostgreSQL
type PostgresDocumentRepository struct {
	db *sql.DB
}

// NewPostgresDocumentRepository creates a new PostgresDocumentRepository
func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// Create inserts a new document into the database
func (r *PostgresDocumentRepository) Create(ctx context.Context, document *Document) error {
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	if document.CreatedAt.IsZero() {
		document.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO documents (id, session_id, filename, content, content_hash, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		document.ID,
		document.SessionID,
		document.Filename,
		document.Content,
		document.ContentHash,
		document.SizeBytes,
		document.CreatedAt,
	)

	return err
}

// GetByID retrieves a document by its ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	query := `
		SELECT id, session_id, filename, content, content_hash, size_bytes, created_at
		FROM documents
		WHERE id = $1
	`

	return scanDocument(r.db.QueryRowContext(ctx, query, id))
}

// GetBySessionID retrieves all documents in a session, ordered by filename
func (r *PostgresDocumentRepository) GetBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*Document, error) {
	query := `
		SELECT id, session_id, filename, content, content_hash, size_bytes, created_at
		FROM documents
		WHERE session_id = $1
		ORDER BY filename ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*Document
	for rows.Next() {
		document := &Document{}
		err := rows.Scan(
			&document.ID,
			&document.SessionID,
			&document.Filename,
			&document.Content,
			&document.ContentHash,
			&document.SizeBytes,
			&document.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return documents, nil
}

// GetByHash retrieves a document by its content hash within a session
func (r *PostgresDocumentRepository) GetByHash(ctx context.Context, sessionID uuid.UUID, hash string) (*Document, error) {
	query := `
		SELECT id, session_id, filename, content, content_hash, size_bytes, created_at
		FROM documents
		WHERE session_id = $1 AND content_hash = $2
	`

	return scanDocument(r.db.QueryRowContext(ctx, query, sessionID, hash))
}

// Delete removes a document from the database
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// DeleteBySessionID removes all documents for a session
func (r *PostgresDocumentRepository) DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM documents WHERE session_id = $1`
	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}

func scanDocument(row *sql.Row) (*Document, error) {
	document := &Document{}
	err := row.Scan(
		&document.ID,
		&document.SessionID,
		&document.Filename,
		&document.Content,
		&document.ContentHash,
		&document.SizeBytes,
		&document.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return document, nil
}
