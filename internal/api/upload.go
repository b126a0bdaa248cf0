package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/todmy/doc-checker/internal/ingest"
	"github.com/todmy/doc-checker/internal/storage"
)

const maxUploadSize = 16 << 20 // 16 MB

// UploadResponse represents the response after file upload
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Hash       string `json:"hash"`
	Status     string `json:"status"`
}

// handleUpload accepts a multipart document upload for a session. The file
// must be in the plain-text family; unsupported or undecodable files are
// rejected here so analysis only ever sees extractable documents.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	// Reject what ingestion cannot handle up front
	if _, err := s.extractor.ExtractReader(bytes.NewReader(content), header.Filename); err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnsupportedFormat):
			respondError(w, http.StatusBadRequest, "only plain-text documents (.txt, .md, .csv, .json, .log) are supported")
		case errors.Is(err, ingest.ErrInvalidEncoding):
			respondError(w, http.StatusBadRequest, "file content must be valid UTF-8")
		case errors.Is(err, ingest.ErrFileTooLarge):
			respondError(w, http.StatusBadRequest, "file too large")
		default:
			respondError(w, http.StatusInternalServerError, "failed to process file")
		}
		return
	}

	hash := sha256.Sum256(content)
	hashStr := hex.EncodeToString(hash[:])

	existing, err := s.documentRepo.GetByHash(r.Context(), sessionID, hashStr)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to check existing documents")
		return
	}
	if existing != nil {
		respondJSON(w, http.StatusOK, UploadResponse{
			DocumentID: existing.ID.String(),
			Filename:   existing.Filename,
			Hash:       hashStr,
			Status:     "exists",
		})
		return
	}

	doc := &storage.Document{
		SessionID:   sessionID,
		Filename:    header.Filename,
		Content:     string(content),
		ContentHash: hashStr,
		SizeBytes:   int64(len(content)),
	}

	if err := s.documentRepo.Create(r.Context(), doc); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save document")
		return
	}

	respondJSON(w, http.StatusCreated, UploadResponse{
		DocumentID: doc.ID.String(),
		Filename:   doc.Filename,
		Hash:       hashStr,
		Status:     "created",
	})
}

// handleListDocuments lists all documents in a session
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	docs, err := s.documentRepo.GetBySessionID(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch documents")
		return
	}

	type DocumentResponse struct {
		ID        string `json:"id"`
		Filename  string `json:"filename"`
		Hash      string `json:"hash"`
		SizeBytes int64  `json:"size_bytes"`
	}

	response := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, DocumentResponse{
			ID:        doc.ID.String(),
			Filename:  doc.Filename,
			Hash:      doc.ContentHash,
			SizeBytes: doc.SizeBytes,
		})
	}

	respondJSON(w, http.StatusOK, response)
}

// handleDeleteDocument removes a document from a session
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	if err := s.documentRepo.Delete(r.Context(), documentID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
