package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const defaultMaxSize = 16 << 20 // 16 MB

var (
	// ErrUnsupportedFormat means the file extension is outside the
	// plain-text family this extractor handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrInvalidEncoding means the file content is not valid UTF-8.
	ErrInvalidEncoding = errors.New("file content is not valid UTF-8")

	// ErrFileTooLarge means the file exceeds the configured size cap.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

// supportedExtensions lists the plain-text formats this extractor reads.
// Binary formats (pdf, docx) are out of scope and yield ErrUnsupportedFormat.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
	".log":  true,
}

// Extractor turns stored document files into plain text for analysis.
type Extractor struct {
	maxSize int64
}

// NewExtractor creates an extractor with the default size cap.
func NewExtractor() *Extractor {
	return &Extractor{maxSize: defaultMaxSize}
}

// Supported reports whether the filename's extension can be extracted.
func (e *Extractor) Supported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ExtractFile reads the file at path and returns its plain text, or an
// ingestion error (unsupported format, oversized file, invalid encoding,
// unreadable file).
func (e *Extractor) ExtractFile(path string) (string, error) {
	if !e.Supported(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}
	if info.Size() > e.maxSize {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return e.ExtractReader(f, path)
}

// ExtractReader reads plain text from r, using filename only to validate
// the format.
func (e *Extractor) ExtractReader(r io.Reader, filename string) (string, error) {
	if !e.Supported(filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	content, err := io.ReadAll(io.LimitReader(r, e.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	if int64(len(content)) > e.maxSize {
		return "", fmt.Errorf("%w: over %d bytes", ErrFileTooLarge, e.maxSize)
	}

	if !utf8.Valid(content) {
		return "", ErrInvalidEncoding
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return text, nil
}
