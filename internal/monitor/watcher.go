package monitor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Change describes a detected update to a watched URL
type Change struct {
	URL            string    `json:"url"`
	DetectedAt     time.Time `json:"change_detected_at"`
	ContentPreview string    `json:"content_preview"`
}

// TargetStatus reports the state of one watched URL
type TargetStatus struct {
	URL       string     `json:"url"`
	LastCheck *time.Time `json:"last_check,omitempty"`
}

// Config holds watcher configuration
type Config struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	PreviewLength  int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Interval:       time.Minute,
		RequestTimeout: 10 * time.Second,
		PreviewLength:  500,
	}
}

type target struct {
	url       string
	lastHash  string
	lastCheck time.Time
}

// Watcher polls external document URLs and invokes a callback when their
// content changes, so dependent analyses can be re-run.
type Watcher struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
	onChange   func(context.Context, Change)

	mu      sync.Mutex
	targets map[string]*target
}

// NewWatcher creates a watcher. onChange may be nil if callers only want
// Status polling.
func NewWatcher(config Config, logger *zap.Logger, onChange func(context.Context, Change)) *Watcher {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if config.PreviewLength <= 0 {
		config.PreviewLength = DefaultConfig().PreviewLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		logger:     logger,
		onChange:   onChange,
		targets:    make(map[string]*target),
	}
}

// Add registers a URL to watch. Adding an already-watched URL is a no-op.
func (w *Watcher) Add(url string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.targets[url]; !ok {
		w.targets[url] = &target{url: url}
	}
}

// Status returns the state of all watched URLs
func (w *Watcher) Status() []TargetStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	statuses := make([]TargetStatus, 0, len(w.targets))
	for _, t := range w.targets {
		s := TargetStatus{URL: t.url}
		if !t.lastCheck.IsZero() {
			checked := t.lastCheck
			s.LastCheck = &checked
		}
		statuses = append(statuses, s)
	}
	return statuses
}

// Run polls all watched URLs until ctx is cancelled. It blocks; callers
// start it in a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkAll(ctx)
		}
	}
}

func (w *Watcher) checkAll(ctx context.Context) {
	w.mu.Lock()
	urls := make([]string, 0, len(w.targets))
	for url := range w.targets {
		urls = append(urls, url)
	}
	w.mu.Unlock()

	for _, url := range urls {
		w.checkOne(ctx, url)
	}
}

func (w *Watcher) checkOne(ctx context.Context, url string) {
	body, err := w.fetch(ctx, url)
	if err != nil {
		w.logger.Warn("monitor fetch failed", zap.String("url", url), zap.Error(err))
		return
	}

	sum := sha256.Sum256(body)
	hash := hex.EncodeToString(sum[:])

	w.mu.Lock()
	t, ok := w.targets[url]
	if !ok {
		w.mu.Unlock()
		return
	}
	previousHash := t.lastHash
	t.lastHash = hash
	t.lastCheck = time.Now()
	w.mu.Unlock()

	if previousHash == "" || previousHash == hash {
		return
	}

	w.logger.Info("external document updated", zap.String("url", url))

	if w.onChange != nil {
		preview := string(body)
		if len(preview) > w.config.PreviewLength {
			preview = preview[:w.config.PreviewLength]
		}
		w.onChange(ctx, Change{
			URL:            url,
			DetectedAt:     time.Now().UTC(),
			ContentPreview: preview,
		})
	}
}

func (w *Watcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
