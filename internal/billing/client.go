package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pricing holds the fixed per-unit rates
type Pricing struct {
	DocumentAnalysis float64
	ReportGeneration float64
}

// DefaultPricing returns the standard rates
func DefaultPricing() Pricing {
	return Pricing{
		DocumentAnalysis: 2.00,
		ReportGeneration: 5.00,
	}
}

// Cost computes the total charge for the given usage counts
func (p Pricing) Cost(documentsAnalyzed, reportsGenerated int) float64 {
	return float64(documentsAnalyzed)*p.DocumentAnalysis + float64(reportsGenerated)*p.ReportGeneration
}

// Event names reported to the billing API
const (
	EventDocumentAnalysis = "document_analysis"
	EventReportGeneration = "report_generation"
)

// Config holds billing client configuration
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://api.cloud.flexprice.io/v1",
		Timeout: 10 * time.Second,
	}
}

// Client reports usage events to the metering API. Tracking is best-effort:
// a billing outage must never fail an analysis, so errors are logged and
// swallowed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pricing    Pricing
	logger     *zap.Logger
}

// NewClient creates a billing client
func NewClient(config Config, pricing Pricing, logger *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		pricing:    pricing,
		logger:     logger,
	}
}

// Pricing returns the client's rate card
func (c *Client) Pricing() Pricing {
	return c.pricing
}

type usageEvent struct {
	CustomerID string                 `json:"customer_id"`
	EventName  string                 `json:"event_name"`
	Timestamp  string                 `json:"timestamp"`
	Properties map[string]interface{} `json:"properties"`
}

// TrackUsage posts a usage event for a session. Failures are logged, never
// returned.
func (c *Client) TrackUsage(ctx context.Context, sessionID, eventName string, quantity int) {
	if c.apiKey == "" {
		return
	}

	event := usageEvent{
		CustomerID: sessionID,
		EventName:  eventName,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Properties: map[string]interface{}{
			"quantity": quantity,
		},
	}

	if err := c.postEvent(ctx, event); err != nil {
		c.logger.Warn("usage tracking failed",
			zap.String("session_id", sessionID),
			zap.String("event", eventName),
			zap.Error(err),
		)
	}
}

func (c *Client) postEvent(ctx context.Context, event usageEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("billing API error: status %d", resp.StatusCode)
	}

	return nil
}
