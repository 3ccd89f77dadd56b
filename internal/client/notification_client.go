package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"study-group-api/internal/metrics"
)

// NotificationEvent is the payload delivered to the notification service
type NotificationEvent struct {
	Type        string                 `json:"type"`
	StudyID     uuid.UUID              `json:"studyId"`
	RecipientID uuid.UUID              `json:"recipientId"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt  string                 `json:"occurredAt,omitempty"`
}

// NotificationClient defines the interface for notification service communication
type NotificationClient interface {
	// Send delivers a single notification event
	Send(ctx context.Context, event NotificationEvent) error
}

// notificationClient implements NotificationClient over HTTP
type notificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewNotificationClient creates a new notification API client
func NewNotificationClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	return &notificationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// Send posts the event to the notification service. Delivery is
// fire-and-forget: transport failures and non-2xx responses are logged
// and swallowed so they never fail the calling operation.
func (c *notificationClient) Send(ctx context.Context, event NotificationEvent) error {
	url := fmt.Sprintf("%s/api/internal/notifications", c.baseURL)

	if event.OccurredAt == "" {
		event.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	jsonBody, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("Failed to marshal notification event",
			zap.Error(err),
			zap.String("type", event.Type),
		)
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		c.logger.Error("Failed to create notification request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, "POST", statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to send notification",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.Duration("duration", duration),
		)
		// Graceful degradation: log error but don't fail the main operation
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("Notification sent successfully",
			zap.String("type", event.Type),
			zap.String("recipient_id", event.RecipientID.String()),
			zap.Duration("duration", duration),
		)
		return nil
	}

	c.logger.Warn("Notification service returned non-success status",
		zap.Int("status_code", resp.StatusCode),
		zap.String("type", event.Type),
		zap.Duration("duration", duration),
	)

	// Graceful degradation: don't fail the main operation
	return nil
}

// NoOpNotificationClient is a no-op implementation for when notifications are disabled
type NoOpNotificationClient struct{}

func NewNoOpNotificationClient() NotificationClient {
	return &NoOpNotificationClient{}
}

func (c *NoOpNotificationClient) Send(ctx context.Context, event NotificationEvent) error {
	return nil
}
