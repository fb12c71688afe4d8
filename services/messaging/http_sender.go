package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/velasquezhn3/vj-sub000/utils"

	"go.uber.org/zap"
)

// HTTPSender posts outbound messages to the transport collaborator's webhook.
type HTTPSender struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPSender creates a sender for the given webhook endpoint.
func NewHTTPSender(endpoint string) *HTTPSender {
	return &HTTPSender{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type outboundPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *HTTPSender) SendText(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(outboundPayload{To: to, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build outbound request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver outbound message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("transport rejected outbound message: status %d", resp.StatusCode)
	}
	return nil
}

// LogSender writes outbound messages to the log only. Used when no transport
// webhook is configured (local development).
type LogSender struct{}

func (LogSender) SendText(_ context.Context, to, body string) error {
	utils.GetLogger().Info("outbound message (no transport configured)",
		zap.String("to", to), zap.String("body", body))
	return nil
}
