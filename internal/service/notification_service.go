package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/e-wheels/workshop-service/internal/config"
	"github.com/e-wheels/workshop-service/internal/events"
)

// NotificationService pushes workshop events to the configured chat webhook.
// Delivery is best effort: failures are logged, never surfaced to the caller.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.Timeout()},
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketTriaged, n.handleTicketTriaged)
	n.dispatcher.Subscribe(events.EventTicketStatusMoved, n.handleTicketStatusMoved)
	n.dispatcher.Subscribe(events.EventCaseStatusMoved, n.handleCaseStatusMoved)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.String("ticket_number", payload.TicketNumber))
	n.postWebhook(ctx, fmt.Sprintf("🛠️ New service ticket %s: %s", payload.TicketNumber, payload.Symptom))
	return nil
}

func (n *NotificationService) handleTicketTriaged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketTriagedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketTriaged", zap.String("ticket_id", event.TicketID), zap.String("route_to", payload.RouteTo))
	n.postWebhook(ctx, fmt.Sprintf("🔀 Ticket %s triaged to %s", payload.TicketNumber, payload.RouteTo))
	return nil
}

func (n *NotificationService) handleTicketStatusMoved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusMovedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("TicketStatusChanged",
		zap.String("ticket_id", event.TicketID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))
	n.postWebhook(ctx, fmt.Sprintf("📋 Ticket %s: %s → %s", payload.TicketNumber, payload.OldStatus, payload.NewStatus))
	return nil
}

func (n *NotificationService) handleCaseStatusMoved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CaseStatusMovedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("CaseStatusChanged",
		zap.String("case_id", payload.CaseID),
		zap.String("case_type", string(payload.CaseType)),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))
	n.postWebhook(ctx, fmt.Sprintf("🔧 %s case %s: %s → %s", payload.CaseType, payload.CaseID, payload.OldStatus, payload.NewStatus))
	return nil
}

// postWebhook sends a Slack-compatible text payload.
func (n *NotificationService) postWebhook(ctx context.Context, text string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("webhook request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook rejected", zap.Int("status", resp.StatusCode))
	}
}
