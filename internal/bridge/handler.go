package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/example/whatsapp-cloud/whatsapp/webhook"
)

const defaultMaxBodyBytes = 1 << 20

// EventSink receives flattened webhook events.
type EventSink interface {
	PublishEvent(ctx context.Context, event Event) error
}

// DLQSink receives deliveries that could not be turned into events.
type DLQSink interface {
	PublishDLQ(ctx context.Context, record DLQRecord) error
}

// Config carries the handler's tunables.
type Config struct {
	// VerifyToken must match the hub.verify_token query parameter during the
	// subscription handshake.
	VerifyToken string
	// MaxBodyBytes caps the accepted delivery body size. Defaults to 1 MiB.
	MaxBodyBytes int
	// PublishConcurrency caps concurrent publishes across all in-flight
	// deliveries. Defaults to 8.
	PublishConcurrency int
}

// Dependencies wires the handler's collaborators.
type Dependencies struct {
	Events EventSink
	DLQ    DLQSink
	Logger zerolog.Logger
	Now    func() time.Time
}

// Handler is the webhook HTTP endpoint. GET requests answer the platform's
// subscription handshake, POST requests are parsed and fanned out to Kafka.
type Handler struct {
	verifyToken  string
	maxBodyBytes int64

	events EventSink
	dlq    DLQSink

	sem    *semaphore.Weighted
	logger zerolog.Logger
	now    func() time.Time
}

// New validates the configuration and dependencies and returns a Handler.
func New(cfg Config, deps Dependencies) (*Handler, error) {
	if cfg.VerifyToken == "" {
		return nil, errors.New("bridge: verify token is required")
	}
	if deps.Events == nil {
		return nil, errors.New("bridge: event sink is required")
	}
	if deps.DLQ == nil {
		return nil, errors.New("bridge: dlq sink is required")
	}

	maxBody := int64(cfg.MaxBodyBytes)
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	concurrency := int64(cfg.PublishConcurrency)
	if concurrency <= 0 {
		concurrency = 8
	}
	logger := deps.Logger
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Handler{
		verifyToken:  cfg.VerifyToken,
		maxBodyBytes: maxBody,
		events:       deps.Events,
		dlq:          deps.DLQ,
		sem:          semaphore.NewWeighted(concurrency),
		logger:       logger,
		now:          now,
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleVerification(w, r)
	case http.MethodPost:
		h.handleDelivery(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerification answers the subscription handshake: echo hub.challenge
// when the verify token matches, reject otherwise.
func (h *Handler) handleVerification(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken || challenge == "" {
		h.logger.Warn().Str("mode", mode).Msg("webhook verification rejected")
		http.Error(w, "verification failed", http.StatusForbidden)
		return
	}

	h.logger.Info().Msg("webhook verification accepted")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, challenge)
}

func (h *Handler) handleDelivery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	receivedAt := h.now().UTC()

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	payload, err := webhook.ParsePayload(body)
	if err != nil {
		// An unparseable delivery is dead on arrival. Record it and
		// acknowledge so the platform does not retry a body that will never
		// parse.
		h.logger.Warn().Err(err).Msg("webhook delivery rejected")
		record := newDLQRecord(err.Error(), "", receivedAt, body)
		if err := h.publishDLQ(ctx, record); err != nil {
			http.Error(w, "dlq publish failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	events, dlq := h.fanOut(payload, receivedAt, body)

	for _, record := range dlq {
		if err := h.publishDLQ(ctx, record); err != nil {
			http.Error(w, "dlq publish failed", http.StatusInternalServerError)
			return
		}
	}
	for _, event := range events {
		if err := h.publishEvent(ctx, event); err != nil {
			// A failed publish surfaces as 5xx so the platform redelivers.
			h.logger.Error().Err(err).Str("kind", event.Kind).Msg("event publish failed")
			http.Error(w, "event publish failed", http.StatusInternalServerError)
			return
		}
	}

	h.logger.Debug().Int("events", len(events)).Int("dlq", len(dlq)).Msg("webhook delivery processed")
	w.WriteHeader(http.StatusOK)
}

// fanOut flattens a delivery into one event per notification. Changes with an
// unknown field discriminator become DLQ records instead of events.
func (h *Handler) fanOut(payload *webhook.Payload, receivedAt time.Time, body []byte) ([]Event, []DLQRecord) {
	var events []Event
	var dlq []DLQRecord

	appendEvent := func(kind, accountID, phoneNumberID, messageID string, value any) {
		event, err := newEvent(kind, accountID, phoneNumberID, messageID, receivedAt, value)
		if err != nil {
			dlq = append(dlq, newDLQRecord(fmt.Sprintf("marshal %s event: %v", kind, err), "", receivedAt, body))
			return
		}
		events = append(events, event)
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			switch value := change.Value.(type) {
			case *webhook.MessagesValue:
				phoneNumberID := value.Metadata.PhoneNumberID
				for i := range value.Messages {
					msg := &value.Messages[i]
					appendEvent(KindMessage, entry.ID, phoneNumberID, msg.ID, msg)
				}
				for i := range value.Statuses {
					status := &value.Statuses[i]
					appendEvent(KindStatus, entry.ID, phoneNumberID, status.ID, status)
				}
				for i := range value.Errors {
					appendEvent(KindChannelError, entry.ID, phoneNumberID, "", &value.Errors[i])
				}
			case *webhook.TemplateStatusValue:
				appendEvent(KindTemplateStatus, entry.ID, "", "", value)
			case *webhook.TemplateQualityValue:
				appendEvent(KindTemplateQuality, entry.ID, "", "", value)
			case *webhook.TemplateComponentsValue:
				appendEvent(KindTemplateComponents, entry.ID, "", "", value)
			case *webhook.UnknownValue:
				h.logger.Info().Str("field", value.Field).Msg("unhandled change field routed to dlq")
				dlq = append(dlq, newDLQRecord("unhandled change field", value.Field, receivedAt, value.Raw))
			}
		}
	}

	return events, dlq
}

func (h *Handler) publishEvent(ctx context.Context, event Event) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)
	return h.events.PublishEvent(ctx, event)
}

func (h *Handler) publishDLQ(ctx context.Context, record DLQRecord) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)
	return h.dlq.PublishDLQ(ctx, record)
}
