package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/bookstay/hotel-booking-engine/internal/core/domain"
	"github.com/bookstay/hotel-booking-engine/internal/core/services"
)

// WebhookHandler is the inbound entry point for asynchronous payment
// events. Delivery retries are the gateway's job: a dropped event
// (unknown session) is acknowledged, not failed.
type WebhookHandler struct {
	svc           *services.BookingService
	signingSecret string
	log           *logrus.Logger
}

func NewWebhookHandler(svc *services.BookingService, signingSecret string, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, signingSecret: signingSecret, log: log}
}

func (h *WebhookHandler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable payload"})
		return
	}

	var event stripe.Event

	if h.signingSecret != "" {
		event, err = webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.signingSecret)
		if err != nil {
			h.log.WithError(err).Warn("webhook signature verification failed")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
			return
		}
	} else if err := json.Unmarshal(payload, &event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	var session struct {
		ID string `json:"id"`
	}
	if len(event.Data.Raw) > 0 {
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event object"})
			return
		}
	}

	err = h.svc.HandlePaymentEvent(r.Context(), services.PaymentEvent{
		Kind:      string(event.Type),
		SessionID: session.ID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown session: drop the event and acknowledge, the
			// gateway's retries cover transient delivery failures.
			h.log.WithField("session_id", session.ID).Warn("payment event for unknown session dropped")
			writeJSON(w, http.StatusOK, map[string]string{"status": "dropped"})
			return
		}

		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
