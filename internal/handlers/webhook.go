package handlers

//go:generate mockgen -source=webhook.go -destination=webhook_mock.go -package=handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/services"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw webhook body.
const SignatureHeader = "X-Payment-Signature"

const (
	chargeSuccessEvent = "charge.success"
	maxWebhookBody     = 1 << 20
)

// DepositConfirmer settles pending deposits.
type DepositConfirmer interface {
	ConfirmDeposit(ctx context.Context, reference string, amount int64, providerID string) (*services.DepositConfirmation, error)
}

// PaymentEvent is the payment provider webhook body
// swagger:model PaymentEvent
type PaymentEvent struct {
	// Event name, only charge.success is processed
	// default: charge.success
	Event string `json:"event"`

	// Charge details
	Data PaymentEventData `json:"data"`
}

// PaymentEventData describes a settled charge
// swagger:model PaymentEventData
type PaymentEventData struct {
	// Reference issued by POST /wallet/deposit
	Reference string `json:"reference"`

	// Charged amount in minor units
	Amount int64 `json:"amount"`

	// Provider transaction id
	ID json.Number `json:"id"`
}

// NewPaymentWebhookHandler returns an HTTP handler for payment provider callbacks.
// Requests must be signed with secret, an empty secret rejects every request.
// @Summary Payment webhook
// @Description Confirms a pending deposit. Repeated deliveries are acknowledged without crediting twice.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Payment-Signature header string true "HMAC-SHA512 of the body"
// @Param request body handlers.PaymentEvent true "Payment event"
// @Success 200 {object} handlers.Response
// @Failure 400 {object} handlers.ErrorResponse "Invalid signature or amount mismatch"
// @Failure 404 {object} handlers.ErrorResponse "Unknown reference"
// @Router /webhooks/payments [post]
func NewPaymentWebhookHandler(svc DepositConfirmer, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			logger.Log.Errorw("failed to read webhook body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !validSignature(secret, body, r.Header.Get(SignatureHeader)) {
			logger.Log.Warnw("webhook signature rejected", "remote", r.RemoteAddr)
			writeError(w, http.StatusBadRequest, "Invalid signature")
			return
		}

		var event PaymentEvent
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&event); err != nil {
			logger.Log.Warnw("failed to decode webhook body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if event.Event != chargeSuccessEvent {
			logger.Log.Infow("webhook event ignored", "event", event.Event)
			writeJSON(w, http.StatusOK, "Event ignored", nil)
			return
		}
		if event.Data.Reference == "" {
			writeError(w, http.StatusBadRequest, "reference is required")
			return
		}

		result, err := svc.ConfirmDeposit(r.Context(), event.Data.Reference, event.Data.Amount, event.Data.ID.String())
		if err != nil {
			writeServiceError(w, "confirm deposit", err)
			return
		}
		if result.AlreadyProcessed {
			writeJSON(w, http.StatusOK, "Already processed", nil)
			return
		}

		writeJSON(w, http.StatusOK, "Deposit confirmed", result.Transaction)
	}
}

// Sign returns the hex HMAC-SHA512 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}
