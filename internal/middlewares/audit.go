package middlewares

//go:generate mockgen -source=audit.go -destination=audit_mock.go -package=middlewares

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/events"
	"github.com/sbilibin2017/gw-savings-circle/internal/logger"
	"github.com/sbilibin2017/gw-savings-circle/internal/models"
)

const auditTimeout = 5 * time.Second

// AuditPublisher publishes audit records.
type AuditPublisher interface {
	Publish(ctx context.Context, key string, value any) error // Publishes value under key
}

// AuditMiddleware publishes an audit.request event for every successful state-changing
// request once the handler has returned. Publishing happens in the background and never
// changes the response.
func AuditMiddleware(publisher AuditPublisher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return
			}
			if rw.statusCode >= http.StatusBadRequest {
				return
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			userID, _ := UserIDFromContext(r.Context())
			requestID := RequestIDFromContext(r.Context())

			event := models.Event{
				Type:        models.EventAuditRequest,
				RecipientID: userID,
				Payload: map[string]any{
					"method":     r.Method,
					"route":      route,
					"path":       r.URL.Path,
					"status":     rw.statusCode,
					"request_id": requestID,
				},
				OccurredAt: time.Now().UTC(),
			}
			key := requestID
			if userID != uuid.Nil {
				key = userID.String()
			}

			ctx := context.WithoutCancel(r.Context())
			go func() {
				ctx, cancel := context.WithTimeout(ctx, auditTimeout)
				defer cancel()
				err := publisher.Publish(ctx, key, event)
				if err != nil && !errors.Is(err, events.ErrDisabled) {
					logger.Log.Warnw("failed to publish audit event", "route", route, "request_id", requestID, "error", err)
				}
			}()
		})
	}
}
