package handlers

//go:generate mockgen -source=notification.go -destination=notification_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-savings-circle/internal/services"
)

// NotificationLister pages through the caller's inbox.
type NotificationLister interface {
	List(ctx context.Context, userID uuid.UUID, page, perPage int, unreadOnly bool) (*services.NotificationPage, error)
}

// NotificationMarker marks a notification as read.
type NotificationMarker interface {
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

// NewListNotificationsHandler returns an HTTP handler for the caller's notifications.
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size, max 100" default(20)
// @Param unread query bool false "Only unread"
// @Success 200 {object} handlers.Response{data=services.NotificationPage}
// @Failure 400 {object} handlers.ErrorResponse "Invalid paging"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /notifications [get]
// @Security BearerAuth
func NewListNotificationsHandler(svc NotificationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		page, ok := queryInt(w, r, "page", 1)
		if !ok {
			return
		}
		perPage, ok := queryInt(w, r, "per_page", services.DefaultNotificationsPerPage)
		if !ok {
			return
		}
		unread := r.URL.Query().Get("unread") == "true"

		result, err := svc.List(r.Context(), userID, page, perPage, unread)
		if err != nil {
			writeServiceError(w, "list notifications", err)
			return
		}

		writeJSON(w, http.StatusOK, "Notifications retrieved", result)
	}
}

// NewMarkNotificationReadHandler returns an HTTP handler that marks one notification read.
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param notificationID path string true "Notification ID"
// @Success 200 {object} handlers.Response
// @Failure 403 {object} handlers.ErrorResponse "Not the recipient"
// @Failure 404 {object} handlers.ErrorResponse "Notification not found"
// @Router /notifications/{notificationID}/read [post]
// @Security BearerAuth
func NewMarkNotificationReadHandler(svc NotificationMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		id, ok := pathUUID(w, r, "notificationID")
		if !ok {
			return
		}

		if err := svc.MarkRead(r.Context(), userID, id); err != nil {
			writeServiceError(w, "mark notification read", err)
			return
		}

		writeJSON(w, http.StatusOK, "Notification marked as read", nil)
	}
}
