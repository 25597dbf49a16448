package handler

import (
	"net/http"

	"github.com/vasapolrittideah/stories-api/internal/payload"
	"github.com/vasapolrittideah/stories-api/internal/response"
)

func (h *httpHandler) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Notifications.ListNotifications(r.Context(), actorFromRequest(r))
	if err != nil {
		h.handleError(w, r, err, "failed to list notifications")
		return
	}

	response.OK(w, http.StatusOK, "Data found", payload.NewNotificationResponses(notifications))
}

func (h *httpHandler) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Notifications.MarkAllAsRead(r.Context(), actorFromRequest(r)); err != nil {
		h.handleError(w, r, err, "failed to mark notifications as read")
		return
	}

	response.OK(w, http.StatusOK, "mark as read", nil)
}
