package handlers

import (
	"net/http"

	"github.com/ultramanx88/internship-system-sub007/internal/app"
	"github.com/ultramanx88/internship-system-sub007/internal/http/response"
)

type NotificationHandler struct {
	notifier *app.Notifier
}

func NewNotificationHandler(notifier *app.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrError(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	items, err := h.notifier.ListForUser(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
