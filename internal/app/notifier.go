package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ultramanx88/internship-system-sub007/internal/common"
	"github.com/ultramanx88/internship-system-sub007/internal/domain/notification"
)

// Notifier records notification obligations. It is fire-and-forget by
// contract: a failed write is logged and swallowed so it can never fail or
// roll back the status transition that triggered it.
type Notifier struct {
	repo   notification.Repository
	logger *logrus.Logger
}

func NewNotifier(repo notification.Repository, logger *logrus.Logger) *Notifier {
	return &Notifier{repo: repo, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, userID common.UUID, typ notification.Type, title, message string) {
	if n == nil || n.repo == nil || userID.IsZero() {
		return
	}
	err := n.repo.Create(ctx, notification.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
	})
	if err != nil && n.logger != nil {
		n.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": userID.String(),
			"type":    string(typ),
		}).Warn("failed to record notification")
	}
}

// ListForUser returns the caller's notifications, newest first.
func (n *Notifier) ListForUser(ctx context.Context, userID common.UUID, limit, offset int) ([]notification.Notification, error) {
	if n == nil || n.repo == nil {
		return nil, common.NewError(common.CodeInternal, "notifications are not configured", nil)
	}
	return n.repo.ListByUser(ctx, userID, limit, offset)
}
