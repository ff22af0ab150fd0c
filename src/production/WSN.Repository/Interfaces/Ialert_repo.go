package interfaces

import (
	"context"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// AlertRepository is the canonical alert store. Alerts are keyed by user so
// the key itself is the per-user index; there is no second projection to keep
// consistent. Alerts are never deleted.
type AlertRepository interface {
	Create(ctx context.Context, userID, deviceID, alertType, message string, severity wsnmodels.Severity) (*wsnmodels.Alert, error)

	// ListByUser returns a user's alerts newest first. Read alerts are
	// filtered out unless includeRead is set.
	ListByUser(ctx context.Context, userID string, includeRead bool) ([]wsnmodels.Alert, error)

	// MarkRead and Acknowledge flip their flag once, irreversibly. Both
	// return ErrNotFoundOrUnauthorized when the alert is missing or owned
	// by another user.
	MarkRead(ctx context.Context, userID, alertID string) (*wsnmodels.Alert, error)
	Acknowledge(ctx context.Context, userID, alertID string) (*wsnmodels.Alert, error)

	// History returns the user's alerts from the last days, with per-type
	// occurrence counts.
	History(ctx context.Context, userID string, days int) (*wsnmodels.AlertHistory, error)
}
