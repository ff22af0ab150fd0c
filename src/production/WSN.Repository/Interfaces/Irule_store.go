package interfaces

import (
	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// RuleStore persists the ordered list of user-authored alert rules. The list
// is loaded once at startup and saved in full on every mutation.
type RuleStore interface {
	Load() ([]wsnmodels.AlertRule, error)
	Save(rules []wsnmodels.AlertRule) error
}
