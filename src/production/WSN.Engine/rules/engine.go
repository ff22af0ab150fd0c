// Package rules evaluates user-authored alert rules against incoming motion
// messages.
package rules

import (
	"fmt"
	"time"

	wsnmodels "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models"
)

// Evaluate returns every enabled rule matching the message: the MAC filter is
// empty or equal to mac, the state filter equals state, and now falls inside
// the rule's daily window.
//
// Window bounds are compared lexicographically on zero-padded "HH:MM"
// strings. A window whose start sorts after its end (e.g. 22:00-02:00) can
// therefore never match; that behavior is part of the contract and is kept
// as is. Matching is stateless: the same rule fires again on every
// qualifying message.
func Evaluate(rules []wsnmodels.AlertRule, mac string, state wsnmodels.State, now string) []wsnmodels.AlertRule {
	var matched []wsnmodels.AlertRule
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if rule.MAC != "" && rule.MAC != mac {
			continue
		}
		if rule.State != state {
			continue
		}
		if now < rule.StartTime || now > rule.EndTime {
			continue
		}
		matched = append(matched, rule)
	}
	return matched
}

// ClockString renders a time as the zero-padded "HH:MM" string Evaluate
// expects.
func ClockString(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
