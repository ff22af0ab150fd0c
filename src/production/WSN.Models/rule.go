package wsnmodels

import "fmt"

// State is the detected state a sensing device reports in a motion message.
type State string

const (
	StateMove    State = "move"
	StateStatic  State = "static"
	StateSomeone State = "someone"
)

// ParseState validates a wire-level state string.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateMove, StateStatic, StateSomeone:
		return State(s), nil
	default:
		return "", fmt.Errorf("unknown state %q", s)
	}
}

// AlertRule is a user-authored notification rule. An empty MAC matches every
// device. StartTime and EndTime are zero-padded "HH:MM" daily window bounds.
type AlertRule struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MAC       string `json:"mac"`
	State     State  `json:"state"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Enabled   bool   `json:"enabled"`
}

// MotionMessage is the payload delivered on the motion topic. Both fields are
// required; anything else is dropped by the ingestor.
type MotionMessage struct {
	MAC   string `json:"mac"`
	State string `json:"state"`
}
