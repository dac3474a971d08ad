package connector

import (
	"errors"
	"fmt"
)

// State is the phase of the provider connection.
type State int

const (
	Disconnected State = iota
	Verifying
	Redirecting
	AwaitingCode
	Exchanging
	Connected
	Refreshing
)

var stateNames = map[State]string{
	Disconnected: "disconnected",
	Verifying:    "verifying",
	Redirecting:  "redirecting",
	AwaitingCode: "awaiting_code",
	Exchanging:   "exchanging",
	Connected:    "connected",
	Refreshing:   "refreshing",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

var ErrInvalidTransition = errors.New("connector: invalid state transition")

// A failed refresh returns to whichever state it started from, hence the
// edges out of Refreshing.
var transitions = map[State][]State{
	Disconnected: {Verifying, Redirecting, Exchanging, Refreshing},
	Verifying:    {Connected, Refreshing, Disconnected},
	Redirecting:  {AwaitingCode, Disconnected},
	AwaitingCode: {Verifying, Redirecting, Exchanging, Refreshing, Disconnected},
	Exchanging:   {Connected, Disconnected},
	Connected:    {Verifying, Refreshing, Redirecting, Exchanging, Disconnected},
	Refreshing:   {Connected, Disconnected, AwaitingCode, Verifying},
}

// CanTransition reports whether from -> to is an edge of the state machine.
// Disconnect bypasses this check.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
