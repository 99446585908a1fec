package booking

import (
	"github.com/gearshare/gearshare-backend/internal/pkg/apperror"
)

// State is the query-time filter selecting which slice of a user's bookings
// to list. CURRENT, PAST and FUTURE are time-based and independent of the
// persisted status; WAITING and REJECTED match on status.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState validates a raw state token at the transport boundary.
// Tokens are case-sensitive; anything unknown is a validation failure
// naming the offending token.
func ParseState(raw string) (State, error) {
	switch State(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(raw), nil
	default:
		return "", apperror.Validation("Unknown state: " + raw)
	}
}
