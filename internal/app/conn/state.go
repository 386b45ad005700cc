package conn

// State represents the lifecycle stage of the streaming connection.
// Exactly one connection exists at a time; the Manager is its sole owner.
type State int

const (
	// StateClosed means no connection exists.
	StateClosed State = iota

	// StateConnecting means a dial is in flight.
	StateConnecting

	// StateOpen means the connection is established and usable.
	StateOpen
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
