package ewallet

// State is the orchestrator's observable surface. User/Loading/Error form
// the primary machine (idle -> loading -> authenticated | error);
// SessionExpiring is orthogonal and may flip in any authenticated state.
type State struct {
	Loading         bool
	Error           string
	User            *Session
	SessionExpiring bool
	// AwaitingOTP marks the interstitial between OTP dispatch and the
	// out-of-band confirmation; no user is set yet.
	AwaitingOTP bool
}

type EventType string

const (
	EventLoading         EventType = "loading"
	EventError           EventType = "error"
	EventAuthenticated   EventType = "authenticated"
	EventInitEmailAuth   EventType = "init_email_auth"
	EventSessionExpiring EventType = "session_expiring"
	EventLogout          EventType = "logout"
)

// Event is a single state-machine input. Only the field matching Type is
// read; Reduce ignores the rest.
type Event struct {
	Type     EventType
	Loading  bool
	Error    string
	Session  *Session
	Expiring bool
}

// Reduce is the pure transition function. It performs no I/O so every
// lifecycle path is testable without clients or timers; the Orchestrator
// layers effects around it.
func Reduce(state State, event Event) State {
	switch event.Type {
	case EventLoading:
		state.Loading = event.Loading
		return state
	case EventError:
		state.Error = event.Error
		state.Loading = false
		return state
	case EventInitEmailAuth:
		state.Loading = false
		state.Error = ""
		state.AwaitingOTP = true
		return state
	case EventAuthenticated:
		state.User = event.Session
		state.Loading = false
		state.Error = ""
		state.AwaitingOTP = false
		return state
	case EventSessionExpiring:
		state.SessionExpiring = event.Expiring
		return state
	case EventLogout:
		return State{}
	default:
		return state
	}
}
