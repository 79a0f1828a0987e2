package state

// RequestStatus tracks a store's fetch lifecycle.
type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusLoading
	StatusSuccess
	StatusError
	StatusNotFound // single-offer store only
)

func (s RequestStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	case StatusNotFound:
		return "not-found"
	default:
		return "idle"
	}
}

// AuthStatus is the session's authorization state. AuthUnknown is the
// bootstrap value before the first check completes and is not the same as
// AuthAnonymous.
type AuthStatus int

const (
	AuthUnknown AuthStatus = iota
	AuthAuthenticated
	AuthAnonymous
)

func (a AuthStatus) String() string {
	switch a {
	case AuthAuthenticated:
		return "authenticated"
	case AuthAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}
