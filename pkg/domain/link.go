package domain

import "time"

// LinkState describes the current status of the serial link.
type LinkState int

const (
	LinkDisconnected LinkState = iota
	LinkConnecting
	LinkConnected
	LinkClosed
)

func (s LinkState) String() string {
	switch s {
	case LinkConnecting:
		return "connecting"
	case LinkConnected:
		return "connected"
	case LinkClosed:
		return "closed"
	default:
		return "disconnected"
	}
}

// MarshalText renders the state by name in JSON and YAML.
func (s LinkState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LinkStatus is a point-in-time snapshot of a link session.
type LinkStatus struct {
	State     LinkState `json:"state"`
	Target    string    `json:"target"`
	Peer      string    `json:"peer,omitempty"`
	Address   string    `json:"address,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	ErrorKey  string    `json:"error_key,omitempty"`
	Since     time.Time `json:"since"`
}

// StateEvent reports a transition of the link state machine.
type StateEvent struct {
	Timestamp time.Time `json:"timestamp"`
	From      LinkState `json:"from"`
	To        LinkState `json:"to"`
	Peer      string    `json:"peer,omitempty"`
	Err       error     `json:"-"`
}

// SendEvent reports one line written (or not) to the peer.
type SendEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Peer      string    `json:"peer,omitempty"`
	Bytes     int       `json:"bytes"`
	Err       error     `json:"-"`
}

// LinkHooks defines callbacks for link observability.
// Hooks run synchronously inside the session and must not call back into it.
type LinkHooks struct {
	OnStateChange func(*StateEvent)
	OnSend        func(*SendEvent)
}

// TranslateEvent reports the outcome of one transcription.
type TranslateEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Kind      ResultKind `json:"kind"`
	Runes     int        `json:"runes"`
}

// Hooks groups every lifecycle callback a Messenger can report.
type Hooks struct {
	LinkHooks
	OnTranslate func(*TranslateEvent)
}
