package session

// Status is the connection state of an Engine.
type Status int

// Connection states.
const (
	StatusClosed Status = iota
	StatusClosing
	StatusResolving
	StatusConnecting
	StatusHandshaking
	StatusError
	StatusOpen
	StatusReading
	StatusWriting
)

var statusNames = [...]string{
	StatusClosed:      "closed",
	StatusClosing:     "closing",
	StatusResolving:   "resolving",
	StatusConnecting:  "connecting",
	StatusHandshaking: "handshaking",
	StatusError:       "error",
	StatusOpen:        "open",
	StatusReading:     "reading",
	StatusWriting:     "writing",
}

// String returns the lower-case name of the state.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}
