package lockdefs

import "fmt"

// ConnectionKind is the tag of a ConnectionState value.
type ConnectionKind int

const (
	ConnDisconnected ConnectionKind = iota
	ConnConnecting
	ConnConnected
	ConnError
)

var connKindNames = map[ConnectionKind]string{
	ConnDisconnected: "disconnected",
	ConnConnecting:   "connecting",
	ConnConnected:    "connected",
	ConnError:        "error",
}

func (k ConnectionKind) String() string {
	if name, ok := connKindNames[k]; ok {
		return name
	}
	return "???"
}

// ConnectionState is a per-session observable. Error carries a message,
// matching the "Error(msg)" variant; the other three kinds carry none.
type ConnectionState struct {
	Kind    ConnectionKind
	Message string
}

func Disconnected() ConnectionState { return ConnectionState{Kind: ConnDisconnected} }
func Connecting() ConnectionState   { return ConnectionState{Kind: ConnConnecting} }
func Connected() ConnectionState    { return ConnectionState{Kind: ConnConnected} }

func Errored(msg string) ConnectionState {
	return ConnectionState{Kind: ConnError, Message: msg}
}

func (s ConnectionState) String() string {
	if s.Kind == ConnError {
		return fmt.Sprintf("error(%s)", s.Message)
	}
	return s.Kind.String()
}

func (s ConnectionState) IsTerminal() bool {
	return s.Kind == ConnDisconnected || s.Kind == ConnError
}
