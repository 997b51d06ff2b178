package protocol

import "fmt"

// Transport operations reported in TransportError.Op.
const (
	OpBind     = "bind"
	OpDeadline = "deadline"
	OpSend     = "send"
	OpReceive  = "receive"
)

// TransportError reports a failed socket operation during a query.
// Receive failures include timeout expiry with no reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Decode stages reported in DecodeError.Stage.
const (
	StageResponse = "response"
	StageInfo     = "info"
	StagePlayer   = "player"
)

// DecodeError reports a malformed getstatus reply.
type DecodeError struct {
	Stage  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s failed: %s", e.Stage, e.Reason)
}
