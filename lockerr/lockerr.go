// Package lockerr defines the error-kind catalog shared by every layer of
// welockbridge. Failures are returned, never panicked; each kind is a small
// struct with an Error() method and a matching Is* predicate, the same shape
// nmxact/nmxutil uses for RspTimeoutError, SesnClosedError and friends.
package lockerr

import "fmt"

// NotConnectedError is returned when an operation requires an open session
// but the transport link is down.
type NotConnectedError struct {
	Text string
}

func NewNotConnectedError(text string) *NotConnectedError {
	return &NotConnectedError{Text: text}
}

func (e *NotConnectedError) Error() string { return e.Text }

func IsNotConnected(err error) bool {
	_, ok := err.(*NotConnectedError)
	return ok
}

// ConnectionFailedError wraps a failure during the connect sequence itself
// (GATT connect, service discovery, CCCD write).
type ConnectionFailedError struct {
	Text string
}

func NewConnectionFailedError(text string) *ConnectionFailedError {
	return &ConnectionFailedError{Text: text}
}

func FmtConnectionFailedError(format string, args ...interface{}) *ConnectionFailedError {
	return NewConnectionFailedError(fmt.Sprintf(format, args...))
}

func (e *ConnectionFailedError) Error() string { return e.Text }

func IsConnectionFailed(err error) bool {
	_, ok := err.(*ConnectionFailedError)
	return ok
}

// AuthFailedError indicates the device rejected the supplied credentials
// (TT-Series wrong password). The G-Series path never returns it.
type AuthFailedError struct {
	Text string
}

func NewAuthFailedError(text string) *AuthFailedError {
	return &AuthFailedError{Text: text}
}

func (e *AuthFailedError) Error() string { return e.Text }

func IsAuthFailed(err error) bool {
	_, ok := err.(*AuthFailedError)
	return ok
}

// InvalidCredentialsError indicates the caller supplied a credentials value
// that fails static validation (bad key length, expired, malformed lock-id).
type InvalidCredentialsError struct {
	Text string
}

func NewInvalidCredentialsError(text string) *InvalidCredentialsError {
	return &InvalidCredentialsError{Text: text}
}

func FmtInvalidCredentialsError(format string, args ...interface{}) *InvalidCredentialsError {
	return NewInvalidCredentialsError(fmt.Sprintf(format, args...))
}

func (e *InvalidCredentialsError) Error() string { return e.Text }

func IsInvalidCredentials(err error) bool {
	_, ok := err.(*InvalidCredentialsError)
	return ok
}

// CommandFailedError indicates the device answered but reported failure.
// Code carries the raw device result byte when one was present.
type CommandFailedError struct {
	Text string
	Code *byte
}

func NewCommandFailedError(text string, code *byte) *CommandFailedError {
	return &CommandFailedError{Text: text, Code: code}
}

func FmtCommandFailedError(code *byte, format string, args ...interface{}) *CommandFailedError {
	return NewCommandFailedError(fmt.Sprintf(format, args...), code)
}

func (e *CommandFailedError) Error() string { return e.Text }

func IsCommandFailed(err error) bool {
	_, ok := err.(*CommandFailedError)
	return ok
}

// TimeoutError indicates a suspension point (connect, descriptor write,
// write completion, response wait) exceeded its budget.
type TimeoutError struct {
	Op   string
	Text string
}

func NewTimeoutError(op string, text string) *TimeoutError {
	return &TimeoutError{Op: op, Text: text}
}

func FmtTimeoutError(op string, format string, args ...interface{}) *TimeoutError {
	return NewTimeoutError(op, fmt.Sprintf(format, args...))
}

func (e *TimeoutError) Error() string { return e.Text }

func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}

// DeviceNotFoundError indicates a scanner (external to this module) could
// not locate the addressed peer; carried here so callers can classify it
// alongside the rest of the ErrorKind catalog.
type DeviceNotFoundError struct {
	Addr string
}

func NewDeviceNotFoundError(addr string) *DeviceNotFoundError {
	return &DeviceNotFoundError{Addr: addr}
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device not found: %s", e.Addr)
}

func IsDeviceNotFound(err error) bool {
	_, ok := err.(*DeviceNotFoundError)
	return ok
}

// PermissionDeniedError indicates the host platform refused a Bluetooth
// permission the transport needed.
type PermissionDeniedError struct {
	Permission string
}

func NewPermissionDeniedError(permission string) *PermissionDeniedError {
	return &PermissionDeniedError{Permission: permission}
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Permission)
}

func IsPermissionDenied(err error) bool {
	_, ok := err.(*PermissionDeniedError)
	return ok
}

// UnsupportedProtocolError indicates the protocol selector could not map
// credentials/hints onto a known protocol variant.
type UnsupportedProtocolError struct {
	Text string
}

func NewUnsupportedProtocolError(text string) *UnsupportedProtocolError {
	return &UnsupportedProtocolError{Text: text}
}

func (e *UnsupportedProtocolError) Error() string { return e.Text }

func IsUnsupportedProtocol(err error) bool {
	_, ok := err.(*UnsupportedProtocolError)
	return ok
}

// DecodingError indicates a codec-level parse or crypto failure. Codecs
// never panic on malformed input; they return this instead.
type DecodingError struct {
	Reason string
}

func NewDecodingError(reason string) *DecodingError {
	return &DecodingError{Reason: reason}
}

func FmtDecodingError(format string, args ...interface{}) *DecodingError {
	return NewDecodingError(fmt.Sprintf(format, args...))
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding error: %s", e.Reason)
}

func IsDecoding(err error) bool {
	_, ok := err.(*DecodingError)
	return ok
}
