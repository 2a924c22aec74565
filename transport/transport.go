// Package transport defines the GATT capability contract a session drives
// commands and notifications through. It intentionally binds to no
// concrete BLE stack: platform scanning and GATT discovery live outside
// this module's scope, the same way nmxact/sesn.Sesn describes a transport
// contract that nmble, nmserial and nmudp each implement independently.
package transport

import "context"

// GattID names a BLE service or characteristic by its 128-bit UUID string.
type GattID string

// Endpoints identifies the write/notify characteristics a session uses,
// discovered by whatever platform layer implements Transport.
type Endpoints struct {
	Service    GattID
	WriteChar  GattID
	NotifyChar GattID
}

// ConnectionEvent reports an out-of-band link-level state change.
type ConnectionEvent struct {
	Connected bool
	Err       error
}

// Transport is the capability set a Session depends on. Implementations
// own the underlying platform GATT client; this module only calls the
// methods below.
type Transport interface {
	// Connect establishes the GATT link and performs service discovery,
	// returning the resolved write/notify endpoints. ctx bounds the
	// discovery timeout.
	Connect(ctx context.Context) (Endpoints, error)

	// EnableNotifications enables local notifications on ep.NotifyChar and
	// writes the CCCD descriptor, blocking until the descriptor-write
	// completion callback fires or ctx expires.
	EnableNotifications(ctx context.Context, ep Endpoints) error

	// Write sends bytes to ep.WriteChar. Payloads over 20 bytes are
	// chunked into <=20-byte segments with an inter-chunk delay by the
	// implementation. When withResponse is true, Write blocks for the
	// write-completion callback; otherwise it returns once queued.
	Write(ctx context.Context, ep Endpoints, data []byte, withResponse bool) error

	// Inbound returns a channel that publishes every notification payload
	// in arrival order. The channel is closed when the transport
	// disconnects.
	Inbound() <-chan []byte

	// ConnectionEvents returns a channel of out-of-band link state
	// changes; the session translates these into ConnectionState
	// transitions.
	ConnectionEvents() <-chan ConnectionEvent

	// Disconnect tears down the link. Idempotent.
	Disconnect()

	// LastRSSI reports the signal strength of the most recent advertisement
	// or connection-level reading, if the implementation tracks one.
	// Transports with no RSSI source return 0.
	LastRSSI() int16
}

// ChunkSize is the maximum per-write payload before Write must fragment.
const ChunkSize = 20
