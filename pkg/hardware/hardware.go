package hardware

import (
	"context"
	"fmt"
	"time"

	"github.com/haptic-protocol/haptic-go/pkg/wire"
)

// Hardware errors.
var (
	ErrDisconnected      = fmt.Errorf("%w: hardware disconnected", wire.ErrDeviceCommunication)
	ErrNoEndpoint        = fmt.Errorf("%w: endpoint not available", wire.ErrDeviceCommunication)
	ErrNotSubscribed     = fmt.Errorf("%w: endpoint not subscribed", wire.ErrDeviceCommunication)
	ErrAlreadySubscribed = fmt.Errorf("%w: endpoint already subscribed", wire.ErrDeviceCommunication)
)

// WriteCmd writes Data to Endpoint. WriteWithResponse asks the link to
// wait for the device to acknowledge the write.
type WriteCmd struct {
	Endpoint          wire.Endpoint
	Data              []byte
	WriteWithResponse bool
}

// ReadCmd reads up to Length bytes from Endpoint. A zero Timeout leaves
// the deadline to the context.
type ReadCmd struct {
	Endpoint wire.Endpoint
	Length   uint32
	Timeout  time.Duration
}

// NotifyFunc receives data pushed by a subscribed endpoint.
type NotifyFunc func(endpoint wire.Endpoint, data []byte)

// Hardware is a connected physical device.
type Hardware interface {
	// Name returns the advertised device name.
	Name() string

	// WriteValue writes to an endpoint.
	WriteValue(ctx context.Context, cmd WriteCmd) error

	// ReadValue reads from an endpoint.
	ReadValue(ctx context.Context, cmd ReadCmd) ([]byte, error)

	// Subscribe delivers notifications from endpoint to fn until
	// Unsubscribe is called.
	Subscribe(ctx context.Context, endpoint wire.Endpoint, fn NotifyFunc) error

	// Unsubscribe stops notifications from endpoint.
	Unsubscribe(ctx context.Context, endpoint wire.Endpoint) error

	// RSSI returns the received signal strength in dBm.
	RSSI(ctx context.Context) (int32, error)

	// Disconnect closes the link to the device.
	Disconnect() error
}
