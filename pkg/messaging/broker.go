package messaging

import "context"

// Broker is the message transport consumed by the generation engine for
// progress fan-out. Implementations must be safe for concurrent use.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
