// Package queue is the durable hand-off between request handlers and the
// background notification workers.
package queue

import "context"

// Message is one received task. Receipt identifies it for Ack.
type Message struct {
	ID      string
	Body    []byte
	Receipt string
}

// Queue delivers opaque task bodies. Receive blocks until at least one
// message is available, the backend's poll window ends, or ctx is done; it
// may return an empty slice.
type Queue interface {
	Send(ctx context.Context, body []byte) error
	Receive(ctx context.Context) ([]Message, error)
	Ack(ctx context.Context, m Message) error
}
