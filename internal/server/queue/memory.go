package queue

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
)

var ErrQueueFull = errors.New("queue is full")

// MemoryQueue is an in-process Queue. Messages are lost on restart.
type MemoryQueue struct {
	ch  chan Message
	seq atomic.Int64
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{ch: make(chan Message, capacity)}
}

// Send never waits: a full buffer fails with ErrQueueFull.
func (q *MemoryQueue) Send(ctx context.Context, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strconv.FormatInt(q.seq.Add(1), 10)
	select {
	case q.ch <- Message{ID: id, Body: body, Receipt: id}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Receive(ctx context.Context) ([]Message, error) {
	var msgs []Message
	select {
	case m := <-q.ch:
		msgs = append(msgs, m)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	for len(msgs) < maxMessages {
		select {
		case m := <-q.ch:
			msgs = append(msgs, m)
		default:
			return msgs, nil
		}
	}
	return msgs, nil
}

// Ack is a no-op: a received message is already gone.
func (q *MemoryQueue) Ack(ctx context.Context, m Message) error {
	return nil
}
