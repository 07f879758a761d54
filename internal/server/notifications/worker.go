package notifications

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/dmitrijs2005/travelapp/internal/server/mailer"
	"github.com/dmitrijs2005/travelapp/internal/server/queue"
)

const defaultReceiveBackoff = 5 * time.Second

// Worker consumes confirmation tasks with a fixed number of goroutines.
// Every received message is acked whether or not the mail went out.
type Worker struct {
	queue   queue.Queue
	sender  mailer.Sender
	log     logging.Logger
	workers int
	backoff time.Duration
}

func NewWorker(q queue.Queue, sender mailer.Sender, log logging.Logger, workers int) *Worker {
	if workers < 1 {
		workers = 1
	}
	return &Worker{
		queue:   q,
		sender:  sender,
		log:     log.With("module", "notification-worker"),
		workers: workers,
		backoff: defaultReceiveBackoff,
	}
}

// Run blocks until ctx is cancelled and all goroutines have returned.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	w.log.Info(ctx, "notification workers started", "count", w.workers)
	wg.Wait()
	w.log.Info(context.Background(), "notification workers stopped")
}

func (w *Worker) loop(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}

		msgs, err := w.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error(ctx, "receive failed", "worker", id, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.backoff):
			}
			continue
		}

		for _, m := range msgs {
			w.handle(ctx, m)
		}
	}
}

func (w *Worker) handle(ctx context.Context, m queue.Message) {
	defer func() {
		// a cancelled ctx must not leave the message to be redelivered
		if err := w.queue.Ack(context.WithoutCancel(ctx), m); err != nil {
			w.log.Warn(ctx, "ack failed", "message_id", m.ID, "error", err)
		}
	}()

	var task Task
	if err := json.Unmarshal(m.Body, &task); err != nil {
		w.log.Error(ctx, "malformed task dropped", "message_id", m.ID, "error", err)
		return
	}
	if task.Type != TaskBookingConfirmation {
		w.log.Warn(ctx, "unknown task type dropped", "message_id", m.ID, "type", task.Type)
		return
	}

	if err := w.sender.Send(ctx, task.Email, ConfirmationSubject, ConfirmationBody(task.Details)); err != nil {
		w.log.Error(ctx, "confirmation not delivered", "message_id", m.ID, "email", task.Email, "error", err)
		return
	}
	w.log.Info(ctx, "confirmation delivered", "message_id", m.ID, "email", task.Email)
}
