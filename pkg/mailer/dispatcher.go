package mailer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned by Enqueue when the queue has no free slot
var ErrQueueFull = errors.New("mail queue is full")

// ErrClosed is returned by Enqueue after Shutdown
var ErrClosed = errors.New("mail dispatcher is closed")

// Dispatcher delivers mail in the background. Delivery failures are logged
// and never reported to the caller of Send.
type Dispatcher struct {
	sender  Sender
	logger  *zap.Logger
	workers int

	mu     sync.RWMutex
	queue  chan Message
	closed bool
	group  *errgroup.Group
}

// NewDispatcher creates a dispatcher with the given worker count and queue size
func NewDispatcher(sender Sender, logger *zap.Logger, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		workers: workers,
		queue:   make(chan Message, queueSize),
		group:   &errgroup.Group{},
	}
}

// Start launches the workers. They exit once Shutdown closes the queue and it is drained.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.group.Go(func() error {
			for msg := range d.queue {
				d.deliver(msg)
			}
			return nil
		})
	}
}

func (d *Dispatcher) deliver(msg Message) {
	if err := d.sender.Send(msg); err != nil {
		d.logger.Error("failed to deliver mail",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return
	}
	d.logger.Debug("mail delivered", zap.String("to", msg.To), zap.String("subject", msg.Subject))
}

// Enqueue hands msg to the workers without blocking
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Send is the fire-and-forget form of Enqueue
func (d *Dispatcher) Send(msg Message) {
	if err := d.Enqueue(msg); err != nil {
		d.logger.Warn("mail dropped", zap.String("to", msg.To), zap.Error(err))
	}
}

// Shutdown stops accepting mail and waits for queued messages to be delivered
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- d.group.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
