package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"time"
)

var (
	_ contract.Worker       = (*PresenceFanout)(nil)
	_ contract.IBroadcaster = (*PresenceFanout)(nil)
)

// Broadcast is one event addressed to a fixed list of sinks.
// Targets are resolved by the publisher at the time of the change.
type Broadcast struct {
	Event   event.DomainEvent
	Targets []contract.EventSink
}

// PresenceFanout pushes broadcasts to every target sink.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. Broadcasts leave in the order they were published,
// and a single worker keeps that order for every target.
type PresenceFanout struct {
	log         *slog.Logger
	broadcasts  chan Broadcast
	sinkTimeout time.Duration
	onDelivered func(n int)
}

func NewPresenceFanout(log *slog.Logger, bufferSize int, sinkTimeout time.Duration) *PresenceFanout {
	return &PresenceFanout{
		log:         log,
		broadcasts:  make(chan Broadcast, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// OnDelivered registers a hook called after each broadcast with its target count.
func (w *PresenceFanout) OnDelivered(fn func(n int)) *PresenceFanout {
	w.onDelivered = fn
	return w
}

// Publish enqueues a broadcast. When the buffer stays full longer than the
// sink timeout the broadcast is dropped and logged.
func (w *PresenceFanout) Publish(e event.DomainEvent, targets []contract.EventSink) {
	if len(targets) == 0 {
		return
	}
	b := Broadcast{Event: e, Targets: targets}
	select {
	case w.broadcasts <- b:
		return
	default:
	}

	timer := time.NewTimer(w.sinkTimeout)
	defer timer.Stop()
	select {
	case w.broadcasts <- b:
	case <-timer.C:
		w.log.Warn("Broadcast channel full, dropping event", "event", e.Name(), "targets", len(targets))
	}
}

func (w *PresenceFanout) Run(ctx context.Context) error {
	for {
		select {
		case b := <-w.broadcasts:
			w.Fanout(ctx, b)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence fanout")
			return nil
		}
	}
}

// Fanout delivers one broadcast to each target, one after the other.
// Every sink gets its own timeout so a stuck connection only delays, never blocks.
func (w *PresenceFanout) Fanout(ctx context.Context, b Broadcast) {
	for _, sink := range b.Targets {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, b.Event); err != nil {
			w.log.Debug("Broadcast not consumed", "event", b.Event.Name(), "error", err)
		}
		cancel()
	}
	if w.onDelivered != nil {
		w.onDelivered(len(b.Targets))
	}
}

// Pending is the number of broadcasts waiting in the buffer.
func (w *PresenceFanout) Pending() int {
	return len(w.broadcasts)
}

// Queue describes the broadcast buffer for capacity sampling.
func (w *PresenceFanout) Queue() NamedQueue {
	return NamedQueue{Name: "presence_broadcasts", Length: w.Pending, Capacity: cap(w.broadcasts)}
}
