package workers

import (
	"chat-relay/contract"
	"context"
	"log/slog"
	"time"
)

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

// NamedQueue exposes the fill level of a buffered channel.
type NamedQueue struct {
	Name     string
	Length   func() int
	Capacity int
}

// ChannelCapacityWorker periodically reports the length and capacity of queues.
// Reading len(channel) is non-blocking so sampling never interferes with the
// producers; a value is only a snapshot.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	queues         []NamedQueue
	report         func(name string, length, capacity int)
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, queues []NamedQueue,
	report func(name string, length, capacity int), metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		queues:         queues,
		report:         report,
		metricInterval: metricInterval,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel capacity sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample reports every queue once.
func (w *ChannelCapacityWorker) Sample() {
	for _, q := range w.queues {
		w.report(q.Name, q.Length(), q.Capacity)
	}
}
