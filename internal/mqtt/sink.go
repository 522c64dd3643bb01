package mqtt

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/five82/thermo/internal/clock"
	"github.com/five82/thermo/internal/logging"
	"github.com/five82/thermo/internal/present"
)

// DefaultBuffer is the number of events a Sink queues before dropping.
const DefaultBuffer = 64

type queued struct {
	topic    string
	retained bool
	payload  []byte
}

// Sink is a present.Presenter that forwards events to a Client. Present never
// blocks: events are queued and published by a background goroutine, and
// dropped when the queue is full.
type Sink struct {
	client Client
	prefix string
	clk    clock.Clock
	logger logging.Logger

	queue   chan queued
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

var _ present.Presenter = (*Sink)(nil)

// NewSink starts a sink publishing under prefix. A non-positive buffer uses
// DefaultBuffer.
func NewSink(client Client, prefix string, buffer int, clk clock.Clock, logger logging.Logger) *Sink {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultTopic
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if clk == nil {
		clk = clock.Real
	}
	s := &Sink{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		clk:    clk,
		logger: logger.With("component", "mqtt"),
		queue:  make(chan queued, buffer),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Topic returns the topic e is published to.
func (s *Sink) Topic(e present.Event) string {
	return s.prefix + "/" + e.Kind()
}

// Present queues e for publishing.
func (s *Sink) Present(e present.Event) {
	if !Published(e) {
		return
	}
	payload, err := FormatPayload(e, s.clk.Now())
	if err != nil {
		s.logger.Warn("format payload failed", "event", e.Kind(), "err", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- queued{topic: s.Topic(e), retained: Retained(e), payload: payload}:
	default:
		if s.dropped.Add(1) == 1 {
			s.logger.Warn("publish queue full, dropping events", "capacity", cap(s.queue))
		}
	}
}

// Dropped returns how many events were discarded because the queue was full.
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

// Close publishes what is already queued, then closes the client.
func (s *Sink) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
		<-s.done
		err = s.client.Close()
	})
	return err
}

func (s *Sink) run() {
	defer close(s.done)
	for msg := range s.queue {
		// QoS 0 for the event stream, QoS 1 for retained state.
		var qos byte
		if msg.retained {
			qos = 1
		}
		if err := s.client.Publish(msg.topic, qos, msg.retained, msg.payload); err != nil {
			s.logger.Warn("publish failed", "topic", msg.topic, "err", err)
		}
	}
}
