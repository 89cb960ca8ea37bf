// Package events fans game events out over NATS so other services
// (stream overlays, bots, analytics) can follow a match.
package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/clickwar-arcade/clickwar/internal/domain"
)

// DefaultSubjectPrefix is used when none is configured.
const DefaultSubjectPrefix = "clickwar"

// conn is the slice of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher publishes every GameEvent to <prefix>.<event type>.
// It implements domain.EventSink.
type Publisher struct {
	nc     conn
	prefix string
}

// Connect dials the NATS server at url.
func Connect(url, name string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[events] disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[events] reconnected to %s", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}

// NewPublisher wraps an established connection.
func NewPublisher(nc *nats.Conn, prefix string) *Publisher {
	return newPublisher(nc, prefix)
}

func newPublisher(nc conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{nc: nc, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(t domain.EventType) string {
	return p.prefix + "." + string(t)
}

// Publish implements domain.EventSink. Failures are logged, never returned:
// the game must not stall on a broker outage.
func (p *Publisher) Publish(ev domain.GameEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[events] marshal %s: %v", ev.Type, err)
		return
	}
	if err := p.nc.Publish(p.Subject(ev.Type), data); err != nil {
		log.Printf("[events] publish %s: %v", ev.Type, err)
	}
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
