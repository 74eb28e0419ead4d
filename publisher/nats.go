package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/urban-transit-labs/trainwatch/tracking"
)

// StreamMetrics receives publish outcomes. Implemented by metrics.Collector.
type StreamMetrics interface {
	StreamPublishedInc()
	StreamPublishErrInc()
	StreamSetConnected(connected bool)
}

// NATSPublisher publishes one JSON message per train per recompute pass on
// subject <prefix>.<route>.<trip>.
type NATSPublisher struct {
	nc      *nats.Conn
	prefix  string
	metrics StreamMetrics
}

// NewNATSPublisher connects to the broker. metrics may be nil.
func NewNATSPublisher(url, subjectPrefix string, m StreamMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("trainwatch"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.StreamSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.StreamSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.StreamSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.StreamSetConnected(true)
	}
	return &NATSPublisher{nc: nc, prefix: subjectToken(subjectPrefix), metrics: m}, nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// PublishPositions publishes every position of one recompute pass.
func (p *NATSPublisher) PublishPositions(positions []tracking.TrainPosition) {
	for _, pos := range positions {
		if err := p.publish(pos); err != nil {
			if p.metrics != nil {
				p.metrics.StreamPublishErrInc()
			}
			log.Printf("publish error for %s: %v", pos.TripID, err)
			continue
		}
		if p.metrics != nil {
			p.metrics.StreamPublishedInc()
		}
	}
}

func (p *NATSPublisher) publish(pos tracking.TrainPosition) error {
	subject := fmt.Sprintf("%s.%s.%s", p.prefix, subjectToken(pos.RouteID), subjectToken(pos.TripID))
	b, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	return p.nc.Publish(subject, b)
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*', or '.'.
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
