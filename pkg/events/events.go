// Package events publishes library changes to Kafka.
//
// [KafkaPublisher] implements observability.LibraryHooks. Register it at
// startup and every successful mutation of any library in the process is
// written as one JSON message:
//
//	pub := events.NewKafkaPublisher(events.Config{Brokers: brokers, Topic: "waypoints"}, logger)
//	defer pub.Close()
//	observability.SetLibraryHooks(pub)
//
// Messages are keyed by waypoint name, so all changes to one waypoint land
// on the same partition in order. Publishing is asynchronous: library
// operations never wait for the broker, and delivery errors are logged.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/observability"
	"github.com/matzehuels/waypoints/pkg/waypoint"
)

// DefaultTopic is used when Config.Topic is empty.
const DefaultTopic = "waypoints.changes"

// Config configures a [KafkaPublisher].
type Config struct {
	Brokers []string `toml:"brokers" yaml:"brokers" validate:"omitempty,dive,hostname_port"`
	Topic   string   `toml:"topic" yaml:"topic"`
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}

// Event is the message body written for one change.
type Event struct {
	ID       string             `json:"id"`
	Op       observability.Op   `json:"op"`
	Name     string             `json:"name,omitempty"`
	Count    int                `json:"count"`
	Waypoint *waypoint.Waypoint `json:"waypoint,omitempty"`
	At       time.Time          `json:"at"`
}

// NewEvent stamps c with a fresh id and the current time.
func NewEvent(c observability.Change) Event {
	return Event{
		ID:       uuid.NewString(),
		Op:       c.Op,
		Name:     c.Name,
		Count:    c.Count,
		Waypoint: c.Waypoint,
		At:       time.Now().UTC(),
	}
}

// Message encodes e as a Kafka message keyed by waypoint name.
func (e Event) Message() (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, errors.Wrap(errors.ErrCodeInternal, err, "encode event %s", e.ID)
	}
	return kafka.Message{
		Key:   []byte(e.Name),
		Value: value,
		Time:  e.At,
	}, nil
}

// MessageWriter is the part of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes library changes to a Kafka topic.
type KafkaPublisher struct {
	writer MessageWriter
	logger *log.Logger
}

// NewKafkaPublisher creates a publisher writing to cfg.Topic, or
// [DefaultTopic]. The brokers are dialed lazily on the first message.
func NewKafkaPublisher(cfg Config, logger *log.Logger) *KafkaPublisher {
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
	p := newPublisher(w, logger)
	w.Completion = func(msgs []kafka.Message, err error) {
		if err != nil {
			p.logger.Warn("publish failed", "topic", topic, "messages", len(msgs), "error", err)
		}
	}
	return p
}

func newPublisher(w MessageWriter, logger *log.Logger) *KafkaPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// OnChange implements observability.LibraryHooks.
func (p *KafkaPublisher) OnChange(c observability.Change) {
	ev := NewEvent(c)
	msg, err := ev.Message()
	if err != nil {
		p.logger.Error("drop event", "op", c.Op, "name", c.Name, "error", err)
		return
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Warn("publish failed", "op", c.Op, "name", c.Name, "error", err)
		return
	}
	p.logger.Debug("event queued", "id", ev.ID, "op", c.Op, "name", c.Name)
}

// Close flushes pending messages and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
