package events

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/matzehuels/waypoints/pkg/library"
	"github.com/matzehuels/waypoints/pkg/observability"
	"github.com/matzehuels/waypoints/pkg/waypoint"
)

// mockWriter records messages instead of sending them to a broker.
type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

func TestEventMessage(t *testing.T) {
	w := waypoint.New(1.5, 2, 3, "summit", "top")
	ev := NewEvent(observability.Change{Op: observability.OpAdd, Name: "summit", Waypoint: &w, Count: 1})

	if _, err := uuid.Parse(ev.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", ev.ID, err)
	}

	msg, err := ev.Message()
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if string(msg.Key) != "summit" {
		t.Errorf("Key = %q, want summit", msg.Key)
	}

	var got map[string]any
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("message value is not JSON: %v", err)
	}
	if got["op"] != "add" || got["name"] != "summit" || got["id"] != ev.ID {
		t.Errorf("unexpected body %s", msg.Value)
	}
	wp, ok := got["waypoint"].(map[string]any)
	if !ok || wp["lat"] != 1.5 || wp["address"] != "top" {
		t.Errorf("unexpected waypoint %v", got["waypoint"])
	}
}

func TestEventMessageOmitsEmpty(t *testing.T) {
	msg, err := NewEvent(observability.Change{Op: observability.OpClear, Count: 4}).Message()
	if err != nil {
		t.Fatal(err)
	}
	body := string(msg.Value)
	if strings.Contains(body, `"waypoint"`) || strings.Contains(body, `"name"`) {
		t.Errorf("clear event should omit name and waypoint: %s", body)
	}
	if !strings.Contains(body, `"count":4`) {
		t.Errorf("clear event should carry the count: %s", body)
	}
}

func TestPublisherReceivesLibraryChanges(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	mw := &mockWriter{}
	pub := newPublisher(mw, log.New(&bytes.Buffer{}))
	observability.SetLibraryHooks(pub)

	l := library.New()
	_ = l.AddNew("1", "2", "3", "a", "")
	_ = l.Update("4", "5", "6", "a", "moved")
	l.Remove("a")

	if len(mw.messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(mw.messages))
	}
	for i, op := range []string{"add", "update", "remove"} {
		var ev Event
		if err := json.Unmarshal(mw.messages[i].Value, &ev); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if string(ev.Op) != op || ev.Name != "a" {
			t.Errorf("message %d = %+v, want op %s", i, ev, op)
		}
	}

	if err := pub.Close(); err != nil || !mw.closed {
		t.Errorf("Close() = %v, closed = %v", err, mw.closed)
	}
}

func TestPublisherLogsWriteErrors(t *testing.T) {
	var buf bytes.Buffer
	mw := &mockWriter{err: stderrors.New("broker down")}
	pub := newPublisher(mw, log.New(&buf))

	pub.OnChange(observability.Change{Op: observability.OpRemove, Name: "a", Count: 1})

	if !strings.Contains(buf.String(), "broker down") {
		t.Errorf("log output %q should mention the write error", buf.String())
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty config should be disabled")
	}
	if !(Config{Brokers: []string{"localhost:9092"}}).Enabled() {
		t.Error("config with brokers should be enabled")
	}
}

func TestNewKafkaPublisherDefaults(t *testing.T) {
	pub := NewKafkaPublisher(Config{Brokers: []string{"localhost:9092"}}, nil)
	w, ok := pub.writer.(*kafka.Writer)
	if !ok {
		t.Fatalf("writer is %T", pub.writer)
	}
	if w.Topic != DefaultTopic {
		t.Errorf("Topic = %q, want %q", w.Topic, DefaultTopic)
	}
	if !w.Async {
		t.Error("writer should be asynchronous")
	}
}
