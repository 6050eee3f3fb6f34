package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Event topic constants
const (
	TopicTermAdded   = "glossary.term.added"
	TopicTermUpdated = "glossary.term.updated"
	TopicTermDeleted = "glossary.term.deleted"

	// TopicTermAll matches every term event.
	TopicTermAll = "glossary.term.>"
)

// TermChanged is the payload of every term event. Receivers only learn the
// name; they resync to pick up the new content.
type TermChanged struct {
	Name   string `json:"name"`
	Origin string `json:"origin,omitempty"` // publishing client, so it can skip its own echoes
}

// DecodeTermChanged parses a term event payload.
func DecodeTermChanged(data []byte) (TermChanged, error) {
	var ev TermChanged
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("decoding term event: %w", err)
	}
	if strings.TrimSpace(ev.Name) == "" {
		return ev, fmt.Errorf("decoding term event: missing name")
	}
	return ev, nil
}

// Publisher announces term changes to other clients.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives raw event payloads. Subscribe accepts NATS wildcards;
// call the returned cancel function to unsubscribe and close the channel.
type Subscriber interface {
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// NoopPublisher discards every event. It is used when no event bus is
// configured; other clients then only see changes on their next reload.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }
func (*NoopPublisher) Close() error                                 { return nil }
