// Package notify delivers user-facing messages about imports and parser
// changes. A Notifier never fails from the caller's point of view: delivery
// problems are logged by the implementation.
package notify

import (
	"context"
	"log"

	"github.com/mrlokans/linkshelf/internal/entities"
)

// Message is one notification.
type Message struct {
	Level  entities.NotificationLevel `json:"level"`
	Title  string                     `json:"title"`
	Body   string                     `json:"body"`
	Source string                     `json:"source,omitempty"`
	RunID  string                     `json:"run_id,omitempty"`
}

func Info(title, body string) Message {
	return Message{Level: entities.NotificationInfo, Title: title, Body: body}
}

func Warning(title, body string) Message {
	return Message{Level: entities.NotificationWarning, Title: title, Body: body}
}

func Error(title, body string) Message {
	return Message{Level: entities.NotificationError, Title: title, Body: body}
}

// WithRun tags the message with a run id and a source name.
func (m Message) WithRun(runID, source string) Message {
	m.RunID = runID
	m.Source = source
	return m
}

type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// LogNotifier writes messages to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) {
	if msg.RunID != "" {
		log.Printf("[NOTIFY] %s [%s] %s: %s", msg.Level, msg.RunID, msg.Title, msg.Body)
		return
	}
	log.Printf("[NOTIFY] %s %s: %s", msg.Level, msg.Title, msg.Body)
}

// Multi fans a message out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, msg)
		}
	}
}

// Recorder keeps every message in memory. Tests use it to assert on what was
// sent.
type Recorder struct {
	Messages []Message
}

func (r *Recorder) Notify(_ context.Context, msg Message) {
	r.Messages = append(r.Messages, msg)
}
