// Package events broadcasts application events to live subscribers, such as
// the server-sent event stream of the HTTP API.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/mrlokans/linkshelf/internal/notify"
)

const (
	BookmarksUpdated = "bookmarks-updated"
	Notification     = "notification"
	ParsersReloaded  = "parsers-reloaded"
)

const defaultBuffer = 16

type Event struct {
	Name string    `json:"name"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// Broker delivers each published event to every current subscriber. A slow
// subscriber whose buffer is full misses events instead of blocking Publish.
type Broker struct {
	mu       sync.Mutex
	watchers map[uint64]chan Event
	nextID   uint64
	buffer   int
}

func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = defaultBuffer
	}
	return &Broker{
		watchers: make(map[uint64]chan Event),
		buffer:   buffer,
	}
}

// Subscribe returns a channel of events that is closed once ctx is done.
func (b *Broker) Subscribe(ctx context.Context) <-chan Event {
	if err := ctx.Err(); err != nil {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// Publish sends an event to every subscriber without blocking.
func (b *Broker) Publish(name string, data any) {
	evt := Event{Name: name, Data: data, At: time.Now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watchers)
}

// BookmarksUpdated publishes the import pipeline's completion event.
func (b *Broker) BookmarksUpdated(count int) {
	b.Publish(BookmarksUpdated, map[string]int{"count": count})
}

// Notify forwards a notification to live subscribers.
func (b *Broker) Notify(_ context.Context, msg notify.Message) {
	b.Publish(Notification, msg)
}
