package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkshelf/internal/events"
)

const keepAliveInterval = 30 * time.Second

type EventsController struct {
	broker *events.Broker
}

func NewEventsController(broker *events.Broker) *EventsController {
	return &EventsController{broker: broker}
}

// Stream pushes broker events to the client as server-sent events until the
// client disconnects.
// GET /api/events
func (ec *EventsController) Stream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	stream := ec.broker.Subscribe(c.Request.Context())
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-stream:
			if !ok {
				return false
			}
			c.SSEvent(event.Name, event)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
