package daemon

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthwatcher/gluco/pkg/events"
)

var hub = events.NewEventHub()

func publish(name string, payload any) {
	logrus.WithField("event", name).Debug("new event")
	hub.Publish(name, payload)
}

func publishEstimate(source string, input float64, bpm int, glucose float64) {
	report.Add(glucose)
	publish(events.Estimate, events.EstimateEvent{
		Source:  source,
		Input:   input,
		BPM:     bpm,
		Glucose: glucose,
		Ts:      time.Now().Unix(),
	})
}

// streamEvents holds the connection open and writes every published event
// as a server-sent event until the client goes away or the hub is closed.
func streamEvents(c *gin.Context) {
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
