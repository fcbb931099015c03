package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthwatcher/gluco/pkg/events"
)

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		": keep-alive",
		"event:estimate",
		`data:{"source":"spo2","input":95,"glucose":121}`,
		"",
		"",
		"event: coefficients.updated",
		`data: {"slope":100,`,
		`data: "intercept":50}`,
		"",
		"event:combined.reset",
		`data:{"ts":1}`,
		"",
		"",
	}, "\n")

	var got []events.Event
	err := readEvents(strings.NewReader(stream), func(ev events.Event) bool {
		got = append(got, ev)
		return true
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, events.Estimate, got[0].Name)
	p, err := events.DecodeAs[events.EstimateEvent](got[0])
	require.NoError(t, err)
	assert.Equal(t, 121.0, p.Glucose)

	assert.Equal(t, events.CoefficientsUpdated, got[1].Name)
	coef, err := events.DecodeAs[events.CoefficientsEvent](got[1])
	require.NoError(t, err)
	assert.Equal(t, 100.0, coef.Slope)
	assert.Equal(t, 50.0, coef.Intercept)

	assert.Equal(t, events.CombinedReset, got[2].Name)
}

func TestReadEventsStopsEarly(t *testing.T) {
	stream := "event:a\ndata:{}\n\nevent:b\ndata:{}\n\n"
	n := 0
	err := readEvents(strings.NewReader(stream), func(events.Event) bool {
		n++
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubscribeEvents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event:estimate\ndata:{\"source\":\"ppg\",\"input\":1.5,\"glucose\":125}\n\n")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := c.SubscribeEvents(ctx)
	require.NoError(t, err)

	select {
	case ev := <-ch:
		p, err := events.DecodeAs[events.EstimateEvent](ev)
		require.NoError(t, err)
		assert.Equal(t, events.SourcePPG, p.Source)
		assert.Equal(t, 125.0, p.Glucose)
	case <-time.After(5 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestSubscribeEventsNotFound(t *testing.T) {
	c := newTestClient(t, http.NotFound)
	_, err := c.SubscribeEvents(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
