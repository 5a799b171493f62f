package www

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"scanfleet/engine"
)

const (
	sseClientBuffer = 64
	sseKeepalive    = 30 * time.Second
)

// SSEEvent is one frame on the /events stream.
type SSEEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventHub streams fleet events to browsers. Fan-out happens on the emitting
// worker's goroutine, so a slow client loses events instead of stalling a robot.
type EventHub struct {
	mu      sync.RWMutex
	streams map[chan SSEEvent]struct{}
	closed  chan struct{}
	once    sync.Once

	bus   *engine.EventBus
	subID engine.SubscriberID
}

// NewEventHub creates a hub with no listeners.
func NewEventHub() *EventHub {
	return &EventHub{
		streams: make(map[chan SSEEvent]struct{}),
		closed:  make(chan struct{}),
	}
}

// Attach forwards every named fleet event on bus to connected streams.
func (h *EventHub) Attach(bus *engine.EventBus) {
	h.bus = bus
	h.subID = bus.Subscribe(func(evt engine.Event) {
		name := evt.Type.String()
		if name == "unknown" {
			return
		}
		h.Publish(SSEEvent{Type: name, Data: evt.Payload})
	})
	log.Printf("sse: streaming fleet events")
}

// Stop detaches from the bus and ends every open stream.
func (h *EventHub) Stop() {
	h.once.Do(func() {
		if h.bus != nil {
			h.bus.Unsubscribe(h.subID)
		}
		close(h.closed)
	})
}

// Publish queues evt on every stream that has room for it.
func (h *EventHub) Publish(evt SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.streams {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Clients returns the number of open streams.
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams)
}

func (h *EventHub) open() chan SSEEvent {
	ch := make(chan SSEEvent, sseClientBuffer)
	h.mu.Lock()
	h.streams[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) drop(ch chan SSEEvent) {
	h.mu.Lock()
	delete(h.streams, ch)
	h.mu.Unlock()
}

func writeFrame(w http.ResponseWriter, f http.Flusher, event string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	f.Flush()
}

// ServeHTTP streams events until the client disconnects or the hub stops.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")

	ch := h.open()
	defer h.drop(ch)
	writeFrame(w, flusher, "connected", []byte("{}"))

	ping := time.NewTicker(sseKeepalive)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closed:
			return
		case evt := <-ch:
			data, err := json.Marshal(evt.Data)
			if err != nil {
				log.Printf("sse: encode %s: %v", evt.Type, err)
				continue
			}
			writeFrame(w, flusher, evt.Type, data)
		case <-ping.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
