package www

import (
	"net/http"
	"time"

	"scanfleet/engine"
	"scanfleet/fleet"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	fleet    *fleet.Supervisor
	eventHub *EventHub
	started  time.Time
}

// NewRouter creates the chi router and returns it along with a stop function.
func NewRouter(sup *fleet.Supervisor, bus *engine.EventBus) (http.Handler, func()) {
	h := &Handlers{
		fleet:    sup,
		eventHub: NewEventHub(),
		started:  time.Now(),
	}

	h.eventHub.Attach(bus)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", h.handleHealth)
	r.Method(http.MethodGet, "/events", h.eventHub)

	r.Route("/api", func(r chi.Router) {
		r.Get("/fleet", h.apiFleet)
		r.Get("/robots", h.apiListRobots)
		r.Get("/robots/{robotID}", h.apiGetRobot)
		r.Get("/catalog", h.apiCatalog)
	})

	return r, func() {
		h.eventHub.Stop()
	}
}
