package www

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handlers) apiFleet(w http.ResponseWriter, r *http.Request) {
	running := 0
	for _, st := range h.fleet.Snapshot() {
		if st.Running {
			running++
		}
	}
	writeJSON(w, map[string]any{
		"run_id":      h.fleet.RunID(),
		"seed":        h.fleet.Seed(),
		"robots":      h.fleet.Size(),
		"running":     running,
		"sse_clients": h.eventHub.Clients(),
		"uptime":      time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handlers) apiListRobots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.fleet.Snapshot())
}

func (h *Handlers) apiGetRobot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "robotID")
	st, ok := h.fleet.Robot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown robot "+id)
		return
	}
	writeJSON(w, st)
}

func (h *Handlers) apiCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.fleet.Catalog())
}
