package statusapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/stackwatch/internal/aggregate"
	"github.com/angeloszaimis/stackwatch/internal/scheduler"
	"github.com/angeloszaimis/stackwatch/internal/stats"
)

// Handler serves the dashboard's data over HTTP so the same snapshot
// the terminal shows can be scraped by other tools.
type Handler struct {
	logger    *slog.Logger
	scheduler *scheduler.Scheduler
	collector *stats.Collector
}

func New(logger *slog.Logger, sched *scheduler.Scheduler, collector *stats.Collector) *Handler {
	return &Handler{
		logger:    logger,
		scheduler: sched,
		collector: collector,
	}
}

type statusResponse struct {
	FirstLoad bool               `json:"first_load"`
	Services  []aggregate.Status `json:"services"`
}

// Status returns the latest applied result set in spec order, plus the
// first-load flag while no cycle has completed yet.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	statuses, firstLoad := h.scheduler.Snapshot()

	resp := statusResponse{
		FirstLoad: firstLoad,
		Services:  statuses,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode status response", slog.Any("err", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Stats returns rolling per-service probe statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	snap := h.collector.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		h.logger.Error("Failed to encode stats response", slog.Any("err", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
