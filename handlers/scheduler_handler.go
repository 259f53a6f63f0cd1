package handlers

import "net/http"

// SchedulerStatus reports which posting slots executed today and which are
// still pending, for operator inspection.
func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.scheduler.Status())
}
