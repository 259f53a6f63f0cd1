package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/services"
)

type Handler struct {
	scheduler *services.Scheduler
	blog      *services.BlogScheduler
}

func NewHandler(scheduler *services.Scheduler, blog *services.BlogScheduler) *Handler {
	return &Handler{
		scheduler: scheduler,
		blog:      blog,
	}
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}
