package handlers

import (
	"net/http"

	"github.com/cryptocreeper94-sudo/paintpros-scheduler/models"
)

// GenerateBlogPosts is the operator catch-up trigger: force one generation
// pass now, for a single tenant (?tenant=) or for every enabled tenant,
// bypassing the weekly quota.
func (h *Handler) GenerateBlogPosts(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant")

	generated, err := h.blog.RunNow(r.Context(), tenantID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if generated == nil {
		generated = []*models.BlogPost{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"generated": generated,
		"count":     len(generated),
	})
}
