// handlers/filter_handler.go
package handlers

import (
	"net/http"

	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/models"
	"github.com/gin-gonic/gin"
)

// Health reports the projection size and source. A failed last collect is
// reported as degraded; the panel keeps serving.
func (h *Handler) Health(c *gin.Context) {
	status := models.SyncStatus{
		Status:      models.SyncOK,
		Source:      h.sourceName,
		Routes:      h.store.Len(),
		CollectedAt: h.store.CollectedAt(),
	}
	if err := h.store.LastCollectError(); err != nil {
		status.Status = models.SyncDegraded
		status.LastError = err.Error()
	}
	respondWithJSON(c, http.StatusOK, status)
}

// FilterOptions returns the vocabularies behind the filter selects.
func (h *Handler) FilterOptions(c *gin.Context) {
	dates := make([]string, 0, len(filter.DateRanges))
	for _, d := range filter.DateRanges {
		dates = append(dates, string(d))
	}
	respondWithJSON(c, http.StatusOK, gin.H{
		"difficulty": h.store.Vocabulary(filter.FieldDifficulty),
		"lane":       h.store.Vocabulary(filter.FieldLane),
		"author":     h.store.Vocabulary(filter.FieldAuthor),
		"color":      h.store.Vocabulary(filter.FieldColor),
		"date":       dates,
	})
}

// QueryRoutes evaluates the criteria in the query string without changing the shared view.
func (h *Handler) QueryRoutes(c *gin.Context) {
	criteria := filter.CriteriaFromQuery(c.Request.URL.Query())
	respondWithJSON(c, http.StatusOK, h.store.Query(criteria))
}

// CurrentFilters returns the shared view left by the last apply or clear.
func (h *Handler) CurrentFilters(c *gin.Context) {
	respondWithJSON(c, http.StatusOK, h.store.Current())
}

// ApplyFilters sets the shared view from a JSON criteria body. An empty body clears it.
func (h *Handler) ApplyFilters(c *gin.Context) {
	var criteria filter.Criteria
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&criteria); err != nil {
			respondWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}
	respondWithJSON(c, http.StatusOK, h.store.ApplyFilters(criteria))
}

// ClearFilters resets the shared view.
func (h *Handler) ClearFilters(c *gin.Context) {
	respondWithJSON(c, http.StatusOK, h.store.Clear())
}

// Refresh rebuilds the projection from the source.
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.store.Collect(c.Request.Context()); err != nil {
		respondWithError(c, http.StatusBadGateway, err.Error())
		return
	}
	respondWithJSON(c, http.StatusOK, gin.H{
		"routes":       h.store.Len(),
		"collected_at": h.store.CollectedAt(),
	})
}
