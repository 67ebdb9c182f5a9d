// handlers/sheets_handler.go
package handlers

import (
	"net/http"

	"github.com/gewnthar/routeboard/models"
	"github.com/gin-gonic/gin"
)

// Bridge failures are reported in the body; the HTTP call itself succeeds.

func (h *Handler) SheetsExport(c *gin.Context) {
	respondWithJSON(c, http.StatusOK, h.sheets.Export(c.Request.Context()))
}

func (h *Handler) SheetsImport(c *gin.Context) {
	respondWithJSON(c, http.StatusOK, h.sheets.Import(c.Request.Context()))
}

func (h *Handler) SheetsStatus(c *gin.Context) {
	respondWithJSON(c, http.StatusOK, h.sheets.Status(c.Request.Context()))
}

func (h *Handler) SheetsRoutes(c *gin.Context) {
	routes, msg := h.sheets.Routes(c.Request.Context())
	respondWithJSON(c, http.StatusOK, struct {
		models.StatusMessage
		Routes []models.Route `json:"routes"`
	}{msg, routes})
}
