// handlers/route_handler.go
package handlers

import (
	"net/http"

	"github.com/gewnthar/routeboard/models"
	"github.com/gin-gonic/gin"
)

func bindRoute(c *gin.Context) (models.Route, bool) {
	var payload models.RoutePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return models.Route{}, false
	}
	return payload.ToRoute(0), true
}

// CreateRoute validates the body and creates the route upstream.
// Expects POST /api/routes with a route JSON body.
func (h *Handler) CreateRoute(c *gin.Context) {
	route, ok := bindRoute(c)
	if !ok {
		return
	}
	res, err := h.admin.CreateRoute(c.Request.Context(), route)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithJSON(c, http.StatusCreated, res)
}

// UpdateRoute replaces a route. Expects PUT /api/routes/:id.
func (h *Handler) UpdateRoute(c *gin.Context) {
	route, ok := bindRoute(c)
	if !ok {
		return
	}
	res, err := h.admin.UpdateRoute(c.Request.Context(), c.Param("id"), route)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithJSON(c, http.StatusOK, res)
}

type statusRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetRouteStatus toggles a route. Expects PATCH /api/routes/:id with {"is_active": bool}.
func (h *Handler) SetRouteStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.IsActive == nil {
		respondWithError(c, http.StatusBadRequest, "Missing 'is_active' in request body")
		return
	}
	res, err := h.admin.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithJSON(c, http.StatusOK, res)
}

// DeleteRoute removes a route. Expects DELETE /api/routes/:id.
func (h *Handler) DeleteRoute(c *gin.Context) {
	res, err := h.admin.DeleteRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	respondWithJSON(c, http.StatusOK, res)
}
