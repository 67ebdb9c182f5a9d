// handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gewnthar/routeboard/apiclient"
	"github.com/gewnthar/routeboard/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "handler")

func respondWithJSON(c *gin.Context, code int, payload interface{}) {
	c.JSON(code, payload)
}

func respondWithError(c *gin.Context, code int, message string) {
	log.WithField("status", code).WithField("path", c.FullPath()).Warn(message)
	respondWithJSON(c, code, gin.H{"error": message})
}

// respondWithServiceError maps validation and upstream errors to HTTP responses.
// Validation failures are 400 with the offending field. Upstream 400 and 404
// pass through; any other upstream failure is a 502.
func respondWithServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		log.WithField("field", verr.Field).Info("Rejected invalid route")
		respondWithJSON(c, http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case apiclient.IsNotFound(err):
		respondWithError(c, http.StatusNotFound, err.Error())
	case apiclient.StatusCode(err) == http.StatusBadRequest:
		respondWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.WithField("upstream_status", apiclient.StatusCode(err)).WithError(err).Error("Upstream call failed")
		respondWithError(c, http.StatusBadGateway, err.Error())
	}
}
