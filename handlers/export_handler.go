// handlers/export_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/spreadsheet"
	"github.com/gin-gonic/gin"
)

const (
	statusActive   = "active"
	statusInactive = "inactive"
	statusAll      = "all"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// exportRoutes returns the routes matching the query's filter criteria and
// status (active by default).
func (h *Handler) exportRoutes(c *gin.Context) ([]models.Route, bool) {
	status := strings.ToLower(c.DefaultQuery("status", statusActive))
	switch status {
	case statusActive, statusInactive, statusAll:
	default:
		respondWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid status %q, expected active, inactive or all", status))
		return nil, false
	}

	res := h.store.Query(filter.CriteriaFromQuery(c.Request.URL.Query()))
	routes := make([]models.Route, 0, len(res.Routes))
	for _, r := range res.Routes {
		if status == statusAll || r.IsActive == (status == statusActive) {
			routes = append(routes, r)
		}
	}
	return routes, true
}

func exportFilename(ext string) string {
	return fmt.Sprintf("routes_%s.%s", time.Now().Format("20060102_150405"), ext)
}

// ExportCSV downloads the filtered routes as CSV.
func (h *Handler) ExportCSV(c *gin.Context) {
	routes, ok := h.exportRoutes(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteCSV(&buf, routes); err != nil {
		respondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX downloads the filtered routes as an XLSX workbook.
func (h *Handler) ExportXLSX(c *gin.Context) {
	routes, ok := h.exportRoutes(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.WriteXLSX(&buf, routes); err != nil {
		respondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename("xlsx")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// errUnsupportedUpload rejects files that are neither .csv nor .xlsx.
var errUnsupportedUpload = errors.New("unsupported file type, expected .csv or .xlsx")

// readUpload parses the .csv or .xlsx file posted in the "file" field.
func readUpload(c *gin.Context) (spreadsheet.ParseResult, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return spreadsheet.ParseResult{}, "", fmt.Errorf("missing 'file' upload: %w", err)
	}
	file, err := header.Open()
	if err != nil {
		return spreadsheet.ParseResult{}, header.Filename, fmt.Errorf("could not open upload: %w", err)
	}
	defer file.Close()

	var parsed spreadsheet.ParseResult
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		parsed, err = spreadsheet.ReadCSV(file)
	case ".xlsx":
		parsed, err = spreadsheet.ReadXLSX(file)
	default:
		return spreadsheet.ParseResult{}, header.Filename, errUnsupportedUpload
	}
	return parsed, header.Filename, err
}

// ImportFile creates routes from an uploaded .csv or .xlsx file in the "file" field.
func (h *Handler) ImportFile(c *gin.Context) {
	parsed, filename, err := readUpload(c)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.admin.ImportRoutes(c.Request.Context(), parsed)
	if err != nil {
		respondWithServiceError(c, err)
		return
	}
	log.WithField("file", filename).WithField("imported", summary.Imported).Info("Route file imported")
	respondWithJSON(c, http.StatusOK, summary)
}
