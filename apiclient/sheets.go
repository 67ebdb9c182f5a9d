// apiclient/sheets.go
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gewnthar/routeboard/models"
)

const sheetsPath = "/api/google-sheets/"

// ExportToSheets asks the upstream server to push all routes to the spreadsheet.
func (c *Client) ExportToSheets(ctx context.Context) (models.SheetsResult, error) {
	var out models.SheetsResult
	if err := c.do(ctx, http.MethodPost, sheetsPath+"export/", nil, &out); err != nil {
		return models.SheetsResult{}, fmt.Errorf("failed to export to sheets: %w", err)
	}
	return out, nil
}

// ImportFromSheets asks the upstream server to create routes from the spreadsheet.
func (c *Client) ImportFromSheets(ctx context.Context) (models.SheetsResult, error) {
	var out models.SheetsResult
	if err := c.do(ctx, http.MethodPost, sheetsPath+"import/", nil, &out); err != nil {
		return models.SheetsResult{}, fmt.Errorf("failed to import from sheets: %w", err)
	}
	return out, nil
}

// SheetsStatus reports the spreadsheet connection state. The upstream answers
// "disconnected" and "error" with 4xx/5xx codes but a regular body, so any
// response carrying a status field is returned without error.
func (c *Client) SheetsStatus(ctx context.Context) (models.SheetsStatus, error) {
	status, raw, err := c.send(ctx, http.MethodGet, sheetsPath+"status/", nil)
	if err != nil {
		return models.SheetsStatus{}, fmt.Errorf("failed to get sheets status: %w", err)
	}
	var out models.SheetsStatus
	if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil && out.Status != "" {
		return out, nil
	}
	if status < 200 || status > 299 {
		return models.SheetsStatus{}, fmt.Errorf("failed to get sheets status: %w", &APIError{StatusCode: status, Message: errorMessage(raw)})
	}
	return models.SheetsStatus{}, fmt.Errorf("failed to get sheets status: empty status in response")
}

// SheetsRoutes returns the routes currently stored in the spreadsheet.
func (c *Client) SheetsRoutes(ctx context.Context) (models.SheetsRoutes, error) {
	var out models.SheetsRoutes
	if err := c.do(ctx, http.MethodGet, sheetsPath+"routes/", nil, &out); err != nil {
		return models.SheetsRoutes{}, fmt.Errorf("failed to get sheets routes: %w", err)
	}
	if out.Routes == nil {
		out.Routes = []models.RoutePayload{}
	}
	return out, nil
}
