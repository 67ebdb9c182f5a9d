// models/api_models.go
package models

// RouteListPage is the paginated list shape of GET /api/routes/.
// Unpaginated deployments return a bare JSON array instead.
type RouteListPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []RoutePayload `json:"results"`
}

// StatusPatch is the partial update used to toggle a route's status.
type StatusPatch struct {
	IsActive bool `json:"is_active"`
}

// SheetsResult is the response of the spreadsheet bridge export and import endpoints.
type SheetsResult struct {
	Message       string        `json:"message,omitempty"`
	Error         string        `json:"error,omitempty"`
	ExportedCount int           `json:"exported_count,omitempty"`
	ImportedCount int           `json:"imported_count,omitempty"`
	Errors        []ImportError `json:"errors,omitempty"`
}

// SheetsStatus is the response of GET /api/google-sheets/status/.
type SheetsStatus struct {
	Status  string `json:"status"` // connected, disconnected, error
	Message string `json:"message"`
}

// SheetsRoutes is the response of GET /api/google-sheets/routes/.
type SheetsRoutes struct {
	Routes  []RoutePayload `json:"routes"`
	Count   int            `json:"count"`
	Source  string         `json:"source"`
	Message string         `json:"message,omitempty"`
}

// Status message levels, mirroring the alert styles of the panel.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// StatusMessage is what the panel shows after a best-effort external call.
type StatusMessage struct {
	OK      bool   `json:"ok"`
	Level   string `json:"level"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// ImportError describes one rejected row of an import.
type ImportError struct {
	Row    int                 `json:"row,omitempty"`
	Route  string              `json:"route"`
	Error  string              `json:"error,omitempty"`
	Fields map[string][]string `json:"errors,omitempty"` // per-field validation messages
}

// ImportSummary is the outcome of a file import.
type ImportSummary struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
	Resynced bool          `json:"resynced"`
}

// MutationResult is returned after a create, update, status toggle or delete.
// A successful mutation is always followed by a full resynchronization of the projection.
type MutationResult struct {
	Route       *Route `json:"route,omitempty"`
	Resynced    bool   `json:"resynced"`
	ResyncError string `json:"resync_error,omitempty"`
}
