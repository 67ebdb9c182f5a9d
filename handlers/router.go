// handlers/router.go
package handlers

import (
	"context"
	"io"

	"github.com/gewnthar/routeboard/config"
	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/spreadsheet"
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

// RouteAdmin performs validated route mutations followed by a resync.
type RouteAdmin interface {
	CreateRoute(ctx context.Context, r models.Route) (models.MutationResult, error)
	UpdateRoute(ctx context.Context, id string, r models.Route) (models.MutationResult, error)
	SetActive(ctx context.Context, id string, active bool) (models.MutationResult, error)
	DeleteRoute(ctx context.Context, id string) (models.MutationResult, error)
	ImportRoutes(ctx context.Context, parsed spreadsheet.ParseResult) (models.ImportSummary, error)
}

// SheetsBridge wraps the upstream spreadsheet bridge.
type SheetsBridge interface {
	Export(ctx context.Context) models.StatusMessage
	Import(ctx context.Context) models.StatusMessage
	Status(ctx context.Context) models.StatusMessage
	Routes(ctx context.Context) ([]models.Route, models.StatusMessage)
}

// Handler serves the admin panel and its JSON API.
type Handler struct {
	store      *filter.Store
	admin      RouteAdmin
	sheets     SheetsBridge
	sourceName string
}

func NewHandler(store *filter.Store, admin RouteAdmin, sheets SheetsBridge, sourceName string) *Handler {
	return &Handler{store: store, admin: admin, sheets: sheets, sourceName: sourceName}
}

// maxUploadBytes bounds multipart memory for route imports.
const maxUploadBytes = 10 << 20

// NewRouter registers every route. accessLog receives one line per request; nil disables it.
// The HTML panel under /admin is CSRF-protected with server.CSRFKey.
func NewRouter(h *Handler, server config.ServerConfig, accessLog io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if accessLog != nil {
		r.Use(ginlogger.SetLogger(
			ginlogger.WithWriter(accessLog),
			ginlogger.WithSkipPath([]string{"/api/health"}),
		))
	}
	r.MaxMultipartMemory = maxUploadBytes

	r.GET("/api/health", h.Health)

	admin := r.Group("/admin", CSRF(server))
	{
		admin.GET("/routes", h.RoutesPage)
		admin.POST("/routes/import", h.ImportForm)
		admin.POST("/refresh", h.RefreshForm)
		admin.POST("/sheets/export", h.SheetsExportForm)
		admin.POST("/sheets/import", h.SheetsImportForm)
		admin.POST("/routes/:id/toggle", h.ToggleForm)
		admin.POST("/routes/:id/delete", h.DeleteForm)
	}

	filters := r.Group("/api/filters")
	{
		filters.GET("/options", h.FilterOptions)
		filters.GET("/routes", h.QueryRoutes)
		filters.GET("/current", h.CurrentFilters)
		filters.POST("/apply", h.ApplyFilters)
		filters.POST("/clear", h.ClearFilters)
		filters.POST("/refresh", h.Refresh)
	}

	routes := r.Group("/api/routes")
	{
		routes.GET("/export.csv", h.ExportCSV)
		routes.GET("/export.xlsx", h.ExportXLSX)
		routes.POST("/import", h.ImportFile)
		routes.POST("", h.CreateRoute)
		routes.PUT("/:id", h.UpdateRoute)
		routes.PATCH("/:id", h.SetRouteStatus)
		routes.DELETE("/:id", h.DeleteRoute)
	}

	sheets := r.Group("/api/google-sheets")
	{
		sheets.POST("/export", h.SheetsExport)
		sheets.POST("/import", h.SheetsImport)
		sheets.GET("/status", h.SheetsStatus)
		sheets.GET("/routes", h.SheetsRoutes)
	}
	return r
}
