// services/sources.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gewnthar/routeboard/config"
	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/scraper"
)

// RouteLister lists routes over the upstream REST API.
type RouteLister interface {
	ListRoutes(ctx context.Context) ([]models.RoutePayload, error)
}

// SheetsRouteLister reads routes held in the spreadsheet bridge.
type SheetsRouteLister interface {
	SheetsRoutes(ctx context.Context) (models.SheetsRoutes, error)
}

// PageFetcher downloads a server-rendered page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// RouteReader reads routes from the upstream database.
type RouteReader interface {
	GetAllRoutes(ctx context.Context) ([]models.Route, error)
}

// UpstreamLister can list routes both from the API and from the spreadsheet bridge.
type UpstreamLister interface {
	RouteLister
	SheetsRouteLister
}

// NamedSource is a filter.Source that can describe itself in health output.
type NamedSource interface {
	filter.Source
	Name() string
}

// APISource collects routes from GET /api/routes/.
type APISource struct{ Client RouteLister }

func (s APISource) Name() string { return config.SourceAPI }

func (s APISource) FetchRoutes(ctx context.Context) ([]models.Route, error) {
	payloads, err := s.Client.ListRoutes(ctx)
	if err != nil {
		return nil, err
	}
	return models.RoutesFromPayloads(payloads), nil
}

// TableSource collects routes from the upstream's server-rendered routes table.
type TableSource struct {
	Fetcher PageFetcher
	PageURL string
}

func (s TableSource) Name() string { return config.SourceTable }

func (s TableSource) FetchRoutes(ctx context.Context) ([]models.Route, error) {
	page, err := s.Fetcher.Fetch(ctx, s.PageURL)
	if err != nil {
		return nil, err
	}
	return scraper.ParseRoutesTable(bytes.NewReader(page))
}

// SheetsSource collects routes from the spreadsheet bridge.
type SheetsSource struct{ Client SheetsRouteLister }

func (s SheetsSource) Name() string { return config.SourceSheets }

func (s SheetsSource) FetchRoutes(ctx context.Context) ([]models.Route, error) {
	res, err := s.Client.SheetsRoutes(ctx)
	if err != nil {
		return nil, err
	}
	return models.RoutesFromPayloads(res.Routes), nil
}

// DBSource collects routes straight from the upstream database.
type DBSource struct{ Store RouteReader }

func (s DBSource) Name() string { return config.SourceDB }

func (s DBSource) FetchRoutes(ctx context.Context) ([]models.Route, error) {
	return s.Store.GetAllRoutes(ctx)
}

// SourceDeps carries what the individual sources need. Only the one matching
// the configured kind must be set.
type SourceDeps struct {
	API     UpstreamLister
	Fetcher PageFetcher
	PageURL string
	DB      RouteReader
}

// NewSource returns the route source for kind.
func NewSource(kind string, deps SourceDeps) (NamedSource, error) {
	switch strings.ToLower(kind) {
	case config.SourceAPI:
		if deps.API == nil {
			return nil, fmt.Errorf("source %q needs an upstream client", kind)
		}
		return APISource{Client: deps.API}, nil
	case config.SourceSheets:
		if deps.API == nil {
			return nil, fmt.Errorf("source %q needs an upstream client", kind)
		}
		return SheetsSource{Client: deps.API}, nil
	case config.SourceTable:
		if deps.Fetcher == nil || deps.PageURL == "" {
			return nil, fmt.Errorf("source %q needs a page fetcher and url", kind)
		}
		return TableSource{Fetcher: deps.Fetcher, PageURL: deps.PageURL}, nil
	case config.SourceDB:
		if deps.DB == nil {
			return nil, fmt.Errorf("source %q needs a database", kind)
		}
		return DBSource{Store: deps.DB}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}
