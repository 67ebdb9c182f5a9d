// apiclient/routes.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gewnthar/routeboard/models"
)

const (
	routesPath = "/api/routes/"
	// maxPages bounds pagination in case the upstream keeps returning a next link.
	maxPages = 100
)

func routePath(id string) string {
	return routesPath + url.PathEscape(id) + "/"
}

// ListRoutes returns every route. Both the bare-array and the paginated
// list shapes are accepted; paginated responses are followed to the end.
func (c *Client) ListRoutes(ctx context.Context) ([]models.RoutePayload, error) {
	var all []models.RoutePayload
	next := routesPath
	for page := 0; next != "" && page < maxPages; page++ {
		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, next, nil, &raw); err != nil {
			return nil, fmt.Errorf("failed to list routes: %w", err)
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var list []models.RoutePayload
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("failed to decode route list: %w", err)
			}
			return append(all, list...), nil
		}

		var p models.RouteListPage
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("failed to decode route page: %w", err)
		}
		all = append(all, p.Results...)
		next = ""
		if p.Next != nil {
			next = *p.Next
		}
	}
	if all == nil {
		all = []models.RoutePayload{}
	}
	return all, nil
}

// CreateRoute POSTs a new route.
func (c *Client) CreateRoute(ctx context.Context, in models.RouteInput) (models.RoutePayload, error) {
	var out models.RoutePayload
	if err := c.do(ctx, http.MethodPost, routesPath, in, &out); err != nil {
		return models.RoutePayload{}, fmt.Errorf("failed to create route: %w", err)
	}
	return out, nil
}

// UpdateRoute replaces a route with PUT.
func (c *Client) UpdateRoute(ctx context.Context, id string, in models.RouteInput) (models.RoutePayload, error) {
	var out models.RoutePayload
	if err := c.do(ctx, http.MethodPut, routePath(id), in, &out); err != nil {
		return models.RoutePayload{}, fmt.Errorf("failed to update route %s: %w", id, err)
	}
	return out, nil
}

// SetRouteActive toggles a route's status with a partial PATCH.
func (c *Client) SetRouteActive(ctx context.Context, id string, active bool) (models.RoutePayload, error) {
	var out models.RoutePayload
	if err := c.do(ctx, http.MethodPatch, routePath(id), models.StatusPatch{IsActive: active}, &out); err != nil {
		return models.RoutePayload{}, fmt.Errorf("failed to set status of route %s: %w", id, err)
	}
	return out, nil
}

// DeleteRoute removes a route.
func (c *Client) DeleteRoute(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, routePath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete route %s: %w", id, err)
	}
	return nil
}
