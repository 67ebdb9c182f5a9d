// handlers/admin_handler.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gewnthar/routeboard/filter"
	"github.com/gewnthar/routeboard/models"
	"github.com/gewnthar/routeboard/render"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	panelPath   = "/admin/routes"
	noticeParam = "notice"
	levelParam  = "level"
)

// RoutesPage renders the admin panel for the criteria in the query string,
// with the status message left by a preceding form submission.
func (h *Handler) RoutesPage(c *gin.Context) {
	q := c.Request.URL.Query()
	h.renderPage(c, filter.CriteriaFromQuery(q), messageFromQuery(q))
}

func (h *Handler) renderPage(c *gin.Context, criteria filter.Criteria, msg *models.StatusMessage) {
	res := h.store.Query(criteria)
	data := render.PageData{
		Controls:    render.BuildControls(h.store.Vocabulary, res.Criteria),
		Search:      res.Criteria.SearchText,
		Result:      res,
		Message:     msg,
		CSRFField:   csrf.TemplateField(c.Request),
		Source:      h.sourceName,
		CollectedAt: h.store.CollectedAt(),
	}
	if res.Mode == filter.ViewRaw {
		data.AllRoutes = res.Routes
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, data); err != nil {
		log.WithError(err).Error("Page rendering failed")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// redirectWithMessage sends the browser back to the panel after a form POST,
// so reloading the page does not submit the form again.
func redirectWithMessage(c *gin.Context, msg *models.StatusMessage) {
	q := url.Values{}
	q.Set(noticeParam, msg.Message)
	q.Set(levelParam, msg.Level)
	c.Redirect(http.StatusSeeOther, panelPath+"?"+q.Encode())
}

func messageFromQuery(q url.Values) *models.StatusMessage {
	text := strings.TrimSpace(q.Get(noticeParam))
	if text == "" {
		return nil
	}
	level := q.Get(levelParam)
	switch level {
	case models.LevelSuccess, models.LevelWarning, models.LevelDanger:
	default:
		level = models.LevelWarning
	}
	return &models.StatusMessage{OK: level != models.LevelDanger, Level: level, Message: text}
}

func success(format string, args ...interface{}) *models.StatusMessage {
	return &models.StatusMessage{OK: true, Level: models.LevelSuccess, Message: fmt.Sprintf(format, args...)}
}

func failure(err error) *models.StatusMessage {
	return &models.StatusMessage{OK: false, Level: models.LevelDanger, Message: err.Error()}
}

// mutationMessage describes a successful mutation, downgraded to a warning when
// the resync afterwards failed.
func mutationMessage(action string, res models.MutationResult) *models.StatusMessage {
	if res.Resynced {
		return success("%s", action)
	}
	return &models.StatusMessage{
		OK:      true,
		Level:   models.LevelWarning,
		Message: fmt.Sprintf("%s; refresh failed: %s", action, res.ResyncError),
	}
}

// RefreshForm rebuilds the projection from the panel's refresh button.
func (h *Handler) RefreshForm(c *gin.Context) {
	if err := h.store.Collect(c.Request.Context()); err != nil {
		redirectWithMessage(c, failure(err))
		return
	}
	redirectWithMessage(c, success("Загружено трасс: %d", h.store.Len()))
}

func (h *Handler) SheetsExportForm(c *gin.Context) {
	msg := h.sheets.Export(c.Request.Context())
	redirectWithMessage(c, &msg)
}

func (h *Handler) SheetsImportForm(c *gin.Context) {
	msg := h.sheets.Import(c.Request.Context())
	redirectWithMessage(c, &msg)
}

// ImportForm creates routes from the file chosen in the panel's upload form.
func (h *Handler) ImportForm(c *gin.Context) {
	parsed, filename, err := readUpload(c)
	if err != nil {
		redirectWithMessage(c, failure(err))
		return
	}
	summary, err := h.admin.ImportRoutes(c.Request.Context(), parsed)
	if err != nil {
		redirectWithMessage(c, failure(err))
		return
	}
	log.WithField("file", filename).WithField("imported", summary.Imported).Info("Route file imported from panel")

	msg := success("Импортировано трасс: %d", summary.Imported)
	if len(summary.Errors) > 0 || summary.Skipped > 0 {
		msg.Level = models.LevelWarning
		msg.Message = fmt.Sprintf("Импортировано трасс: %d, с ошибками: %d, пропущено строк: %d",
			summary.Imported, len(summary.Errors), summary.Skipped)
	}
	msg.Count = summary.Imported
	redirectWithMessage(c, msg)
}

// ToggleForm flips the status of the route shown in the table.
func (h *Handler) ToggleForm(c *gin.Context) {
	id := c.Param("id")
	var current *models.Route
	routes := h.store.AllRoutes()
	for i := range routes {
		if routes[i].ID == id {
			current = &routes[i]
			break
		}
	}
	if current == nil {
		redirectWithMessage(c, failure(fmt.Errorf("route %s not found", id)))
		return
	}

	res, err := h.admin.SetActive(c.Request.Context(), id, !current.IsActive)
	if err != nil {
		redirectWithMessage(c, failure(err))
		return
	}
	action := "Трасса скручена"
	if !current.IsActive {
		action = "Трасса активирована"
	}
	redirectWithMessage(c, mutationMessage(action, res))
}

// DeleteForm removes the route from the panel's delete button.
func (h *Handler) DeleteForm(c *gin.Context) {
	res, err := h.admin.DeleteRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		redirectWithMessage(c, failure(err))
		return
	}
	redirectWithMessage(c, mutationMessage("Трасса удалена", res))
}
