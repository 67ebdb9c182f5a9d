// handlers/middleware.go
package handlers

import (
	"net/http"

	"github.com/gewnthar/routeboard/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRF protects the form submissions of the HTML panel. It is mounted on the
// /admin group only; the JSON API under /api is not cookie-authenticated by
// the panel. An empty key disables the protection.
func CSRF(cfg config.ServerConfig) gin.HandlerFunc {
	if cfg.CSRFKey == "" {
		return func(c *gin.Context) { c.Next() }
	}

	csrfProtect := csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.SecureCookies),
		csrf.Path("/"),
		csrf.TrustedOrigins(cfg.TrustedOrigins),
	)

	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			// r carries the token gorilla/csrf stored for csrf.TemplateField.
			c.Request = r
			c.Next()
		})

		r := c.Request
		if !cfg.SecureCookies && r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		csrfProtect(next).ServeHTTP(c.Writer, r)
		if !passed {
			log.WithField("path", c.FullPath()).Warn("Rejected form without a valid CSRF token")
			c.Abort()
		}
	}
}
