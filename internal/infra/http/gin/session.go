package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	authsvc "roomly/internal/app/services/auth"
	domainauth "roomly/internal/domain/auth"
)

const principalContextKey = "roomly.principal"

// principal is the immutable request-scoped identity produced by the
// session middleware.
type principal struct {
	ID        string
	Email     string
	Name      string
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// staticAssetExtensions excludes asset requests from session handling.
var staticAssetExtensions = map[string]struct{}{
	".css":   {},
	".js":    {},
	".map":   {},
	".ico":   {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".gif":   {},
	".svg":   {},
	".webp":  {},
	".woff":  {},
	".woff2": {},
}

// SessionMiddleware keeps the session cookie refreshed so every handler
// behind it observes a valid identity. It reads the inbound cookie, asks the
// auth service to validate and refresh the session, and re-sets the cookie
// on the response when the expiry slid forward. Fails open: a store error
// leaves the request anonymous instead of breaking the pipeline.
type SessionMiddleware struct {
	Service    *authsvc.Service
	CookieName string
	Secure     bool
	Logger     *slog.Logger
}

func (m SessionMiddleware) Handle(c *gin.Context) {
	if isStaticAssetPath(c.Request.URL.Path) {
		c.Next()
		return
	}
	token, err := c.Cookie(m.cookieName())
	if err != nil || token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			clearSessionCookie(c, m.cookieName(), m.Secure)
		} else if m.Logger != nil {
			m.Logger.Debug("session validation failed", "error", err)
		}
		c.Next()
		return
	}
	if resolved.Refreshed {
		setSessionCookie(c, m.cookieName(), token, time.Until(resolved.Session.ExpiresAt), m.Secure)
	}
	user := resolved.User
	setPrincipal(c, principal{
		ID:        string(user.ID),
		Email:     user.Email,
		Name:      user.Name,
		Token:     token,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	c.Next()
}

func (m SessionMiddleware) cookieName() string {
	if m.CookieName != "" {
		return m.CookieName
	}
	return "roomly_session"
}

func isStaticAssetPath(requestPath string) bool {
	ext := strings.ToLower(path.Ext(requestPath))
	if ext == "" {
		return false
	}
	_, ok := staticAssetExtensions[ext]
	return ok
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireUser resolves the authenticated identity or writes a 401.
func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "must be logged in"})
		return principal{}, false
	}
	return p, true
}

func setSessionCookie(c *gin.Context, name, token string, ttl time.Duration, secure bool) {
	maxAge := int(ttl / time.Second)
	if maxAge <= 0 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, maxAge, "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}
