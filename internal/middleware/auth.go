package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	CheckUserKey   = "user"
	SessionUserKey = "user_id"
	LoginURL       = "/auth/login/"
)

// UserLoader resolves the user behind a session.
type UserLoader interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
}

// CurrentUser is the identity of the request, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// LoadUser retrieves the user from the session and puts it on the context.
func LoadUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(uint)
		if ok {
			user, err := users.ByID(c.Request.Context(), userID)
			if err == nil {
				c.Set(CheckUserKey, user)
			} else {
				log.Debug().Err(err).Uint("user_id", userID).Msg("Dropping session of unknown user")
				session.Delete(SessionUserKey)
				_ = session.Save()
			}
		}
		c.Next()
	}
}

// AuthRequired sends anonymous visitors to the login page with ?next= pointing back.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRedirect builds the login URL for a protected target.
func LoginRedirect(target *url.URL) string {
	// Slashes stay readable; "+" and the rest must survive query decoding.
	next := strings.ReplaceAll(url.QueryEscape(target.RequestURI()), "%2F", "/")
	return LoginURL + "?next=" + next
}

// SafeRedirect reports whether target is a local path that is safe to redirect to.
func SafeRedirect(target string) bool {
	if target == "" {
		return false
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	// "//host" and "/\host" are treated as absolute by browsers
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	return len(target) > 0 && target[0] == '/'
}
