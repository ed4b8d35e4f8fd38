package handlers

import (
	"errors"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, ok := middleware.CurrentUser(c); ok {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError shows the error page with the given status.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{
		"Title": http.StatusText(code),
		"Code":  code,
		"Error": message,
	})
}

// NotFound is the fallback for unknown routes.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "The page you requested does not exist.")
}

// fail maps a service error onto a 404 or a logged 500 page.
func fail(c *gin.Context, err error, action string) {
	if errors.Is(err, services.ErrNotFound) {
		NotFound(c)
		return
	}
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(action)
	_ = c.Error(err)
	RenderError(c, http.StatusInternalServerError, "Something went wrong, please try again later.")
}

// idParam parses a numeric route parameter; a malformed id is a missing page.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		NotFound(c)
	}
	return id, ok
}

// currentUser is only called behind AuthRequired.
func currentUser(c *gin.Context) *models.User {
	user, _ := middleware.CurrentUser(c)
	return user
}

func addFlash(c *gin.Context, key, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, key)
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("Failed to save flash message")
	}
}

func popFlashes(c *gin.Context, key string) []string {
	session := sessions.Default(c)
	raw := session.Flashes(key)
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear flash messages")
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
