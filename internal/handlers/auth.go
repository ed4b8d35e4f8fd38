package handlers

import (
	"errors"
	"net/http"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "users/signup.html", gin.H{
		"Title": "Sign up",
		"Form":  &forms.SignupForm{Errors: forms.Errors{}},
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	form := forms.BindSignup(c)
	if !form.Valid() {
		h.renderSignup(c, form)
		return
	}

	user, err := h.users.Register(c.Request.Context(), form.Username, form.Email, form.Password)
	if errors.Is(err, services.ErrUsernameTaken) {
		form.Errors.Add("username", "A user with that username already exists.")
		h.renderSignup(c, form)
		return
	}
	if err != nil {
		fail(c, err, "Failed to register user")
		return
	}
	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("User registered")

	if !h.login(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) renderSignup(c *gin.Context, form *forms.SignupForm) {
	Render(c, http.StatusBadRequest, "users/signup.html", gin.H{
		"Title": "Sign up",
		"Form":  form,
	})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "users/login.html", gin.H{
		"Title": "Log in",
		"Form":  &forms.LoginForm{Next: c.Query("next"), Errors: forms.Errors{}},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	form := forms.BindLogin(c)
	if form.Next == "" {
		form.Next = c.Query("next")
	}
	if !form.Valid() {
		h.renderLogin(c, form)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		form.Errors.Add("", "Please enter a correct username and password.")
		h.renderLogin(c, form)
		return
	}
	if err != nil {
		fail(c, err, "Failed to authenticate")
		return
	}

	if !h.login(c, user) {
		return
	}
	target := "/"
	if middleware.SafeRedirect(form.Next) {
		target = form.Next
	}
	c.Redirect(http.StatusFound, target)
}

func (h *AuthHandler) renderLogin(c *gin.Context, form *forms.LoginForm) {
	Render(c, http.StatusBadRequest, "users/login.html", gin.H{
		"Title": "Log in",
		"Form":  form,
	})
}

// Logout clears the session; it renders rather than redirects so the page
// reflects the anonymous state immediately.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		fail(c, err, "Failed to clear session")
		return
	}
	c.Set(middleware.CheckUserKey, nil)
	Render(c, http.StatusOK, "users/logged_out.html", gin.H{"Title": "Logged out"})
}

func (h *AuthHandler) login(c *gin.Context, user *models.User) bool {
	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		fail(c, err, "Failed to save session")
		return false
	}
	return true
}
