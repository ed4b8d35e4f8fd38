// Package forms binds and validates the HTML forms.
package forms

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Errors maps a field name (or "" for the whole form) to its message.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e Errors) Any() bool { return len(e) > 0 }

// GroupLookup resolves a group by its exact title.
type GroupLookup interface {
	ByTitle(ctx context.Context, title string) (*models.Group, error)
}

type PostForm struct {
	Text  string `form:"text" binding:"required"`
	Group string `form:"group"`

	Errors Errors        `form:"-"`
	group  *models.Group `form:"-"`
}

// NewPostForm pre-fills the form from an existing post.
func NewPostForm(post *models.Post) *PostForm {
	f := &PostForm{Errors: Errors{}}
	if post != nil {
		f.Text = post.Text
		if post.Group != nil {
			f.Group = post.Group.Title
		}
	}
	return f
}

// BindPost reads the submitted post form and checks it, including the group title.
func BindPost(c *gin.Context, groups GroupLookup) (*PostForm, error) {
	f := &PostForm{Errors: Errors{}}
	bind(c, f, f.Errors)
	f.Text = strings.TrimSpace(f.Text)
	f.Group = strings.TrimSpace(f.Group)
	if f.Text == "" {
		f.Errors.Add("text", requiredMsg)
	}

	if f.Group != "" {
		group, err := groups.ByTitle(c.Request.Context(), f.Group)
		switch {
		case errors.Is(err, services.ErrNotFound):
			f.Errors.Add("group", fmt.Sprintf("group %q does not exist", f.Group))
		case err != nil:
			return f, err
		default:
			f.group = group
		}
	}
	return f, nil
}

func (f *PostForm) Valid() bool { return !f.Errors.Any() }

// GroupID is the resolved group, nil when the field was left blank.
func (f *PostForm) GroupID() *uint {
	if f.group == nil {
		return nil
	}
	id := f.group.ID
	return &id
}

type CommentForm struct {
	Text string `form:"text" binding:"required"`

	Errors Errors `form:"-"`
}

func NewCommentForm() *CommentForm {
	return &CommentForm{Errors: Errors{}}
}

func BindComment(c *gin.Context) *CommentForm {
	f := NewCommentForm()
	bind(c, f, f.Errors)
	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		f.Errors.Add("text", requiredMsg)
	}
	return f
}

func (f *CommentForm) Valid() bool { return !f.Errors.Any() }

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type SignupForm struct {
	Username  string `form:"username" binding:"required,max=150"`
	Email     string `form:"email" binding:"omitempty,email"`
	Password  string `form:"password" binding:"required,min=8"`
	Password2 string `form:"password2" binding:"required"`

	Errors Errors `form:"-"`
}

func BindSignup(c *gin.Context) *SignupForm {
	f := &SignupForm{Errors: Errors{}}
	bind(c, f, f.Errors)
	f.Username = strings.TrimSpace(f.Username)
	if f.Username != "" && !usernamePattern.MatchString(f.Username) {
		f.Errors.Add("username", "Letters, digits and @/./+/-/_ only.")
	}
	if f.Password != f.Password2 {
		f.Errors.Add("password2", "The two password fields didn't match.")
	}
	return f
}

func (f *SignupForm) Valid() bool { return !f.Errors.Any() }

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`

	Errors Errors `form:"-"`
}

func BindLogin(c *gin.Context) *LoginForm {
	f := &LoginForm{Errors: Errors{}}
	bind(c, f, f.Errors)
	return f
}

func (f *LoginForm) Valid() bool { return !f.Errors.Any() }

const requiredMsg = "This field is required."

// bind runs gin's form binding and turns validator failures into field errors.
func bind(c *gin.Context, dst any, errs Errors) {
	err := c.ShouldBind(dst)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("", "The form could not be read.")
		return
	}
	for _, fe := range verrs {
		errs.Add(fieldName(fe), message(fe))
	}
}

func fieldName(fe validator.FieldError) string {
	return strings.ToLower(fe.Field())
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return requiredMsg
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
