package forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroups map[string]*models.Group

func (f fakeGroups) ByTitle(_ context.Context, title string) (*models.Group, error) {
	if g, ok := f[title]; ok {
		return g, nil
	}
	return nil, services.ErrNotFound
}

func postContext(values url.Values) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestBindPostGroupValidation(t *testing.T) {
	groups := fakeGroups{"Cats": {ID: 7, Title: "Cats", Slug: "cats"}}

	tests := []struct {
		name      string
		values    url.Values
		wantValid bool
		wantGroup *uint
		errField  string
	}{
		{
			name:      "no group",
			values:    url.Values{"text": {"hello"}},
			wantValid: true,
		},
		{
			name:      "existing group title",
			values:    url.Values{"text": {"hello"}, "group": {"Cats"}},
			wantValid: true,
			wantGroup: func() *uint { id := uint(7); return &id }(),
		},
		{
			name:      "slug is not a title",
			values:    url.Values{"text": {"hello"}, "group": {"cats"}},
			wantValid: false,
			errField:  "group",
		},
		{
			name:      "unknown group",
			values:    url.Values{"text": {"hello"}, "group": {"Dogs"}},
			wantValid: false,
			errField:  "group",
		},
		{
			name:      "missing text",
			values:    url.Values{"group": {"Cats"}},
			wantValid: false,
			wantGroup: func() *uint { id := uint(7); return &id }(),
			errField:  "text",
		},
		{
			name:      "blank text",
			values:    url.Values{"text": {"   "}},
			wantValid: false,
			errField:  "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := BindPost(postContext(tt.values), groups)
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, f.Valid(), f.Errors)
			if tt.errField != "" {
				assert.Contains(t, f.Errors, tt.errField)
			}
			assert.Equal(t, tt.wantGroup, f.GroupID())
		})
	}
}

func TestBindPostGroupErrorNamesValue(t *testing.T) {
	f, err := BindPost(postContext(url.Values{"text": {"x"}, "group": {"Nope"}}), fakeGroups{})
	require.NoError(t, err)
	assert.Contains(t, f.Errors["group"], `"Nope"`)
}

func TestBindComment(t *testing.T) {
	assert.True(t, BindComment(postContext(url.Values{"text": {"nice"}})).Valid())
	assert.False(t, BindComment(postContext(url.Values{"text": {""}})).Valid())
	assert.False(t, BindComment(postContext(url.Values{})).Valid())
}

func TestBindSignup(t *testing.T) {
	ok := BindSignup(postContext(url.Values{
		"username": {"leo"}, "email": {"leo@example.com"},
		"password": {"longenough"}, "password2": {"longenough"},
	}))
	assert.True(t, ok.Valid(), ok.Errors)

	mismatch := BindSignup(postContext(url.Values{
		"username": {"leo"}, "password": {"longenough"}, "password2": {"different"},
	}))
	assert.Contains(t, mismatch.Errors, "password2")

	short := BindSignup(postContext(url.Values{
		"username": {"leo"}, "password": {"short"}, "password2": {"short"},
	}))
	assert.Contains(t, short.Errors, "password")

	badName := BindSignup(postContext(url.Values{
		"username": {"leo tolstoy"}, "password": {"longenough"}, "password2": {"longenough"},
	}))
	assert.Contains(t, badName.Errors, "username")
}

func TestNewPostFormPrefill(t *testing.T) {
	post := &models.Post{Text: "draft", Group: &models.Group{Title: "Cats"}}
	f := NewPostForm(post)

	assert.Equal(t, "draft", f.Text)
	assert.Equal(t, "Cats", f.Group)
	assert.True(t, f.Valid())
}
