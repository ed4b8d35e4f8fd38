package router

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"yatube/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

// views are rendered inside layouts/base.html together with every include.
var views = []string{
	"posts/index.html",
	"posts/group_list.html",
	"posts/profile.html",
	"posts/post_detail.html",
	"posts/create_post.html",
	"posts/follow.html",
	"users/signup.html",
	"users/login.html",
	"users/logged_out.html",
	"error.html",
}

var funcMap = template.FuncMap{
	"dict": func(values ...any) (map[string]any, error) {
		if len(values)%2 != 0 {
			return nil, fmt.Errorf("invalid dict call")
		}
		dict := make(map[string]any, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings")
			}
			dict[key] = values[i+1]
		}
		return dict, nil
	},
	"add": func(a, b int) int {
		return a + b
	},
	"markdown": utils.RenderMarkdown,
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"media": func(name string) string {
		return "/media/" + strings.TrimPrefix(name, "/")
	},
}

// loadTemplates builds one template set per view from the embedded tree.
func loadTemplates(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	includes, err := fs.Glob(fsys, "templates/includes/*.html")
	if err != nil {
		return nil, err
	}

	for _, view := range views {
		patterns := append([]string{"templates/layouts/base.html"}, includes...)
		patterns = append(patterns, path.Join("templates/views", view))

		tmpl, err := template.New("base.html").Funcs(funcMap).ParseFS(fsys, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", view, err)
		}
		r.Add(view, tmpl)
	}
	return r, nil
}
