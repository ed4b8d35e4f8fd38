package handlers

import (
	"net/http"
	"net/url"

	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	posts *services.PostService
	likes *services.LikeService
}

func NewLikeHandler(posts *services.PostService, likes *services.LikeService) *LikeHandler {
	return &LikeHandler{posts: posts, likes: likes}
}

// Toggle likes or unlikes the post and goes back to where the user came from.
func (h *LikeHandler) Toggle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	post, err := h.posts.Get(ctx, id)
	if err != nil {
		fail(c, err, "Failed to load post")
		return
	}
	if _, err := h.likes.Toggle(ctx, currentUser(c).ID, post.ID); err != nil {
		fail(c, err, "Failed to toggle like")
		return
	}

	c.Redirect(http.StatusFound, backURL(c, postURL(post.ID)))
}

// backURL is the Referer reduced to a local path, or fallback when the
// referrer is missing or points at another host.
func backURL(c *gin.Context, fallback string) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.String() == "" {
		return fallback
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return fallback
	}

	local := ref.EscapedPath()
	if ref.RawQuery != "" {
		local += "?" + ref.RawQuery
	}
	if !middleware.SafeRedirect(local) {
		return fallback
	}
	return local
}
