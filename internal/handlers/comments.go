package handlers

import (
	"net/http"

	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	posts    *services.PostService
	comments *services.CommentService
}

func NewCommentHandler(posts *services.PostService, comments *services.CommentService) *CommentHandler {
	return &CommentHandler{posts: posts, comments: comments}
}

// Add always lands back on the post. A rejected comment leaves a flash
// message for the detail page instead of vanishing silently.
func (h *CommentHandler) Add(c *gin.Context) {
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

	form := forms.BindComment(c)
	if !form.Valid() {
		for _, msg := range form.Errors {
			addFlash(c, commentErrorsKey, msg)
		}
		c.Redirect(http.StatusFound, postURL(post.ID))
		return
	}

	comment := models.Comment{
		Text:     form.Text,
		AuthorID: currentUser(c).ID,
		PostID:   post.ID,
	}
	if err := h.comments.Add(ctx, &comment); err != nil {
		fail(c, err, "Failed to add comment")
		return
	}
	c.Redirect(http.StatusFound, postURL(post.ID))
}
