package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const commentErrorsKey = "comment_errors"

type PostHandler struct {
	posts    *services.PostService
	groups   *services.GroupService
	users    *services.UserService
	comments *services.CommentService
	follows  *services.FollowService
	likes    *services.LikeService
	images   storage.ImageStore
}

func NewPostHandler(
	posts *services.PostService,
	groups *services.GroupService,
	users *services.UserService,
	comments *services.CommentService,
	follows *services.FollowService,
	likes *services.LikeService,
	images storage.ImageStore,
) *PostHandler {
	return &PostHandler{
		posts:    posts,
		groups:   groups,
		users:    users,
		comments: comments,
		follows:  follows,
		likes:    likes,
		images:   images,
	}
}

// Index is the home feed. The router wraps it in the page cache.
func (h *PostHandler) Index(c *gin.Context) {
	page, err := h.posts.ListAll(c.Request.Context(), c.Query("page"))
	if err != nil {
		fail(c, err, "Failed to list posts")
		return
	}
	Render(c, http.StatusOK, "posts/index.html", gin.H{
		"Title": "Latest posts",
		"Page":  page,
	})
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := h.groups.BySlug(ctx, c.Param("slug"))
	if err != nil {
		fail(c, err, "Failed to load group")
		return
	}

	page, err := h.posts.ListByGroup(ctx, group.ID, c.Query("page"))
	if err != nil {
		fail(c, err, "Failed to list group posts")
		return
	}
	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Page":  page,
	})
}

func (h *PostHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		fail(c, err, "Failed to load profile")
		return
	}

	page, err := h.posts.ListByAuthor(ctx, author.ID, c.Query("page"))
	if err != nil {
		fail(c, err, "Failed to list author posts")
		return
	}
	count, err := h.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		fail(c, err, "Failed to count author posts")
		return
	}

	following := false
	if user, ok := middleware.CurrentUser(c); ok {
		following, err = h.follows.IsFollowing(ctx, user.ID, author.ID)
		if err != nil {
			fail(c, err, "Failed to load follow state")
			return
		}
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Title":       fmt.Sprintf("Profile of %s", author.Username),
		"Author":      author,
		"Page":        page,
		"NumberPosts": count,
		"Following":   following,
	})
}

func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := currentUser(c)
	page, err := h.posts.ListFollowed(c.Request.Context(), user.ID, c.Query("page"))
	if err != nil {
		fail(c, err, "Failed to list followed posts")
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Title": "Posts by authors you follow",
		"Page":  page,
	})
}

func (h *PostHandler) PostDetail(c *gin.Context) {
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
	count, err := h.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		fail(c, err, "Failed to count author posts")
		return
	}
	comments, err := h.comments.ListForPost(ctx, post.ID, c.Query("page"))
	if err != nil {
		fail(c, err, "Failed to list comments")
		return
	}

	liked := false
	if user, ok := middleware.CurrentUser(c); ok {
		liked, err = h.likes.IsLiked(ctx, user.ID, post.ID)
		if err != nil {
			fail(c, err, "Failed to load like state")
			return
		}
	}

	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Title":         post.Excerpt(30),
		"Post":          post,
		"Author":        &post.Author,
		"NumberPosts":   count,
		"Comments":      comments,
		"Form":          forms.NewCommentForm(),
		"CommentErrors": popFlashes(c, commentErrorsKey),
		"Liked":         liked,
	})
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, forms.NewPostForm(nil), nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)
	ctx := c.Request.Context()

	form, err := forms.BindPost(c, h.groups)
	if err != nil {
		fail(c, err, "Failed to validate post")
		return
	}
	image, ok := h.saveImage(c, form)
	if !ok {
		return
	}
	if !form.Valid() {
		h.renderForm(c, http.StatusBadRequest, form, nil)
		return
	}

	post := models.Post{
		Text:     form.Text,
		AuthorID: user.ID,
		GroupID:  form.GroupID(),
		Image:    image,
	}
	if err := h.posts.Create(ctx, &post); err != nil {
		h.discardImage(c, image)
		fail(c, err, "Failed to create post")
		return
	}
	log.Info().Uint("post_id", post.ID).Uint("author_id", user.ID).Msg("Post created")

	c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := h.editablePost(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, forms.NewPostForm(post), post)
}

func (h *PostHandler) Edit(c *gin.Context) {
	post, ok := h.editablePost(c)
	if !ok {
		return
	}

	form, err := forms.BindPost(c, h.groups)
	if err != nil {
		fail(c, err, "Failed to validate post")
		return
	}
	image, ok := h.saveImage(c, form)
	if !ok {
		return
	}
	if !form.Valid() {
		h.renderForm(c, http.StatusBadRequest, form, post)
		return
	}

	post.Text = form.Text
	post.GroupID = form.GroupID()
	if image != "" {
		post.Image = image
	}
	if err := h.posts.Update(c.Request.Context(), post); err != nil {
		h.discardImage(c, image)
		fail(c, err, "Failed to update post")
		return
	}

	c.Redirect(http.StatusFound, postURL(post.ID))
}

// editablePost loads the post in the URL and bounces anyone but its author
// back to the detail page.
func (h *PostHandler) editablePost(c *gin.Context) (*models.Post, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "Failed to load post")
		return nil, false
	}
	if post.AuthorID != currentUser(c).ID {
		c.Redirect(http.StatusFound, postURL(post.ID))
		return nil, false
	}
	return post, true
}

// saveImage stores the optional upload. Invalid files become form errors;
// ok is false only when a response has already been written.
func (h *PostHandler) saveImage(c *gin.Context, form *forms.PostForm) (string, bool) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", true
	}
	if err != nil {
		form.Errors.Add("image", "The uploaded file could not be read.")
		return "", true
	}
	// Nothing is written to disk for a form that will be rejected anyway.
	if !form.Valid() {
		return "", true
	}

	name, err := h.images.Save(c.Request.Context(), header)
	switch {
	case errors.Is(err, storage.ErrNotImage), errors.Is(err, storage.ErrImageTooLarge):
		form.Errors.Add("image", err.Error())
		return "", true
	case err != nil:
		fail(c, err, "Failed to store image")
		return "", false
	}
	return name, true
}

// discardImage removes an upload whose post was never stored.
func (h *PostHandler) discardImage(c *gin.Context, name string) {
	if name == "" {
		return
	}
	if err := h.images.Delete(c.Request.Context(), name); err != nil {
		log.Warn().Err(err).Str("image", name).Msg("Failed to remove orphaned image")
	}
}

func (h *PostHandler) renderForm(c *gin.Context, code int, form *forms.PostForm, post *models.Post) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to list groups")
		return
	}

	title := "New post"
	if post != nil {
		title = "Edit post"
	}
	Render(c, code, "posts/create_post.html", gin.H{
		"Title":  title,
		"Form":   form,
		"Groups": groups,
		"IsEdit": post != nil,
		"Post":   post,
	})
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}
