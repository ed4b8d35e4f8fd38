package handlers

import (
	"context"
	"net/http"

	"yatube/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type FollowHandler struct {
	users   *services.UserService
	follows *services.FollowService
}

func NewFollowHandler(users *services.UserService, follows *services.FollowService) *FollowHandler {
	return &FollowHandler{users: users, follows: follows}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	h.apply(c, h.follows.Follow, "followed")
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	h.apply(c, h.follows.Unfollow, "unfollowed")
}

type followFunc func(ctx context.Context, userID, authorID uint) (bool, error)

func (h *FollowHandler) apply(c *gin.Context, op followFunc, verb string) {
	ctx := c.Request.Context()
	author, err := h.users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		fail(c, err, "Failed to load author")
		return
	}

	user := currentUser(c)
	changed, err := op(ctx, user.ID, author.ID)
	if err != nil {
		fail(c, err, "Failed to update follow")
		return
	}
	if changed {
		log.Debug().Uint("user_id", user.ID).Uint("author_id", author.ID).Msg("User " + verb + " author")
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username+"/")
}
