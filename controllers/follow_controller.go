package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whiskr/whiskr/services"
	"github.com/whiskr/whiskr/utils"
)

// FollowController manages the caller's follow edges.
type FollowController struct {
	follows *services.FollowService
}

// NewFollowController creates a FollowController.
func NewFollowController(follows *services.FollowService) *FollowController {
	return &FollowController{follows: follows}
}

// Follow makes the caller follow the target user.
func (f *FollowController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40119, "unauthorized")
		return
	}
	targetID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid user id")
		return
	}

	if err := f.follows.Follow(ctx.Request.Context(), userID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			utils.Error(ctx, http.StatusBadRequest, 40051, "cannot follow yourself")
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40409, "user not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to follow user")
		}
		return
	}

	utils.Success(ctx, gin.H{"message": "following"})
}

// Unfollow removes the caller's follow edge to the target user.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}
	targetID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid user id")
		return
	}

	if err := f.follows.Unfollow(ctx.Request.Context(), userID, targetID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to unfollow user")
		return
	}

	utils.Success(ctx, gin.H{"message": "unfollowed"})
}

// Following lists the ids of every user the caller follows.
func (f *FollowController) Following(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	ids, err := f.follows.FollowingIDs(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to list following")
		return
	}

	utils.Success(ctx, gin.H{"following": ids})
}
