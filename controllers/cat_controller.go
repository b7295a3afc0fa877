package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/whiskr/whiskr/middleware"
	"github.com/whiskr/whiskr/services"
	"github.com/whiskr/whiskr/storage"
	"github.com/whiskr/whiskr/utils"
)

// CatController exposes the picture feed and the like/comment interactions.
type CatController struct {
	feed         *services.FeedService
	interactions *services.InteractionService
	images       storage.ImageStore
}

// NewCatController creates a CatController.
func NewCatController(feed *services.FeedService, interactions *services.InteractionService, images storage.ImageStore) *CatController {
	return &CatController{feed: feed, interactions: interactions, images: images}
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
}

// Upload stores the image and creates a post owned by the caller. Unlike
// every other endpoint this one reports downstream failures softly as
// {success:false}; clients render the result inline instead of an error page.
func (c *CatController) Upload(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no image uploaded")
		return
	}
	defer file.Close()

	title := utils.Sanitize(strings.TrimSpace(ctx.PostForm("title")))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "title cannot be empty")
		return
	}
	description := utils.Sanitize(ctx.PostForm("description"))

	url, err := c.images.Store(header.Filename, file)
	if err != nil {
		utils.Sugar.Errorf("image store failed: %v", err)
		ctx.JSON(http.StatusOK, uploadResponse{Success: false, ImageURL: ""})
		return
	}

	if _, err := c.interactions.AddPost(ctx.Request.Context(), userID, url, title, description); err != nil {
		utils.Sugar.Errorf("add post failed: %v", err)
		ctx.JSON(http.StatusOK, uploadResponse{Success: false, ImageURL: ""})
		return
	}

	utils.InvalidateByPrefix("cache:feed:")
	utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(userID)) + ":posts:")

	ctx.JSON(http.StatusOK, uploadResponse{Success: true, ImageURL: url})
}

// Delete removes the caller's post together with its likes and comments.
func (c *CatController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid post id")
		return
	}

	if err := c.interactions.DeletePost(ctx.Request.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
		case errors.Is(err, services.ErrForbidden):
			utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to delete post")
		}
		return
	}

	utils.InvalidateByPrefix("cache:feed:")
	utils.InvalidateByPrefix("cache:post:detail:" + ctx.Param("id"))
	utils.InvalidateByPrefix("cache:user:" + strconv.Itoa(int(userID)) + ":posts:")

	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// List returns one page of all posts, newest first.
func (c *CatController) List(ctx *gin.Context) {
	page := parsePageNumber(ctx.Query("pageNumber"))

	cacheKey := fmt.Sprintf("cache:feed:page=%d", page)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, err := c.feed.ListAll(ctx.Request.Context(), page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list posts")
		return
	}

	payload := gin.H{"items": posts, "page": page, "page_size": services.PageSize}
	utils.CacheSetJSON(cacheKey, wrap(payload), time.Hour)
	utils.Success(ctx, payload)
}

// ListByUser returns one page of posts owned by the given user.
func (c *CatController) ListByUser(ctx *gin.Context) {
	userID, ok := parseID(ctx.Param("userId"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid user id")
		return
	}
	page := parsePageNumber(ctx.Query("pageNumber"))

	cacheKey := fmt.Sprintf("cache:user:%d:posts:page=%d", userID, page)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, err := c.feed.ListByAuthor(ctx.Request.Context(), userID, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to list user posts")
		return
	}

	payload := gin.H{"items": posts, "page": page, "page_size": services.PageSize}
	utils.CacheSetJSON(cacheKey, wrap(payload), time.Hour)
	utils.Success(ctx, payload)
}

// Get returns a single post with its comments and like count.
func (c *CatController) Get(ctx *gin.Context) {
	postID, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid post id")
		return
	}

	cacheKey := "cache:post:detail:" + ctx.Param("id")
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	post, comments, likeCount, err := c.feed.GetDetail(ctx.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load post")
		return
	}
	post.Comments = comments

	payload := gin.H{"post": post, "like_count": likeCount}
	utils.CacheSetJSON(cacheKey, wrap(payload), time.Hour)
	utils.Success(ctx, payload)
}

// ListFollows returns one page of posts authored by users the caller follows.
func (c *CatController) ListFollows(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	page := parsePageNumber(ctx.Query("pageNumber"))

	posts, err := c.feed.ListByFollowing(ctx.Request.Context(), userID, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to list followed posts")
		return
	}

	utils.Success(ctx, gin.H{"items": posts, "page": page, "page_size": services.PageSize})
}

// ListLikes returns the posts the caller liked. Without a pageNumber the
// whole list comes back, matching what existing clients expect.
func (c *CatController) ListLikes(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	// Only a well-formed pageNumber switches to paged mode; absent or
	// unparseable values keep the legacy whole-list response.
	page := -1
	if v := strings.TrimSpace(ctx.Query("pageNumber")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if n < 0 {
				n = 0
			}
			page = n
		}
	}

	posts, err := c.feed.ListByLiked(ctx.Request.Context(), userID, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to list liked posts")
		return
	}

	utils.Success(ctx, gin.H{"items": posts})
}

type likeRequest struct {
	PostID uint `json:"postId" binding:"required"`
}

// Like marks the post as liked by the caller; liking twice is a no-op.
func (c *CatController) Like(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40114, "unauthorized")
		return
	}

	var req likeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}

	if err := c.interactions.Like(ctx.Request.Context(), userID, req.PostID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to like post")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(req.PostID)))
	utils.Success(ctx, gin.H{"message": "liked"})
}

// Dislike removes the caller's like; removing a missing like succeeds.
func (c *CatController) Dislike(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40115, "unauthorized")
		return
	}

	var req likeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid request payload")
		return
	}

	if err := c.interactions.Unlike(ctx.Request.Context(), userID, req.PostID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to remove like")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(req.PostID)))
	utils.Success(ctx, gin.H{"message": "like removed"})
}

// AddComment attaches a comment by the caller to the post.
func (c *CatController) AddComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40116, "unauthorized")
		return
	}

	var req struct {
		PostID  uint   `json:"postId" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40045, "content cannot be empty")
		return
	}

	comment, err := c.interactions.AddComment(ctx.Request.Context(), userID, req.PostID, content)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40406, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(req.PostID)))
	utils.Success(ctx, gin.H{"comment": comment})
}

// EditComment replaces a comment's content.
func (c *CatController) EditComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40117, "unauthorized")
		return
	}
	commentID, ok := parseID(ctx.Param("commentId"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40046, "invalid comment id")
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40047, "invalid request payload")
		return
	}

	content := utils.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, 40048, "content cannot be empty")
		return
	}

	comment, err := c.interactions.EditComment(ctx.Request.Context(), userID, commentID, content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40407, "comment not found")
		case errors.Is(err, services.ErrForbidden):
			utils.Error(ctx, http.StatusForbidden, 40303, "you can only edit your own comments")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to edit comment")
		}
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(comment.PostID)))
	utils.Success(ctx, gin.H{"comment": comment})
}

// DeleteComment deletes a comment by id.
func (c *CatController) DeleteComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40118, "unauthorized")
		return
	}
	commentID, ok := parseID(ctx.Param("commentId"))
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40049, "invalid comment id")
		return
	}

	comment, err := c.interactions.RemoveComment(ctx.Request.Context(), userID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40408, "comment not found")
		case errors.Is(err, services.ErrForbidden):
			utils.Error(ctx, http.StatusForbidden, 40304, "you can only delete your own comments")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete comment")
		}
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + strconv.Itoa(int(comment.PostID)))
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// wrap mirrors the standard response envelope so cached bytes match live
// responses.
func wrap(payload interface{}) interface{} {
	return struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data"`
	}{Code: 0, Message: "success", Data: payload}
}

// parsePageNumber interprets the zero-based pageNumber query value; absent or
// malformed values fall back to the first page.
func parsePageNumber(s string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
		return n
	}
	return 0
}

func parseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
