package controllers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/whiskr/whiskr/config"
	"github.com/whiskr/whiskr/middleware"
	"github.com/whiskr/whiskr/models"
	"github.com/whiskr/whiskr/services"
	"github.com/whiskr/whiskr/storage"
	"github.com/whiskr/whiskr/stores"
	"github.com/whiskr/whiskr/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	host, portStr, _ := net.SplitHostPort(mr.Addr())
	port, _ := strconv.Atoi(portStr)
	config.SetForTesting(config.AppConfig{
		JWTSecret:         "test-secret",
		RedisHost:         host,
		RedisPort:         port,
		CommentOwnerCheck: true,
	})

	code := m.Run()
	mr.Close()
	os.Exit(code)
}

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}, &models.Follow{},
	))
	return db
}

func newTestCatController(t *testing.T, db *gorm.DB) *CatController {
	t.Helper()
	postStore := stores.NewPostStore(db)
	likeStore := stores.NewLikeStore(db)
	commentStore := stores.NewCommentStore(db)
	followStore := stores.NewFollowStore(db)
	userStore := stores.NewUserStore(db)

	feed := services.NewFeedService(postStore, likeStore, commentStore, followStore)
	interactions := services.NewInteractionService(db, postStore, likeStore, commentStore, userStore, true)
	images := storage.NewLocalImageStore(t.TempDir(), 1)
	return NewCatController(feed, interactions, images)
}

func seedTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTestPost(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.Post {
	t.Helper()
	p := &models.Post{UserID: ownerID, URL: "/static/uploads/" + title + ".jpg", Title: title}
	require.NoError(t, db.Create(p).Error)
	return p
}

// identityAs injects a resolved caller the way the auth middleware does.
func identityAs(id uint) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, id)
	}
}

func TestDeleteCommentInvalidatesDetailCache(t *testing.T) {
	db := newControllerTestDB(t)
	cat := newTestCatController(t, db)

	owner := seedTestUser(t, db, "owner")
	author := seedTestUser(t, db, "author")
	post := seedTestPost(t, db, owner.ID, "discussed")
	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "soon gone"}
	require.NoError(t, db.Create(comment).Error)

	cacheKey := fmt.Sprintf("cache:post:detail:%d", post.ID)
	utils.CacheSetJSON(cacheKey, gin.H{"stale": true}, time.Hour)
	_, ok := utils.CacheGetBytes(cacheKey)
	require.True(t, ok)

	r := gin.New()
	r.DELETE("/cat/comment/:commentId", identityAs(author.ID), cat.DeleteComment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/cat/comment/%d", comment.ID), nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var cnt int64
	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&cnt).Error)
	require.EqualValues(t, 0, cnt)

	// The deletion must take the cached detail payload with it.
	_, ok = utils.CacheGetBytes(cacheKey)
	require.False(t, ok)
}

func TestDeleteCommentForbiddenKeepsCache(t *testing.T) {
	db := newControllerTestDB(t)
	cat := newTestCatController(t, db)

	owner := seedTestUser(t, db, "owner")
	author := seedTestUser(t, db, "author")
	intruder := seedTestUser(t, db, "intruder")
	post := seedTestPost(t, db, owner.ID, "guarded")
	comment := &models.Comment{PostID: post.ID, UserID: author.ID, Content: "staying"}
	require.NoError(t, db.Create(comment).Error)

	cacheKey := fmt.Sprintf("cache:post:detail:%d", post.ID)
	utils.CacheSetJSON(cacheKey, gin.H{"cached": true}, time.Hour)

	r := gin.New()
	r.DELETE("/cat/comment/:commentId", identityAs(intruder.ID), cat.DeleteComment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/cat/comment/%d", comment.ID), nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	_, ok := utils.CacheGetBytes(cacheKey)
	require.True(t, ok)
}

type listResponse struct {
	Data struct {
		Items []models.Post `json:"items"`
	} `json:"data"`
}

func TestListLikesPageNumberModes(t *testing.T) {
	db := newControllerTestDB(t)
	cat := newTestCatController(t, db)

	owner := seedTestUser(t, db, "owner")
	fan := seedTestUser(t, db, "fan")
	for i := 1; i <= 12; i++ {
		p := seedTestPost(t, db, owner.ID, fmt.Sprintf("p-%02d", i))
		require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PostID: p.ID}).Error)
	}

	r := gin.New()
	r.GET("/cat/likes", identityAs(fan.ID), cat.ListLikes)

	get := func(query string) listResponse {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cat/likes"+query, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		var resp listResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	require.Len(t, get("").Data.Items, 12)
	require.Len(t, get("?pageNumber=0").Data.Items, 10)
	require.Len(t, get("?pageNumber=1").Data.Items, 2)

	// An unparseable pageNumber behaves like an absent one.
	require.Len(t, get("?pageNumber=abc").Data.Items, 12)
}
