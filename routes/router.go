package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/whiskr/whiskr/config"
	"github.com/whiskr/whiskr/controllers"
	"github.com/whiskr/whiskr/middleware"
	"github.com/whiskr/whiskr/services"
	"github.com/whiskr/whiskr/storage"
	"github.com/whiskr/whiskr/stores"
	"github.com/whiskr/whiskr/utils"
)

// SetupRouter wires routes, middlewares, stores, and services.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postStore := stores.NewPostStore(db)
	likeStore := stores.NewLikeStore(db)
	commentStore := stores.NewCommentStore(db)
	followStore := stores.NewFollowStore(db)
	userStore := stores.NewUserStore(db)

	feedService := services.NewFeedService(postStore, likeStore, commentStore, followStore)
	interactionService := services.NewInteractionService(db, postStore, likeStore, commentStore, userStore, cfg.CommentOwnerCheck)
	followService := services.NewFollowService(followStore, userStore)
	imageStore := storage.NewLocalImageStore(cfg.UploadDir, cfg.UploadMaxSizeMB)

	authController := controllers.NewAuthController(db)
	catController := controllers.NewCatController(feedService, interactionService, imageStore)
	followController := controllers.NewFollowController(followService)

	api := r.Group("/api/v1")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	authRequired := middleware.AuthRequired()

	cat := r.Group("/cat")
	cat.GET("", catController.List)
	cat.POST("/upload", authRequired, catController.Upload)
	cat.POST("/comment", authRequired, catController.AddComment)
	cat.PUT("/like", authRequired, catController.Like)
	cat.PUT("/dislike", authRequired, catController.Dislike)
	cat.PUT("/comment/:commentId", authRequired, catController.EditComment)

	// gin's tree cannot mix static segments with a wildcard at the same
	// position, so /cat/follows, /cat/likes, and /cat/user/... are
	// dispatched by hand under the :id wildcard.
	cat.GET("/:id", func(ctx *gin.Context) {
		switch ctx.Param("id") {
		case "follows":
			if middleware.Authenticate(ctx) {
				catController.ListFollows(ctx)
			}
		case "likes":
			if middleware.Authenticate(ctx) {
				catController.ListLikes(ctx)
			}
		default:
			catController.Get(ctx)
		}
	})
	cat.GET("/:id/:userId", func(ctx *gin.Context) {
		if ctx.Param("id") != "user" {
			utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
			return
		}
		catController.ListByUser(ctx)
	})
	cat.DELETE("/:id", authRequired, catController.Delete)
	cat.DELETE("/:id/:commentId", authRequired, func(ctx *gin.Context) {
		if ctx.Param("id") != "comment" {
			utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
			return
		}
		catController.DeleteComment(ctx)
	})

	user := r.Group("/user")
	user.Use(middleware.AuthRequired())
	user.PUT("/follow/:id", followController.Follow)
	user.DELETE("/follow/:id", followController.Unfollow)
	user.GET("/following", followController.Following)
	user.GET("/me", authController.Me)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
