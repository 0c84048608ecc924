package routes

import (
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/quizzler-app/quizzler-backend/config"
	"github.com/quizzler-app/quizzler-backend/controllers"
	"github.com/quizzler-app/quizzler-backend/middleware"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, cfg *config.Config) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck(db))

	searchCache := gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register(db))
		auth.POST("/login", controllers.Login(db, cfg))
		auth.GET("/check", middleware.AuthMiddleware(cfg, db), controllers.CheckAuth(db))
	}

	user := api.Group("/user")
	{
		user.GET("/:username/profile", controllers.GetUserProfileByUsername(db))
		user.GET("/:username/lessons", controllers.GetUserLessonsByUsername(db))

		me := user.Group("")
		me.Use(middleware.AuthMiddleware(cfg, db))
		{
			me.GET("/profile", controllers.GetMyProfile(db))
			me.PATCH("/update", controllers.UpdateUser(db))
			me.PATCH("/avatar", controllers.UpdateAvatar(db))
			me.DELETE("/delete", controllers.DeleteUser(db))
			me.GET("/lessons", controllers.GetMyLessons(db))

			// Hoạt động học tập
			me.GET("/activity/flashcardsCreated", controllers.GetFlashcardsCreated(db))
			me.GET("/activity/logs", controllers.GetActivityLogs(db))
			me.GET("/activity/lastLesson", controllers.GetLastLesson(db))
			me.GET("/activity/lastWeek", controllers.GetLastWeekActivity(db))
		}
	}

	lesson := api.Group("/lesson")
	{
		lesson.GET("/:id", middleware.OptionalAuthMiddleware(cfg), controllers.GetLessonByID(db))

		lessonAuth := lesson.Group("")
		lessonAuth.Use(middleware.AuthMiddleware(cfg, db))
		{
			lessonAuth.POST("/add", controllers.AddLesson(db, cfg))
			lessonAuth.PATCH("/update", controllers.UpdateLesson(db, cfg))
			lessonAuth.DELETE("/delete/:id", controllers.DeleteLesson(db, cfg))
			lessonAuth.POST("/:id/toggleLike", controllers.ToggleLike(db))
			lessonAuth.GET("/liked", controllers.GetLikedLessons(db))
		}
	}

	flashcard := api.Group("/flashcard")
	flashcard.Use(middleware.AuthMiddleware(cfg, db))
	{
		flashcard.POST("/add", controllers.AddFlashcard(db, cfg))
		flashcard.PATCH("/update", controllers.UpdateFlashcard(db, cfg))
		flashcard.DELETE("/delete/:id", controllers.DeleteFlashcard(db, cfg))
		flashcard.POST("/log", controllers.LogFlashcardAnswer(db))
	}

	search := api.Group("/search")
	search.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		search.GET("", controllers.Search(db, cfg, searchCache))
		search.GET("/autocomplete", controllers.Autocomplete(db, cfg, searchCache))
	}

	api.GET("/tag", controllers.GetTags(db))

	return r
}
