package handlers

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jermer/quizzly-backend/config"
	"github.com/jermer/quizzly-backend/internal/middleware"
	"github.com/jermer/quizzly-backend/internal/repository"
)

// NewRouter wires every repository operation to exactly one route.
func NewRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "quizzly-backend",
		})
	})

	userRepo := repository.NewUserRepository(db, cfg.Auth.BcryptCost)
	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	authHandler := NewAuthHandler(userRepo, cfg.JWT.Secret)
	userHandler := NewUserHandler(userRepo)
	quizHandler := NewQuizHandler(quizRepo)
	questionHandler := NewQuestionHandler(questionRepo)

	requireAuth := middleware.RequireAuth(cfg.JWT.Secret)

	auth := router.Group("/auth")
	{
		auth.POST("/token", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	users := router.Group("/users", requireAuth)
	{
		users.GET("", userHandler.List)
		users.GET("/:username", middleware.RequireSelfOrAdmin(), userHandler.Get)
		users.PATCH("/:username", middleware.RequireSelfOrAdmin(), userHandler.Update)
		users.DELETE("/:username", middleware.RequireSelfOrAdmin(), userHandler.Remove)
		users.POST("/:username/quizzes/:id", middleware.RequireSelfOrAdmin(), userHandler.RecordScore)
	}

	quizzes := router.Group("/quizzes")
	{
		quizzes.GET("", quizHandler.List)
		quizzes.GET("/:id", quizHandler.Get)
		quizzes.POST("", requireAuth, quizHandler.Create)
		quizzes.PATCH("/:id", requireAuth, quizHandler.Update)
		quizzes.DELETE("/:id", requireAuth, quizHandler.Remove)
	}

	questions := router.Group("/questions")
	{
		questions.GET("", questionHandler.List)
		questions.GET("/:id", questionHandler.Get)
		questions.POST("", requireAuth, questionHandler.Create)
		questions.PATCH("/:id", requireAuth, questionHandler.Update)
		questions.DELETE("/:id", requireAuth, questionHandler.Remove)
	}

	return router
}
