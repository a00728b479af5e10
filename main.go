package main

import (
	"log"
	"net/http"
	"time"

	"tutor-service/internal/adaptive"
	"tutor-service/internal/chat"
	"tutor-service/internal/config"
	"tutor-service/internal/db"
	"tutor-service/internal/event"
	"tutor-service/internal/handlers"
	"tutor-service/internal/llm"
	"tutor-service/internal/middleware"
	"tutor-service/internal/progress"
	"tutor-service/internal/repository"
	"tutor-service/internal/tutor"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	if err := db.InitMongo(cfg.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.CloseMongo()

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	oracle, err := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize completion client: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.MongoDatabase)

	// Repositories
	questionRepo := repository.NewQuestionRepository(database)
	contentRepo := repository.NewContentRepository(database)
	progressRepo := repository.NewProgressRepository(database)
	chatRepo := repository.NewChatRepository(database)

	// Services
	progressService := progress.NewService(progressRepo)
	engine := adaptive.NewEngine(questionRepo, progressService)
	tutorService := tutor.NewService(oracle, questionRepo, contentRepo, progressService, engine, tutor.NewMemoryStore())
	chatService := chat.NewService(chatRepo, oracle)

	// Handlers
	questionHandler := handlers.NewQuestionHandler(questionRepo)
	contentHandler := handlers.NewContentHandler(contentRepo)
	progressHandler := handlers.NewProgressHandler(progressService, engine)
	tutorHandler := handlers.NewTutorHandler(tutorService)
	chatHandler := handlers.NewChatHandler(chatService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
		})
	})

	// Public routes - question catalog reads
	publicQuestion := r.Group("/public/tutor/question")
	{
		publicQuestion.GET("/", questionHandler.ListQuestions)
		publicQuestion.GET("/:id", questionHandler.GetQuestion)
	}

	publicContent := r.Group("/public/tutor/content")
	{
		publicContent.GET("/", contentHandler.ListBySubject)
		publicContent.GET("/:id", contentHandler.GetContent)
		publicContent.GET("/:id/questions", questionHandler.ListByContent)
	}

	// Protected routes - catalog and content management (admin only)
	protectedQuestion := r.Group("/protected/tutor/question")
	protectedQuestion.Use(middleware.RequireAuth(), middleware.RequireAdmin())
	{
		protectedQuestion.POST("/", func(c *gin.Context) {
			questionHandler.CreateQuestion(c)
			if publisher != nil {
				publisher.Publish(event.QuestionCreated, gin.H{
					"user_id":   middleware.UserID(c),
					"timestamp": time.Now(),
				})
			}
		})
		protectedQuestion.POST("/batch", func(c *gin.Context) {
			questionHandler.CreateQuestionsBatch(c)
			if publisher != nil {
				publisher.Publish(event.QuestionCreated, gin.H{
					"user_id":   middleware.UserID(c),
					"batch":     true,
					"timestamp": time.Now(),
				})
			}
		})
		protectedQuestion.PUT("/:id", func(c *gin.Context) {
			questionHandler.UpdateQuestion(c)
			if publisher != nil {
				publisher.Publish(event.QuestionUpdated, gin.H{
					"question_id": c.Param("id"),
					"user_id":     middleware.UserID(c),
					"timestamp":   time.Now(),
				})
			}
		})
		protectedQuestion.DELETE("/:id", func(c *gin.Context) {
			questionHandler.DeleteQuestion(c)
			if publisher != nil {
				publisher.Publish(event.QuestionDeleted, gin.H{
					"question_id": c.Param("id"),
					"user_id":     middleware.UserID(c),
					"timestamp":   time.Now(),
				})
			}
		})
	}

	protectedContent := r.Group("/protected/tutor/content")
	protectedContent.Use(middleware.RequireAuth(), middleware.RequireAdmin())
	{
		protectedContent.POST("/", func(c *gin.Context) {
			contentHandler.CreateContent(c)
			if publisher != nil {
				publisher.Publish(event.ContentCreated, gin.H{
					"user_id":   middleware.UserID(c),
					"timestamp": time.Now(),
				})
			}
		})
		protectedContent.DELETE("/:id", contentHandler.DeleteContent)
	}

	setupSessionRoutes(r, tutorHandler, publisher)
	setupProgressRoutes(r, progressHandler, publisher)
	setupChatRoutes(r, chatHandler)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupSessionRoutes(r *gin.Engine, tutorHandler *handlers.TutorHandler, publisher *event.EventPublisher) {
	protectedSession := r.Group("/protected/tutor/session")
	protectedSession.Use(middleware.RequireAuth())
	{
		// Start a new Socratic dialogue
		protectedSession.POST("/start", func(c *gin.Context) {
			tutorHandler.StartSession(c)
			if publisher != nil {
				publisher.Publish(event.SessionStarted, gin.H{
					"user_id":   middleware.UserID(c),
					"timestamp": time.Now(),
				})
			}
		})

		// Send a message in the ongoing dialogue
		protectedSession.POST("/message", func(c *gin.Context) {
			tutorHandler.SendMessage(c)
			if publisher != nil {
				publisher.Publish(event.AnswerEvaluated, gin.H{
					"user_id":   middleware.UserID(c),
					"timestamp": time.Now(),
				})
			}
		})

		// Check a literal answer against the current question
		protectedSession.POST("/check-answer", func(c *gin.Context) {
			tutorHandler.CheckAnswer(c)
			if publisher != nil {
				publisher.Publish(event.AnswerEvaluated, gin.H{
					"user_id":   middleware.UserID(c),
					"timestamp": time.Now(),
				})
			}
		})

		// Advance to the next question
		protectedSession.GET("/next-question", func(c *gin.Context) {
			tutorHandler.NextQuestion(c)
			if publisher != nil {
				publisher.Publish(event.QuestionAdvanced, gin.H{
					"user_id":   middleware.UserID(c),
					"subject":   c.Query("subject"),
					"timestamp": time.Now(),
				})
			}
		})

		// Explain one element of the session's shared image
		protectedSession.POST("/image-element-info", tutorHandler.ImageElementInfo)

		// Discard the active session
		protectedSession.DELETE("/", tutorHandler.EndSession)
	}
}

func setupProgressRoutes(r *gin.Engine, progressHandler *handlers.ProgressHandler, publisher *event.EventPublisher) {
	protectedProgress := r.Group("/protected/tutor/progress")
	protectedProgress.Use(middleware.RequireAuth())
	{
		protectedProgress.GET("/", progressHandler.GetProgress)
		protectedProgress.GET("/subject/:subject", progressHandler.GetSubjectProgress)
		protectedProgress.GET("/analytics", progressHandler.GetAnalytics)
		protectedProgress.GET("/recommendations", progressHandler.GetRecommendations)

		protectedProgress.POST("/update", func(c *gin.Context) {
			progressHandler.UpdateProgress(c)
			if publisher != nil {
				publisher.Publish(event.ProgressUpdated, gin.H{
					"user_id":   middleware.UserID(c),
					"timestamp": time.Now(),
				})
			}
		})

		protectedProgress.POST("/reset", func(c *gin.Context) {
			progressHandler.ResetProgress(c)
			if publisher != nil {
				publisher.Publish(event.ProgressReset, gin.H{
					"user_id":   middleware.UserID(c),
					"timestamp": time.Now(),
				})
			}
		})
	}
}

func setupChatRoutes(r *gin.Engine, chatHandler *handlers.ChatHandler) {
	protectedChat := r.Group("/protected/tutor/chat")
	protectedChat.Use(middleware.RequireAuth())
	{
		protectedChat.GET("/history", chatHandler.GetHistory)
		protectedChat.POST("/message", chatHandler.SendMessage)
		protectedChat.DELETE("/clear", chatHandler.ClearHistory)
	}
}
