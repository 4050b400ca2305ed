package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/onthi-api/internal/config"
	"github.com/yourusername/onthi-api/internal/handler"
	"github.com/yourusername/onthi-api/internal/middleware"
	pgRepo "github.com/yourusername/onthi-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/onthi-api/internal/repository/redis"
	"github.com/yourusername/onthi-api/internal/service"
	"github.com/yourusername/onthi-api/internal/service/examsession"
	"github.com/yourusername/onthi-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	// Репозитории
	subjectRepo := pgRepo.NewSubjectRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)
	examConfigRepo := pgRepo.NewExamConfigRepo(db)
	profileRepo := pgRepo.NewProfileRepo(db)
	reminderRepo := pgRepo.NewReminderRepo(db)
	propertyRepo := pgRepo.NewPropertyOptionRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize cache repository: %v", err)
		os.Exit(1)
	}

	// Движок сессий экзамена
	sessionConfig := examsession.DefaultConfig()
	if cfg.Exam.SnapshotTTLHours > 0 {
		sessionConfig.SnapshotTTL = time.Duration(cfg.Exam.SnapshotTTLHours) * time.Hour
	}
	sessionManager := examsession.NewManager(sessionConfig, &examsession.Dependencies{
		CacheRepo: cacheRepo,
	})
	// Поднимаем незавершённую сессию после перезапуска
	if err := sessionManager.Restore(); err != nil {
		log.Printf("Не удалось восстановить сессию из снимка: %v", err)
	}

	// Сервисы
	importService := service.NewImportService(subjectRepo, questionRepo)
	subjectService := service.NewSubjectService(subjectRepo, questionRepo)
	questionService := service.NewQuestionService(subjectRepo, questionRepo)
	examService := service.NewExamService(subjectRepo, questionRepo, resultRepo, examConfigRepo, sessionManager)
	reviewService := service.NewReviewService(subjectRepo, questionRepo, resultRepo, sessionManager)
	exportService := service.NewExportService(subjectRepo, questionRepo)
	backupService := service.NewBackupService(db)

	// Таймер сессии: посекундный отсчет и автоотправка по истечении времени
	ctx, cancel := context.WithCancel(context.Background())
	runner := examsession.NewRunner(sessionManager, sessionConfig, examService.AutoSubmit)
	go runner.Run(ctx)

	// Обработчики
	importHandler := handler.NewImportHandler(importService, cfg.Import.MaxFileSizeMB)
	subjectHandler := handler.NewSubjectHandler(subjectService, exportService)
	questionHandler := handler.NewQuestionHandler(questionService)
	examHandler := handler.NewExamHandler(examService, examConfigRepo)
	resultHandler := handler.NewResultHandler(resultRepo, reviewService)
	backupHandler := handler.NewBackupHandler(backupService, cfg.Import.MaxFileSizeMB)
	settingsHandler := handler.NewSettingsHandler(profileRepo, reminderRepo, propertyRepo)

	rateLimiter := middleware.NewRateLimiter(cacheRepo)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := os.Getenv("GIN_MODE") == "release"
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Импорт банка вопросов (с ограничением частоты)
		importGroup := api.Group("/import")
		importGroup.Use(rateLimiter.LimitByIP(middleware.ImportRateLimitConfig(cfg.Import.RateLimitPerMinute)))
		{
			importGroup.POST("", importHandler.Import)
		}

		// Предметы
		subjects := api.Group("/subjects")
		{
			subjects.GET("", subjectHandler.GetAll)
			subjects.POST("", subjectHandler.Create)

			subjectWithID := subjects.Group("/:id")
			subjectWithID.Use(middleware.ExtractUintParam("id", "subjectID"))
			{
				subjectWithID.GET("", subjectHandler.Get)
				subjectWithID.PUT("", subjectHandler.Update)
				subjectWithID.DELETE("", subjectHandler.Delete)
				subjectWithID.GET("/export", subjectHandler.Export)
				subjectWithID.GET("/questions", questionHandler.GetBySubject)
			}
		}

		// Вопросы
		questions := api.Group("/questions")
		{
			questions.POST("", questionHandler.Create)

			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.GET("", questionHandler.Get)
				questionWithID.PUT("", questionHandler.Update)
				questionWithID.PATCH("/status", questionHandler.UpdateStatus)
				questionWithID.DELETE("", questionHandler.Delete)
			}
		}

		// Экзамен: текущая сессия
		exam := api.Group("/exam")
		{
			exam.POST("/start", examHandler.Start)
			exam.GET("/session", examHandler.Current)
			exam.POST("/answer", examHandler.Answer)
			exam.POST("/sub-answer", examHandler.SubAnswer)
			exam.POST("/pause", examHandler.Pause)
			exam.POST("/resume", examHandler.Resume)
			exam.POST("/submit", examHandler.Submit)
			exam.POST("/abandon", examHandler.Abandon)

			// Шаблоны экзаменов
			configs := exam.Group("/configs")
			{
				configs.GET("", examHandler.GetConfigs)
				configs.POST("", examHandler.CreateConfig)

				configWithID := configs.Group("/:id")
				configWithID.Use(middleware.ExtractUintParam("id", "configID"))
				{
					configWithID.PUT("", examHandler.UpdateConfig)
					configWithID.DELETE("", examHandler.DeleteConfig)
					configWithID.POST("/start", examHandler.StartFromConfig)
				}
			}
		}

		// Результаты, просмотр и пересдача
		results := api.Group("/results")
		{
			results.GET("", resultHandler.GetAll)

			resultWithID := results.Group("/:id")
			resultWithID.Use(middleware.ExtractUintParam("id", "resultID"))
			{
				resultWithID.GET("/review", resultHandler.Review)
				resultWithID.POST("/retake", resultHandler.Retake)
				resultWithID.DELETE("", resultHandler.Delete)
			}
		}

		// Резервные копии
		backup := api.Group("/backup")
		{
			backup.GET("/export", backupHandler.Export)
			backup.POST("/restore", backupHandler.Restore)
		}

		// Профиль, напоминания, справочники
		api.GET("/profile", settingsHandler.GetProfile)
		api.PUT("/profile", settingsHandler.SaveProfile)

		reminders := api.Group("/reminders")
		{
			reminders.GET("", settingsHandler.GetReminders)
			reminders.POST("", settingsHandler.CreateReminder)

			reminderWithID := reminders.Group("/:id")
			reminderWithID.Use(middleware.ExtractUintParam("id", "reminderID"))
			{
				reminderWithID.PUT("", settingsHandler.UpdateReminder)
				reminderWithID.DELETE("", settingsHandler.DeleteReminder)
			}
		}

		properties := api.Group("/property-options")
		{
			properties.GET("", settingsHandler.GetPropertyOptions)
			properties.POST("", settingsHandler.CreatePropertyOption)

			optionWithID := properties.Group("/:id")
			optionWithID.Use(middleware.ExtractUintParam("id", "optionID"))
			{
				optionWithID.DELETE("", settingsHandler.DeletePropertyOption)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Останавливаем таймер сессии
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
