package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mkaneko/traintrack/config"
	"github.com/mkaneko/traintrack/database"
	_ "github.com/mkaneko/traintrack/docs" // Swagger docs - auto-generated
	adminctrl "github.com/mkaneko/traintrack/internal/controller/admin"
	userctrl "github.com/mkaneko/traintrack/internal/controller/user"
	"github.com/mkaneko/traintrack/internal/logger"
	"github.com/mkaneko/traintrack/internal/model"
	"github.com/mkaneko/traintrack/internal/repository"
	"github.com/mkaneko/traintrack/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title TrainTrack API
// @version 1.0
// @description Internal e-learning tracker: courses, learning records, and resumable per-user progress.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewCourseRepository,
			repository.NewLearningRecordRepository,
			repository.NewProgressRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewRosterService,
			func(
				progressRepo repository.ProgressRepository,
				userRepo repository.UserRepository,
				courseRepo repository.CourseRepository,
				roster service.RosterService,
				cfg *config.Config,
			) service.ProgressTrackerService {
				return service.NewProgressTrackerService(progressRepo, userRepo, courseRepo, roster, cfg.Progress.TTL)
			},
			service.NewUserService,
			service.NewCourseService,
			service.NewLearningRecordService,
			func(recordRepo repository.LearningRecordRepository, db *gorm.DB) service.RecordMaintenanceService {
				return service.NewRecordMaintenanceService(recordRepo, db)
			},
			service.NewBackupService,
		),

		// API Controllers Layer
		fx.Provide(
			userctrl.NewProgressController,
			userctrl.NewCourseController,
			userctrl.NewRecordController,
			adminctrl.NewUserAdminController,
			adminctrl.NewCourseAdminController,
			adminctrl.NewRecordAdminController,
			adminctrl.NewProgressAdminController,
			adminctrl.NewBackupController,
			adminctrl.NewDashboardController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartProgressSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Route gin's request log through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	progressCtrl *userctrl.ProgressController,
	courseCtrl *userctrl.CourseController,
	recordCtrl *userctrl.RecordController,
	userAdminCtrl *adminctrl.UserAdminController,
	courseAdminCtrl *adminctrl.CourseAdminController,
	recordAdminCtrl *adminctrl.RecordAdminController,
	progressAdminCtrl *adminctrl.ProgressAdminController,
	backupCtrl *adminctrl.BackupController,
	dashboardCtrl *adminctrl.DashboardController,
) {
	apiGroup := router.Group("/api/v1")
	{
		apiGroup.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
		})

		progressGroup := apiGroup.Group("/progress")
		progressGroup.GET("/:user_id", progressCtrl.GetProgress)
		progressGroup.GET("/:user_id/resume", progressCtrl.Resume)
		progressGroup.PUT("/:user_id", progressCtrl.SaveProgress)
		progressGroup.DELETE("/:user_id", progressCtrl.ClearProgress)

		apiGroup.GET("/courses", courseCtrl.GetAllCourses)
		apiGroup.GET("/courses/:course_id", courseCtrl.GetCourse)

		apiGroup.GET("/learning-records", recordCtrl.GetAllRecords)
		apiGroup.GET("/learning-records/user/:user_id", recordCtrl.GetUserRecords)
		apiGroup.POST("/learning-records", recordCtrl.CreateRecord)
	}

	adminGroup := router.Group("/api/v1/admin")
	adminGroup.Use(adminctrl.RequireAdmin())
	{
		adminGroup.GET("/dashboard", dashboardCtrl.GetDashboard)

		adminGroup.GET("/users", userAdminCtrl.GetAllUsers)
		adminGroup.POST("/users", userAdminCtrl.CreateUser)
		adminGroup.PUT("/users/:user_id", userAdminCtrl.UpdateUser)
		adminGroup.DELETE("/users/:user_id", userAdminCtrl.DeleteUser)

		adminGroup.POST("/courses", courseAdminCtrl.CreateCourse)
		adminGroup.PUT("/courses/:course_id", courseAdminCtrl.UpdateCourse)
		adminGroup.DELETE("/courses/:course_id", courseAdminCtrl.DeleteCourse)

		adminGroup.POST("/progress/cleanup", progressAdminCtrl.CleanupExpired)
		adminGroup.DELETE("/progress/:user_id", progressAdminCtrl.ClearUserProgress)

		adminGroup.GET("/learning-records/duplicates", recordAdminCtrl.DuplicateReport)
		adminGroup.POST("/learning-records/keep-latest", recordAdminCtrl.KeepLatestOnly)
		adminGroup.POST("/learning-records/reset", recordAdminCtrl.ResetAll)

		adminGroup.GET("/export", backupCtrl.Export)
		adminGroup.POST("/import", backupCtrl.Import)
		adminGroup.DELETE("/data", backupCtrl.ResetData)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("TrainTrack server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.LearningRecord{},
		&model.Progress{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// StartProgressSweeper runs the hourly expired-slot sweep for as long as the
// application is up.
func StartProgressSweeper(lc fx.Lifecycle, tracker service.ProgressTrackerService, cfg *config.Config) {
	sweeper := service.NewProgressSweeper(tracker, cfg.Progress.SweepInterval)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
