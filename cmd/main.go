package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/giaic/promptnights/config"
	"github.com/giaic/promptnights/database"
	adminctrl "github.com/giaic/promptnights/internal/controller/admin"
	userctrl "github.com/giaic/promptnights/internal/controller/user"
	"github.com/giaic/promptnights/internal/logger"
	"github.com/giaic/promptnights/internal/middleware"
	"github.com/giaic/promptnights/internal/model"
	"github.com/giaic/promptnights/internal/ratelimit"
	"github.com/giaic/promptnights/internal/repository"
	"github.com/giaic/promptnights/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	generationLimit  = 20
	generationWindow = time.Hour
)

// @title Prompt Nights API
// @version 1.0
// @description Scoring backend for a 30-day prompt engineering competition. Users submit a structured prompt plus the code it generated; the server validates, executes and scores them.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewChallengeRepository,
			repository.NewSubmissionRepository,
			repository.NewLeaderboardRepository,
		),

		fx.Provide(
			service.NewUserService,
			service.NewTokenEstimatorService,
			service.NewPromptRulesService,
			service.NewSimilarityService,
			service.NewScoreAggregatorService,
			service.NewCodeRunnerService,
			service.NewChallengeService,
			service.NewLeaderboardService,
			service.NewSubmissionService,
			func() *ratelimit.SlidingWindow {
				return ratelimit.New(generationLimit, generationWindow)
			},
			service.NewGenerationService,
		),

		fx.Provide(
			middleware.NewAuthenticator,
			userctrl.NewChallengeController,
			userctrl.NewSubmissionController,
			userctrl.NewLeaderboardController,
			userctrl.NewGenerateController,
			adminctrl.NewChallengeController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.RequestID())
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
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	auth *middleware.Authenticator,
	challengeCtrl *userctrl.ChallengeController,
	submissionCtrl *userctrl.SubmissionController,
	leaderboardCtrl *userctrl.LeaderboardController,
	generateCtrl *userctrl.GenerateController,
	adminChallengeCtrl *adminctrl.ChallengeController,
) {
	api := router.Group("/api/v1")
	{
		api.GET("/challenges", challengeCtrl.ListChallenges)
		api.GET("/challenges/:day_number", challengeCtrl.GetChallenge)
		api.GET("/leaderboard", leaderboardCtrl.GetLeaderboard)
		api.GET("/leaderboard/breakdown", leaderboardCtrl.GetBreakdown)

		authed := api.Group("")
		authed.Use(auth.Auth())
		{
			authed.POST("/generate", generateCtrl.Generate)
			authed.POST("/submissions", submissionCtrl.CreateSubmission)
			authed.GET("/submissions/me", submissionCtrl.ListMySubmissions)
			authed.GET("/leaderboard/me", leaderboardCtrl.GetMyRank)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.Auth(), auth.RequireAdmin())
		{
			adminGroup.POST("/challenges", adminChallengeCtrl.CreateChallenge)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Prompt Nights API server starting on port %s", cfg.Server.Port)
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
		&model.Challenge{},
		&model.Submission{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
