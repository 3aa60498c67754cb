package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"

	"github.com/mathieu-neron/vixtube/internal/ai"
	"github.com/mathieu-neron/vixtube/internal/config"
	"github.com/mathieu-neron/vixtube/internal/db"
	"github.com/mathieu-neron/vixtube/internal/handler"
	"github.com/mathieu-neron/vixtube/internal/metrics"
	"github.com/mathieu-neron/vixtube/internal/middleware"
	"github.com/mathieu-neron/vixtube/internal/reaction"
	"github.com/mathieu-neron/vixtube/internal/repository"
	"github.com/mathieu-neron/vixtube/internal/router"
	"github.com/mathieu-neron/vixtube/internal/service"
)

const shutdownTimeout = 10 * time.Second

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the database schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	middleware.InitLogger(cfg.Log.Level, "vixtube-api")
	log := middleware.Component("server")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.Database.URL, middleware.Component("db"))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if migrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}
		log.Info().Msg("schema applied")
	}

	metrics.Init(pool)

	cache := service.NewCacheService(cfg.Redis.URL, cfg.Cache.CountTTL, middleware.Logger)
	defer cache.Close()

	gen, err := ai.New(ctx, cfg.AI, middleware.Logger)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}

	// Repositories
	reactionRepo := repository.NewReactionRepo(pool)
	subjectRepo := repository.NewSubjectRepo(pool)
	userRepo := repository.NewUserRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	commentRepo := repository.NewCommentRepo(pool)
	tweetRepo := repository.NewTweetRepo(pool)
	playlistRepo := repository.NewPlaylistRepo(pool)
	historyRepo := repository.NewHistoryRepo(pool)

	// Services
	ledger := reaction.NewLedger(reactionRepo, subjectRepo)
	reactionSvc := service.NewReactionService(ledger, cache, middleware.Logger)
	userSvc := service.NewUserService(userRepo, videoRepo, reactionRepo)
	videoSvc := service.NewVideoService(videoRepo, reactionSvc)
	commentSvc := service.NewCommentService(commentRepo, videoRepo, tweetRepo, reactionSvc)
	tweetSvc := service.NewTweetService(tweetRepo, userRepo, reactionSvc)
	playlistSvc := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	channelSvc := service.NewChannelService(userRepo, reactionSvc)
	historySvc := service.NewHistoryService(historyRepo, videoRepo)
	aiSvc := service.NewAIService(gen, videoRepo, middleware.Logger)

	app := router.NewApp("ViXTube API")
	stopLimiters := router.Setup(app, &router.Handlers{
		Health:   handler.NewHealthHandler(pool, cache.Client(), gen.Name(), version),
		Reaction: handler.NewReactionHandler(reactionSvc),
		Video:    handler.NewVideoHandler(videoSvc),
		Comment:  handler.NewCommentHandler(commentSvc),
		Tweet:    handler.NewTweetHandler(tweetSvc),
		Playlist: handler.NewPlaylistHandler(playlistSvc),
		Channel:  handler.NewChannelHandler(channelSvc),
		User:     handler.NewUserHandler(userSvc, historySvc),
		AI:       handler.NewAIHandler(aiSvc),
	}, middleware.NewAuth(cfg.Auth.JWTSecret, userSvc.Touch), cfg.Server.CORSOrigins)
	defer stopLimiters()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Server.Environment).
			Str("ai_provider", gen.Name()).Str("version", version).Msg("ViXTube API starting")
		errCh <- app.Listen(":"+cfg.Server.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
