package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/api"
	"github.com/lalith-99/communityhub/internal/chat"
	"github.com/lalith-99/communityhub/internal/config"
	"github.com/lalith-99/communityhub/internal/db"
	"github.com/lalith-99/communityhub/internal/filestore"
	"github.com/lalith-99/communityhub/internal/livequery"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/notify"
	"github.com/lalith-99/communityhub/internal/observ"
	"github.com/lalith-99/communityhub/internal/portal"
	"github.com/lalith-99/communityhub/internal/realtime"
	"github.com/lalith-99/communityhub/internal/repository/postgres"
	"github.com/lalith-99/communityhub/internal/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg.DatabaseURL, db.PoolSize{
		Max: int32(cfg.DBMaxConns),
		Min: int32(cfg.DBMinConns),
	}, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	profileRepo := postgres.NewProfileStore(pool)
	channelRepo := postgres.NewChannelStore(pool)
	membershipRepo := postgres.NewMembershipStore(pool)
	messageRepo := postgres.NewMessageStore(pool)
	dmRepo := postgres.NewDirectMessageStore(pool)
	activityRepo := postgres.NewActivityStore(pool)
	notificationRepo := postgres.NewNotificationStore(pool)
	jobRepo := postgres.NewJobStore(pool)
	matrimonyRepo := postgres.NewMatrimonyStore(pool)
	businessRepo := postgres.NewBusinessStore(pool)
	reportRepo := postgres.NewReportStore(pool)
	eventRepo := postgres.NewEventStore(pool)
	articleRepo := postgres.NewArticleStore(pool)

	// Writes invalidate live queries on this instance directly; the broker
	// carries the INSERT events to every instance, this one included.
	registry := livequery.NewRegistry(cfg.QueryTimeout, logger.Named("livequery"))
	hub := realtime.NewHub(logger.Named("realtime"))
	broker := realtime.NewBroker(rdb, hub, logger.Named("realtime"))
	announcer := realtime.NewAnnouncer(registry, broker, logger.Named("realtime"))

	brokerDone := make(chan error, 1)
	go func() { brokerDone <- broker.Run(ctx, nil) }()

	recorder := activity.NewRecorder(activityRepo, logger)
	files, err := filestore.NewLocal(cfg.UploadDir, cfg.PublicFilesURL, logger)
	if err != nil {
		return err
	}

	chatSvc := chat.NewService(chat.Deps{
		Profiles:       profileRepo,
		Channels:       channelRepo,
		Members:        membershipRepo,
		Messages:       messageRepo,
		DirectMessages: dmRepo,
		Activity:       recorder,
		Announcer:      announcer,
		FeedWindow:     cfg.FeedWindow,
		Logger:         logger,
	})
	notifySvc := notify.NewService(notificationRepo, announcer, logger)
	events := portal.NewEvents(eventRepo, announcer, logger)

	gateway := ws.NewGateway(ctx, &ws.Queries{
		Chat:          chatSvc,
		Notifications: notifySvc,
		Activity:      recorder,
		Events:        events,
		Intervals: ws.Intervals{
			Channels:      cfg.ChannelPollInterval,
			Threads:       cfg.ThreadPollInterval,
			Notifications: cfg.NotificationPollInterval,
			Activity:      cfg.ActivityPollInterval,
			Events:        cfg.EventPollInterval,
		},
	}, registry, hub, cfg.AllowedOrigins, logger.Named("ws"))

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(middleware.RequestLogger(logger), gin.Recovery())

	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "postgres"})
			return
		}
		if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	srv.Static("/files", files.Root())

	// The websocket outlives any request deadline, so it sits outside the
	// timeout group.
	srv.GET("/v1/ws", middleware.AuthMiddleware(cfg.JWTSecret), gateway.Serve)

	v1 := srv.Group("/v1")
	v1.Use(middleware.Timeout(cfg.RequestTimeout))
	api.Register(v1, cfg.JWTSecret, api.Handlers{
		Auth:          api.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger),
		Channels:      api.NewChannelHandler(chatSvc, logger),
		DMs:           api.NewDMHandler(chatSvc, logger),
		Notifications: api.NewNotificationHandler(notifySvc, recorder, logger),
		Jobs:          api.NewJobHandler(portal.NewJobs(jobRepo, files, recorder, notifySvc, logger), logger),
		Matrimony:     api.NewMatrimonyHandler(portal.NewMatrimony(matrimonyRepo, profileRepo, files, recorder, logger), logger),
		Directory:     api.NewDirectoryHandler(portal.NewDirectory(businessRepo, profileRepo), logger),
		Events:        api.NewEventHandler(events, logger),
		News:          api.NewNewsHandler(portal.NewNews(articleRepo, logger), logger),
		Reports:       api.NewReportHandler(portal.NewModeration(reportRepo, recorder), logger),
		Uploads:       api.NewUploadHandler(files, logger),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting communityhub",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case err := <-brokerDone:
		if err = brokerExit(ctx, err); err != nil {
			logger.Error("realtime broker stopped", zap.Error(err))
			return err
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// brokerExit turns the broker's return into the process outcome. The
// broker only returns cleanly on shutdown, so a nil while ctx is live
// still means live queries stopped receiving events.
func brokerExit(ctx context.Context, err error) error {
	if err != nil {
		return fmt.Errorf("realtime broker: %w", err)
	}
	if ctx.Err() == nil {
		return errors.New("realtime broker stopped unexpectedly")
	}
	return nil
}
