package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/pratihub/pratihub_bot/internal/api"
	"github.com/pratihub/pratihub_bot/internal/app"
	"github.com/pratihub/pratihub_bot/internal/config"
	"github.com/pratihub/pratihub_bot/internal/controller"
	"github.com/pratihub/pratihub_bot/internal/controller/callbacks/callbacktypes"
	"github.com/pratihub/pratihub_bot/internal/repository"
	"github.com/pratihub/pratihub_bot/internal/service"
	"github.com/pratihub/pratihub_bot/internal/session"
	"github.com/pratihub/pratihub_bot/internal/slots"
)

// dialogMaxAge незаконченные диалоги старше этого удаляются
const dialogMaxAge = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting +praTiHub bot",
		"environment", cfg.Environment,
		"api", cfg.APIBaseURL,
		"session_store", cfg.SessionStore,
		"timezone", cfg.Location.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}
	defer closeStore()

	metrics := app.NewMetrics()
	if cfg.MetricsAddr != "" {
		go metrics.Serve(ctx, cfg.MetricsAddr, logger)
	}

	// ============================================================================
	// Backend client, sessions, services
	// ============================================================================

	client := api.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, logger).WithObserver(metrics)

	sessions := session.NewManager(store, client, logger, session.Options{
		UnauthorizedDebounce: cfg.UnauthorizedDebounce,
		RefreshSkew:          cfg.RefreshSkew,
		IdleTimeout:          cfg.IdleTimeout,
	})

	validate := service.NewValidator()
	grid := slots.Grid{
		StartHour: cfg.DayStartHour,
		EndHour:   cfg.DayEndHour,
		Interval:  time.Duration(cfg.SlotIntervalMinutes) * time.Minute,
	}

	meetingService := service.NewMeetingService(client, cfg.Location, logger)
	notificationService := service.NewNotificationService(client, validate, logger)

	deps := callbacktypes.Handler{
		Sessions:            sessions,
		AuthService:         service.NewAuthService(client, sessions, validate, logger),
		AvailabilityService: service.NewAvailabilityService(client, grid, cfg.Location, logger),
		BookingService:      service.NewBookingService(client, logger),
		MeetingService:      meetingService,
		TeamService:         service.NewTeamService(client, validate, logger),
		ProgressService:     service.NewProgressService(client, logger),
		NotificationService: notificationService,
		ForumService:        service.NewForumService(client, validate, logger),
		UserService:         service.NewUserService(client, validate, logger),
		Location:            cfg.Location,
		Logger:              logger,
	}

	// ============================================================================
	// Telegram
	// ============================================================================

	b, err := bot.New(cfg.TelegramToken, bot.WithErrorsHandler(func(err error) {
		logger.Warn("Telegram polling error", zap.Error(err))
	}))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, deps, metrics)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// меню команд не критично
		logger.Warn("Bot handlers registered without commands menu", zap.Error(err))
	}
	notifier := botController.Notifier()

	// ============================================================================
	// Background jobs
	// ============================================================================

	poller := app.NewPoller(logger)
	poller.Subscribe("session_refresh", cfg.SessionCheckInterval, sessions.CheckSessions)
	poller.Subscribe("session_activity", cfg.ActivityCheckInterval, sessions.CheckActivity)
	poller.SubscribeFanOut("meetings_watch", cfg.MeetingPollInterval, func(ctx context.Context) error {
		return meetingService.Watch(ctx, sessions, notifier)
	})
	poller.SubscribeFanOut("notifications_poll", cfg.NotificationPollInterval, func(ctx context.Context) error {
		return notificationService.Poll(ctx, sessions, notifier)
	})
	poller.Subscribe("active_sessions", time.Minute, func(ctx context.Context) error {
		list, err := sessions.List(ctx)
		if err != nil {
			return err
		}
		metrics.SetActiveSessions(len(list))
		return nil
	})
	poller.Subscribe("dialog_gc", time.Hour, func(context.Context) error {
		if n := botController.States().Expire(dialogMaxAge); n > 0 {
			logger.Info("Expired stale dialogs", zap.Int("count", n))
		}
		return nil
	})
	poller.Start(ctx)
	defer poller.Stop()

	reminders := app.NewReminders(cfg.Location, logger)
	if err := reminders.Add(cfg.ReminderCron, "daily_reminders", 5*time.Minute, func(ctx context.Context) error {
		return meetingService.SendReminders(ctx, sessions, notifier)
	}); err != nil {
		logger.Fatal("Failed to schedule reminders", zap.Error(err))
	}
	reminders.Start()
	defer reminders.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

// openSessionStore выбирает хранилище сессий по конфигу
func openSessionStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case config.StoreMemory:
		logger.Warn("Using in-memory session store, sessions are lost on restart")
		return session.NewMemoryStore(), func() {}, nil

	case config.StoreRedis:
		rdb := repository.NewRedisClient(cfg.RedisAddr)
		store := repository.NewRedisSessionStore(rdb)
		if !store.Healthy(ctx) {
			logger.Warn("Redis is not reachable yet", zap.String("addr", cfg.RedisAddr))
		}
		return store, func() { _ = rdb.Close() }, nil

	default:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		migrator, err := app.NewMigrator(pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := migrator.Run(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return repository.NewSessionRepository(pool), func() {
			_ = migrator.Close()
			pool.Close()
		}, nil
	}
}
