package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-planner/internal/api"
	"task-planner/internal/bot"
	"task-planner/internal/config"
	"task-planner/internal/deadline"
	"task-planner/internal/logging"
	"task-planner/internal/notify"
	"task-planner/internal/repository"
	"task-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}

	logger := logging.New(logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: true,
	})
	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.NewDB(repository.Options{
		DSN:          cfg.DatabaseURL,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxOpenConns: cfg.DBMaxOpenConns,
		Logger:       logging.GormLogger(logger),
	})
	if err != nil {
		logger.Fatal("db", "err", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	clock := deadline.SystemClock{}
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	userSvc := service.NewUserService(userRepo, authSvc, service.LogPasswordNotifier{Logger: logger.WithPrefix("mail")})
	categorySvc := service.NewCategoryService(categoryRepo)
	taskSvc := service.NewTaskService(taskRepo, categoryRepo, cfg.Location, clock)
	summarySvc := service.NewSummaryService(taskRepo, cfg.Location, clock)

	transport, err := notify.NewTransport(cfg, logger)
	if err != nil {
		logger.Fatal("push transport", "err", err)
	}
	defer notify.Close(transport)
	dispatcher := notify.NewDispatcher(userRepo, transport, cfg.NotifyTitle, cfg.NotifyBody, logger)

	if cfg.PushTransport == config.TransportTelegram {
		tgBot, err := bot.New(cfg.TelegramToken, logger)
		if err != nil {
			logger.Fatal("telegram bot", "err", err)
		}
		go func() {
			if err := tgBot.Start(ctx); err != nil {
				logger.Error("telegram bot stopped", "err", err)
			}
		}()
	}

	scheduler := service.NewSchedulerService(cfg.Location, logger)
	notifications := service.NewNotificationScheduler(scheduler, dispatcher, cfg.DispatchTimeout, logger)
	if err := notifications.Register(cfg.NotifyTimes); err != nil {
		logger.Fatal("schedule notifications", "err", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(api.Services{
		Auth:          authSvc,
		Users:         userSvc,
		Categories:    categorySvc,
		Tasks:         taskSvc,
		Summaries:     summarySvc,
		Notifications: notifications,
	}, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Clock:          clock,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("task planner started", "addr", cfg.HTTPAddr, "transport", cfg.PushTransport, "timezone", cfg.Location.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped with error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	logger.Info("shutdown complete")
}
