package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"FinAI_Community/internal/config"
	"FinAI_Community/internal/handler"
	"FinAI_Community/internal/pkg"
	"FinAI_Community/internal/realtime"
	"FinAI_Community/internal/repository/mysql"
	"FinAI_Community/internal/repository/redis"
	"FinAI_Community/internal/router"
	"FinAI_Community/internal/service"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:          "finai",
		Short:        "FinAI community backend",
		SilenceUsage: true,
		RunE:         func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP and websocket server",
			RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update database tables",
			RunE:  func(cmd *cobra.Command, args []string) error { return migrate() },
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run:   func(cmd *cobra.Command, args []string) { fmt.Println(version) },
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func migrate() error {
	cfg := config.Load()
	pkg.InitLogger(cfg.LogLevel)
	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		return err
	}
	if err := mysql.AutoMigrate(mysql.DB); err != nil {
		return err
	}
	slog.Info("migration finished")
	return nil
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	pkg.InitLogger(cfg.LogLevel)
	pkg.SetSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
	if err := pkg.InitID(cfg.SnowflakeNode); err != nil {
		return fmt.Errorf("init snowflake: %w", err)
	}
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		return fmt.Errorf("connect mysql: %w", err)
	}
	// 自动建表（开发阶段 OK）
	if cfg.Env == "development" {
		if err := mysql.AutoMigrate(mysql.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// 连接redis
	if err := redis.Init(ctx, cfg.Redis); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redis.Close()

	userRepo := &mysql.UserRepository{DB: mysql.DB}
	communityRepo := &mysql.CommunityRepository{DB: mysql.DB}
	memberRepo := &mysql.CommunityMemberRepository{DB: mysql.DB}
	messageRepo := &mysql.MessageRepository{DB: mysql.DB}
	applicationRepo := &mysql.ApplicationRepository{DB: mysql.DB}
	outboxRepo := &mysql.OutboxRepository{DB: mysql.DB}
	sessionRepo := &redis.SessionRepository{RDB: redis.Client}
	newsCache := &redis.NewsCacheRepository{RDB: redis.Client}

	hub := realtime.NewHub(realtime.Options{
		RatePerSec: cfg.Realtime.RatePerSec,
		Burst:      cfg.Realtime.Burst,
		Rooms:      communityRepo,
	})

	var answerer service.Answerer
	if a, err := pkg.NewOpenAIAnswerer(cfg.OpenAI); err != nil {
		slog.Warn("chatbot disabled", "err", err)
	} else {
		answerer = a
	}

	userSvc := service.NewUserService(userRepo, sessionRepo, communityRepo, service.NewEmailNotifier(cfg.SMTP))
	communitySvc := service.NewCommunityService(communityRepo, memberRepo, userRepo)
	messageSvc := service.NewMessageService(messageRepo, communityRepo, userRepo, hub)
	applicationSvc := service.NewApplicationService(applicationRepo, userRepo, cfg.Application.AllowRetransition)
	newsSvc := service.NewNewsService(pkg.NewHTMLScraper(nil), newsCache, cfg.News.URLs, cfg.News.CacheTTL)
	chatbotSvc := service.NewChatbotService(answerer)

	// outbox 投递，未配置 kafka 时只打日志
	sender := service.Sender(service.LogSender)
	if cfg.Kafka.Enabled() {
		producer := pkg.NewKafkaProducer(cfg.Kafka)
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(outboxRepo, sender).Run(ctx)

	r := router.InitRouter(router.Deps{
		Auth:        userSvc,
		AdminKey:    cfg.AdminKey,
		CORSOrigin:  cfg.CORS,
		User:        handler.NewUserHandler(userSvc),
		Community:   handler.NewCommunityHandler(communitySvc),
		Message:     handler.NewMessageHandler(messageSvc),
		Application: handler.NewApplicationHandler(applicationSvc),
		News:        handler.NewNewsHandler(newsSvc, chatbotSvc),
		WS:          handler.NewWSHandler(userSvc, hub, cfg.CORS),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
