package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hatch_egg_bot/internal/api"
	"hatch_egg_bot/internal/bot"
	"hatch_egg_bot/internal/repository"
	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/auth"
	"hatch_egg_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	store, err := repository.New(cfg.Store)
	if err != nil {
		zapLogger.Fatal("Failed to open state store", zap.Error(err))
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		zapLogger.Fatal("Failed to connect to telegram", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier := bot.NewNotifier(botAPI, 64)
	go notifier.Run(ctx)

	hub := api.NewHub()
	checker := bot.NewMembershipChecker(botAPI, cfg.Bot.Channel)
	userInfo := bot.NewUserInfoProvider(botAPI)

	svc := service.NewService(
		service.NewLimitService(store),
		service.NewEggService(store, notifier, hub),
		service.NewPointsService(store, checker, notifier),
		service.NewPaymentService(store, cfg.Payments.TonWallet),
		service.NewStatsService(store, userInfo),
		store,
	)

	b := bot.New(botAPI, cfg.Bot, svc)
	go b.Run(ctx)

	telegramAuth := auth.NewTelegramAuth(cfg.Bot.Token, cfg.TelegramAuth.DebugMode)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	a := router.Group("/api")
	api.NewStatsRoutes(a, svc, svc)
	api.NewPaymentRoutes(a, svc)
	api.NewEggchainRoutes(a, svc)
	api.NewLiveRoutes(a, hub)

	v1 := router.Group("/api/v1")
	api.NewMeRoutes(v1, svc, telegramAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
