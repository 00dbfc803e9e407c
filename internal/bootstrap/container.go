package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"eop-planner-be/internal/config"
	"eop-planner-be/internal/controller"
	"eop-planner-be/internal/handler"
	"eop-planner-be/internal/pkg/logger"
	"eop-planner-be/internal/pkg/mailer"
	"eop-planner-be/internal/repository/unitofwork"
	"eop-planner-be/internal/service"
	"eop-planner-be/internal/websocket"
	"eop-planner-be/pkg/cache"
	"eop-planner-be/pkg/conversation"
	"eop-planner-be/pkg/llm/factory"
	pktNats "eop-planner-be/pkg/nats"
	"eop-planner-be/pkg/realtime"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	ProposalController controller.IProposalController
	RulesController    controller.IRulesController
	ProxyController    controller.IProxyController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Exposed for seeding / shutdown
	RulesService service.IRulesService
	Broker       *realtime.Broker
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Snapshot bus (in-process, feeds the SSE stream)
	watermillLogger := watermill.NewStdLogger(false, false)
	broker := realtime.NewBroker(watermillLogger)

	// 3. LLM provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.GeminiApiKey,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.Timeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	convLogger := log.New(os.Stdout, "[conversation] ", log.LstdFlags)
	classifier := conversation.NewClassifier(llmProvider, convLogger)
	validator := conversation.NewValidator(llmProvider, convLogger)
	responder := conversation.NewResponder(llmProvider, convLogger)

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	catalogCache := cache.NewCatalogCache(cfg.App.CatalogCacheTTL)
	notifier := service.NewProposalNotifier(broker, wsHub, natsPub, sysLogger)

	rulesService := service.NewRulesService(uowFactory, catalogCache, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		rulesService,
		classifier,
		validator,
		responder,
		notifier,
		emailService,
		sysLogger,
	)
	proposalService := service.NewProposalService(uowFactory, llmProvider, notifier, sysLogger)
	authService := service.NewAuthService(uowFactory, cfg.Auth)

	notifService := service.NewNotificationService(uowFactory, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		ChatController:     controller.NewChatController(chatService),
		ProposalController: controller.NewProposalController(proposalService, broker, sysLogger),
		RulesController:    controller.NewRulesController(rulesService),
		ProxyController:    controller.NewProxyController(cfg.Backend, sysLogger),

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		RulesService: rulesService,
		Broker:       broker,
	}
}
