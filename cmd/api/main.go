package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pixstore/internal/config"
	"pixstore/internal/domain/model"
	"pixstore/internal/gateway"
	"pixstore/internal/handler"
	"pixstore/internal/infra/db"
	"pixstore/internal/infra/logistics"
	"pixstore/internal/infra/rabbitmq"
	rediscache "pixstore/internal/infra/redis"
	infraRepo "pixstore/internal/infra/repository"
	"pixstore/internal/outbox"
	"pixstore/internal/scheduler"
	"pixstore/internal/server"
	"pixstore/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, telefone string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(userID, 10),
		"role":     string(role),
		"telefone": telefone,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.Order{},
		&model.StatusHistory{},
		&model.User{},
		&model.StatusTransition{},
		&model.StoreSettings{},
		&model.GatewayConfig{},
		&model.OutboxEvent{},
	); err != nil {
		log.Fatalf("db: migrate: %v", err)
	}

	txManager := infraRepo.NewTxManagerGorm(gormDB)
	settingsRepo := infraRepo.NewSettingsGormRepository(gormDB)
	gatewayRepo := infraRepo.NewGatewayGormRepository(gormDB)
	outboxRepo := infraRepo.NewOutboxGormRepository(gormDB)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
	}
	chargeCache := rediscache.NewChargeCache(redisClient)

	var publisher rabbitmq.PublisherInterface
	if cfg.AmqpURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.AmqpURL, cfg.AmqpExchange)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	var notifier logistics.NotifierInterface
	if cfg.LogisticsWebhookURL != "" {
		notifier = logistics.NewClient(cfg.LogisticsWebhookURL, 5*time.Second)
	}

	vendorClient := &http.Client{Timeout: 15 * time.Second}
	tokens := gateway.NewTokenCache()
	providers := usecase.NewProviderFactory(gatewayRepo, vendorClient, tokens)

	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret), accessTTL: 24 * time.Hour}

	orderUC := usecase.NewOrderUsecase(txManager)
	adminUC := usecase.NewAdminOrderUsecase(txManager, settingsRepo)
	paymentUC := usecase.NewPaymentUsecase(providers, chargeCache, cfg.PublicBaseURL)
	webhookUC := usecase.NewWebhookUsecase(txManager)
	userUC := usecase.NewUserUsecase(txManager, issuer)

	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, server.Handlers{
		Orders:     handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminUC),
		Payments:   handler.NewPaymentHandler(paymentUC),
		Webhooks:   handler.NewWebhookHandler(webhookUC),
		Users:      handler.NewUserHandler(userUC),
	})

	loop := scheduler.NewLoop(txManager, time.Duration(cfg.SchedulerPollSeconds)*time.Second)
	worker := outbox.NewWorker(outboxRepo, notifier, publisher, time.Duration(cfg.OutboxPollSeconds)*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// In-flight timers from a previous process are gone; rebuild them
	// from the durable scheduling columns before serving traffic.
	if err := loop.Recover(ctx); err != nil {
		log.Printf("scheduler: recover: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Run(ctx) })
	g.Go(func() error { return worker.Run(ctx) })
	g.Go(func() error { return server.Start(ctx, e, ":"+cfg.Port) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatalf("exit: %v", err)
	}
}
