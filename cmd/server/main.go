// Command server runs the door access service: REST and websocket
// transports, the Kafka request queue and the decision engine over the
// configured stores.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gatekeeper/internal/access"
	accesshandler "gatekeeper/internal/access/handler"
	"gatekeeper/internal/access/metrics"
	"gatekeeper/internal/access/queue"
	"gatekeeper/internal/audit"
	audithandler "gatekeeper/internal/audit/handler"
	"gatekeeper/internal/auth"
	"gatekeeper/internal/doorconfig"
	"gatekeeper/internal/domain"
	"gatekeeper/internal/enroll"
	httprouter "gatekeeper/internal/http"
	"gatekeeper/internal/jwttoken"
	"gatekeeper/internal/nfc"
	"gatekeeper/internal/notify"
	"gatekeeper/internal/platform/config"
	"gatekeeper/internal/platform/httpserver"
	"gatekeeper/internal/platform/kafka"
	"gatekeeper/internal/platform/logger"
	"gatekeeper/internal/platform/postgres"
	"gatekeeper/internal/platform/redis"
	"gatekeeper/internal/transport/ws"
	"gatekeeper/internal/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(slog.Level(cfg.LogLevel))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stores: Postgres when a DSN is configured, in-memory otherwise.
	var (
		users    user.Store
		doors    doorconfig.Store
		auditLog audit.Store
	)
	var dbCheck, redisCheck httprouter.HealthChecker
	if cfg.Database.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		users = user.NewPostgres(db)
		doors = doorconfig.NewPostgres(db)
		auditLog = audit.NewPostgres(db)
		dbCheck = dbHealth{db: db}
		log.Info("using postgres stores")
	} else {
		users = user.NewInMemory()
		memDoors := doorconfig.NewInMemory()
		if err := memDoors.Put(ctx, defaultDoorConfig()); err != nil {
			return err
		}
		doors = memDoors
		auditLog = audit.NewInMemory()
		log.Warn("no database configured, using in-memory stores")
	}

	rdb, err := redis.New(cfg.Redis.URL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		doors = doorconfig.NewCached(doors, rdb.Client, log)
		redisCheck = rdb
		log.Info("door config cache enabled")
	}

	// Notification producer: real broker when configured, log sink otherwise.
	var producer notify.Producer
	var kafkaProducer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafka.NewProducer(ctx, cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		defer kafkaProducer.Close()
		producer = kafkaProducer
	} else {
		producer = logProducer{log: log}
		log.Warn("no kafka brokers configured, notifications are log-only")
	}

	registry := ws.NewRegistry(log)
	fanout := notify.New(producer, registry, log)

	engine := access.NewEngine(
		users, doors, nfc.NewHasher(cfg.NFCSecret),
		auditLog, fanout, log, metrics.New(),
	)

	tokens := jwttoken.New(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	tokenTTL := time.Duration(cfg.JWT.TTLMinutes) * time.Minute

	router := httprouter.New(httprouter.Deps{
		Access:    accesshandler.New(engine, log),
		Auth:      auth.NewHandler(auth.NewService(users, tokens, tokenTTL, log)),
		Enroll:    enroll.NewHandler(enroll.NewService(users, nfc.NewHasher(cfg.NFCSecret), log)),
		Events:    audithandler.New(auditLog),
		WS:        ws.NewHandler(engine, registry, log, cfg.WS.AllowedOrigins),
		Validator: tokens,
		Logger:    log,
		Checks: map[string]httprouter.HealthChecker{
			"database": dbCheck,
			"redis":    redisCheck,
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err := kafka.NewConsumer(
			cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.RequestTopic,
			queue.New(engine, log), log,
		)
		if err != nil {
			return err
		}
		defer consumer.Close()
		g.Go(func() error {
			log.Info("consuming access requests", "topic", cfg.Kafka.RequestTopic, "group", cfg.Kafka.ConsumerGroup)
			if err := consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// defaultDoorConfig opens weekdays 08:00-18:00 UTC for in-memory development
// runs, so a fresh process can make decisions without seeding.
func defaultDoorConfig() domain.DoorConfig {
	ranges := []domain.TimeRange{{From: "08:00", To: "18:00"}}
	return domain.DoorConfig{
		ID:       domain.GlobalConfigID,
		TimeZone: "UTC",
		Schedule: domain.Schedule{
			"mon": ranges, "tue": ranges, "wed": ranges, "thu": ranges, "fri": ranges,
		},
	}
}

type dbHealth struct{ db interface{ PingContext(context.Context) error } }

func (h dbHealth) Health(ctx context.Context) error { return h.db.PingContext(ctx) }

// logProducer stands in for the broker in broker-less deployments.
type logProducer struct{ log *slog.Logger }

func (p logProducer) Produce(ctx context.Context, topic string, key, value []byte) error {
	p.log.InfoContext(ctx, "notification", "topic", topic, "key", string(key), "payload", string(value))
	return nil
}
