package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/handler"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/library/internal/service"
	"github.com/Astemirdum/library-management/library/migrations"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/Astemirdum/library-management/pkg/redis"
	"github.com/Astemirdum/library-management/pkg/server"
)

func Run(cfg *config.Config) error {
	ctx := context.Background()
	log := logger.NewLogger(cfg.Log, "library")
	defer log.Sync() //nolint:errcheck

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return errors.Wrap(err, "repo")
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		opts    []service.Option
		revoked md.RevocationChecker
	)
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return errors.Wrap(err, "redis")
		}
		defer client.Close()
		denylist := redis.NewTokenDenylist(client)
		revoked = denylist
		opts = append(opts, service.WithRevoker(denylist))
	} else {
		log.Warn("REDIS_ADDR is empty, logout is disabled")
	}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return errors.Wrap(err, "kafka.NewProducer")
		}
		publisher := kafka.NewPublisher(producer, kafka.LoanEventsTopic)
		defer publisher.Close()
		opts = append(opts, service.WithEvents(publisher))
	} else {
		log.Warn("KAFKA_ADDRS is empty, loan events are not published")
	}
	svc := service.NewService(repo, tokens, log, opts...)

	if b := cfg.Bootstrap; b.Username != "" {
		err = svc.EnsureLibrarian(ctx, model.UserCreateRequest{
			Username: b.Username,
			Password: b.Password,
			Email:    b.Email,
			FullName: b.FullName,
		})
		if err != nil {
			return errors.Wrap(err, "bootstrap librarian")
		}
	}

	h := handler.New(handler.Services{
		Transactions: svc,
		Books:        svc,
		Users:        svc,
		Auth:         svc,
	}, tokens, revoked, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
	return nil
}

// Migrate runs a goose command against the library database.
func Migrate(cfg *config.Config, command string, args ...string) error {
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, nil)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()
	return postgres.Migrate(db, migrations.MigrationFiles, command, args...)
}
