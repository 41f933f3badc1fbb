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
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/Astemirdum/library-management/pkg/redis"
	"github.com/Astemirdum/library-management/pkg/server"
	"github.com/Astemirdum/library-management/stats/config"
	"github.com/Astemirdum/library-management/stats/internal/handler"
	"github.com/Astemirdum/library-management/stats/internal/repository"
	"github.com/Astemirdum/library-management/stats/internal/service"
	"github.com/Astemirdum/library-management/stats/migrations"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "stats")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return errors.Wrap(err, "repo")
	}
	svc := service.NewService(repo, log)

	group, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
	if err != nil {
		return errors.Wrap(err, "kafka.NewConsumer")
	}

	// tokens logged out on the library service are refused here too
	var revoked md.RevocationChecker
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return errors.Wrap(err, "redis")
		}
		defer client.Close()
		revoked = redis.NewTokenDenylist(client)
	} else {
		log.Warn("REDIS_ADDR is empty, revoked tokens are not checked")
	}

	// the secret is only used to verify tokens issued by the library service
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, 0)
	h := handler.New(svc, tokens, revoked, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	eg.Go(func() error {
		return kafka.Consume(egCtx, group, handler.NewConsumer(svc.Record, log), kafka.LoanEventsTopic)
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := srv.Stop(closeCtx); err != nil {
			log.Error("srv.Stop", zap.Error(err))
		}
		return group.Close()
	})

	if err = eg.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}

// Migrate runs a goose command against the stats database.
func Migrate(cfg *config.Config, command string, args ...string) error {
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, nil)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()
	return postgres.Migrate(db, migrations.MigrationFiles, command, args...)
}
