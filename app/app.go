package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/armanvanr/perpustakaan/config"
	"github.com/armanvanr/perpustakaan/internal/handler"
	"github.com/armanvanr/perpustakaan/internal/repository"
	"github.com/armanvanr/perpustakaan/internal/server"
	"github.com/armanvanr/perpustakaan/internal/service"
	"github.com/armanvanr/perpustakaan/migrations"
	"github.com/armanvanr/perpustakaan/pkg/kafka"
	"github.com/armanvanr/perpustakaan/pkg/logger"
	"github.com/armanvanr/perpustakaan/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "perpustakaan")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var cmp service.CredentialComparator = service.PlainComparator{}
	if cfg.Auth.BcryptPasswords {
		cmp = service.BcryptComparator{}
	}

	var audit service.Enqueuer
	if len(cfg.Kafka.Addrs) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		defer producer.Close() //nolint:errcheck
		audit = handler.NewEnqueuer(producer)
	}

	svc := service.NewService(repo, cmp, audit, log)

	h := handler.New(svc, svc, svc, svc, log)
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
	db.Close()
	log.Info("Graceful shutdown finished")
}
