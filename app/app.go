package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/natalie-goriela/Library-API/config"
	"github.com/natalie-goriela/Library-API/internal/handler"
	"github.com/natalie-goriela/Library-API/internal/notifier"
	"github.com/natalie-goriela/Library-API/internal/repository"
	"github.com/natalie-goriela/Library-API/internal/server"
	"github.com/natalie-goriela/Library-API/internal/service"
	"github.com/natalie-goriela/Library-API/migrations"
	"github.com/natalie-goriela/Library-API/pkg/kafka"
	"github.com/natalie-goriela/Library-API/pkg/logger"
	"github.com/natalie-goriela/Library-API/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")

	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}

	bookRepo := repository.NewBookRepository(db, log)
	borrowingRepo := repository.NewBorrowingRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)

	// The chat sink; events reach it either directly or through kafka.
	var sink notifier.Notifier = notifier.Nop{}
	if cfg.Telegram.Enabled() {
		sink = notifier.NewTelegram(cfg.Telegram, log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var (
		producer      sarama.SyncProducer
		consumerGroup sarama.ConsumerGroup
	)
	notifySink := sink
	if cfg.Kafka.Enabled() {
		if producer, err = kafka.NewProducer(cfg.Kafka); err != nil {
			return fmt.Errorf("kafka producer %v", err)
		}
		notifySink = notifier.NewEnqueuer(producer, cfg.Kafka.Topic)

		if consumerGroup, err = kafka.NewConsumerGroup(cfg.Kafka); err != nil {
			return fmt.Errorf("kafka consumer group %v", err)
		}
		consumer := notifier.NewConsumer(sink.BorrowingCreated, log)
		g.Go(func() error {
			for {
				if err := consumerGroup.Consume(gctx, []string{cfg.Kafka.Topic}, consumer); err != nil {
					log.Error("consumer group", zap.Error(err))
				}
				if gctx.Err() != nil {
					return nil
				}
			}
		})
		go func() {
			<-consumer.Ready()
			log.Debug("notifier consumer up")
		}()
	}

	bookSvc := service.NewBookService(bookRepo, log)
	borrowingSvc := service.NewBorrowingService(borrowingRepo, notifySink, log)
	authSvc := service.NewAuthService(userRepo, cfg.Auth, log)

	h := handler.New(bookSvc, borrowingSvc, authSvc, []byte(cfg.Auth.JWTKey), log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	g.Go(func() error {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case termSig := <-sig:
		log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	case <-gctx.Done():
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	cancel()
	if consumerGroup != nil {
		if err := consumerGroup.Close(); err != nil {
			log.Error("consumerGroup.Close", zap.Error(err))
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	if err := g.Wait(); err != nil {
		log.Error("run group", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}
