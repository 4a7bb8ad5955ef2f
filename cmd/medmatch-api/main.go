// README: Entry point; loads config, wires stores and services, serves HTTP until SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"medmatch/internal/config"
	"medmatch/internal/events"
	httptransport "medmatch/internal/http"
	"medmatch/internal/infra"
	"medmatch/internal/logging"
	"medmatch/internal/maps"
	"medmatch/internal/modules/hospital"
	"medmatch/internal/modules/matching"
	"medmatch/internal/modules/order"
	"medmatch/internal/modules/supplier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("medmatch-api stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	verifier, err := newVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	publisher, err := newPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer publisher.Close()

	hospitalSvc := hospital.NewService(hospital.NewStore(dbPool))
	supplierSvc := supplier.NewService(supplier.NewStore(dbPool))
	orderSvc := order.NewService(order.NewStore(dbPool), publisher, cfg.Order, log.WithField("module", "order"))

	opts := []matching.Option{
		matching.WithResultCache(matching.NewStore(redisClient, cfg.Matching.IdempotencyTTL)),
	}
	if cfg.Maps.APIKey != "" {
		routes, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			return err
		}
		opts = append(opts, matching.WithRouteEstimator(routes))
	}
	matchingSvc := matching.NewService(hospitalSvc, supplierSvc, orderSvc, log.WithField("module", "matching"), opts...)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Matching:  matchingSvc,
		Orders:    orderSvc,
		Ledger:    hospitalSvc,
		Suppliers: supplierSvc,
		Verifier:  verifier,
		Log:       log.WithField("module", "http"),
	})

	server := httptransport.NewServer(cfg.HTTP.Addr, router, cfg.HTTP.ShutdownTimeout, log)
	return server.Run(ctx)
}

func newVerifier(ctx context.Context, cfg config.AuthConfig) (infra.TokenVerifier, error) {
	if cfg.Mode == config.AuthModeFirebase {
		verifier, err := infra.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase init: %w", err)
		}
		return verifier, nil
	}
	return infra.NewJWTVerifier(cfg.JWTSecret), nil
}

func newPublisher(cfg config.EventsConfig) (events.Publisher, error) {
	switch cfg.Driver {
	case config.EventsKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.EventsRabbitMQ:
		return events.NewRabbitPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		return events.Nop{}, nil
	}
}
