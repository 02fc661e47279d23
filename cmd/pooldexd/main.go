package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pooldex-network/pooldex-daemon/internal/config"
	"github.com/pooldex-network/pooldex-daemon/internal/core/application"
	"github.com/pooldex-network/pooldex-daemon/internal/core/domain"
	"github.com/pooldex-network/pooldex-daemon/internal/core/ports"
	inmemorypubsub "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/pubsub/inmemory"
	webhookpubsub "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/pubsub/webhook"
	dbbadger "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/storage/db/badger"
	dbinmemory "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/storage/db/inmemory"
	transferinmemory "github.com/pooldex-network/pooldex-daemon/internal/infrastructure/transfer/inmemory"
	"github.com/pooldex-network/pooldex-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	poolRepository, closeFn, err := newPoolRepository()
	if err != nil {
		log.WithError(err).Fatal("error while opening db")
	}
	if closeFn != nil {
		defer closeFn()
	}

	transferSvc := transferinmemory.NewLedger(
		config.GetString(config.CustodyAccountKey),
	)
	pubsubSvc := newPubSubService()

	ammSvc, err := application.NewAMMService(
		poolRepository, transferSvc, pubsubSvc,
		uint32(config.GetInt(config.PercentageFeeKey)),
	)
	if err != nil {
		log.WithError(err).Fatal("error while starting amm service")
	}

	log.Info("daemon started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stats.EnableStatistics(
		ctx, time.Duration(config.GetInt(config.StatsIntervalKey))*time.Second,
		func() log.Fields {
			pools, err := ammSvc.ListPools(ctx)
			if err != nil {
				log.WithError(err).Warn("error while fetching pools stats")
				return nil
			}
			return log.Fields{
				"pools":          len(pools),
				"percentage_fee": ammSvc.PercentageFee(),
			}
		},
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
}

func newPoolRepository() (domain.PoolRepository, func(), error) {
	if config.GetString(config.DBTypeKey) == config.DBInMemory {
		return dbinmemory.NewPoolRepositoryImpl(), nil, nil
	}

	dbDir := filepath.Join(config.GetDatadir(), config.DbLocation)
	dbManager, err := dbbadger.NewDbManager(dbDir, log.New())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := dbManager.Close(); err != nil {
			log.WithError(err).Warn("error while closing db")
		}
	}
	return dbbadger.NewPoolRepositoryImpl(dbManager), closeFn, nil
}

func newPubSubService() ports.SecurePubSub {
	endpoint := config.GetString(config.WebhookEndpointKey)
	if endpoint == "" {
		return inmemorypubsub.NewPubSubService()
	}

	pubsubSvc := webhookpubsub.NewWebhookPubSubService()
	secret := config.GetString(config.WebhookSecretKey)
	if _, err := pubsubSvc.Subscribe(
		webhookpubsub.AllActions.Label(), endpoint, secret,
	); err != nil {
		log.WithError(err).Fatal("error while subscribing webhook endpoint")
	}
	log.WithField("endpoint", endpoint).Info("webhook notifications enabled")
	return pubsubSvc
}
