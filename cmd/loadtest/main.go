// Loadtest drives an in-process engine with the configured random
// order flow, optionally publishing execution reports to Kafka and a
// final depth snapshot to Redis.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/erain9/ticklob/config"
	"github.com/erain9/ticklob/pkg/db/queue"
	"github.com/erain9/ticklob/pkg/engine"
	kafkasender "github.com/erain9/ticklob/pkg/messaging/kafka"
	"github.com/erain9/ticklob/pkg/loadgen"
	"github.com/erain9/ticklob/pkg/logging"
	"github.com/erain9/ticklob/pkg/marketdata"
	"github.com/erain9/ticklob/pkg/messaging"
	"github.com/erain9/ticklob/pkg/otel"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:  cfg.Server.LogLevel,
		Pretty: cfg.Server.LogFormat == "pretty",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, cleaning up...")
		cancel()
	}()

	if cfg.Otel.Enabled {
		shutdown, err := otel.Init(otel.Config{
			Endpoint:         cfg.Otel.Endpoint,
			CollectorEnabled: true,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize OpenTelemetry")
		} else {
			defer shutdown()
		}
		if err := otel.StartRuntimeMetrics(); err != nil {
			log.Warn().Err(err).Msg("Failed to start runtime metrics")
		}
	}

	var sender messaging.MessageSender
	if cfg.Kafka.Enabled {
		switch cfg.Kafka.Client {
		case "kafka-go":
			writer, err := kafkasender.NewKafkaMessageSender(cfg.Kafka.BrokerAddr, cfg.Kafka.Topic, 0)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create Kafka writer")
			}
			defer writer.Close()
			sender = writer
		default:
			pool, err := queue.NewPooledSender(queue.DefaultPoolSize)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to create Kafka sender pool")
			}
			defer pool.Close()
			sender = pool
		}
	}

	genCfg, err := loadgen.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load load-generator configuration")
	}

	manager := engine.NewManager(sender)
	eng, err := manager.CreateEngine(ctx, genCfg.Symbol, cfg.BookConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create engine")
	}

	log.Info().
		Str("symbol", genCfg.Symbol).
		Int("total_ops", genCfg.TotalOps).
		Int("rate", genCfg.RatePerSecond).
		Msg("Starting load generation")

	stats, err := loadgen.New(genCfg).Run(ctx, eng)
	if err != nil {
		log.Error().Err(err).Msg("Load generation aborted")
	}

	opsPerSec := 0.0
	if stats.Elapsed > 0 {
		opsPerSec = float64(stats.Limits+stats.Markets+stats.Cancels) / stats.Elapsed.Seconds()
	}
	log.Info().
		Int("limits", stats.Limits).
		Int("markets", stats.Markets).
		Int("cancels", stats.Cancels).
		Int("cancel_hits", stats.CancelHits).
		Int("fills", stats.Fills).
		Uint64("filled_qty", uint64(stats.FilledQty)).
		Dur("elapsed", stats.Elapsed).
		Float64("ops_per_sec", opsPerSec).
		Int("resting", eng.Book().OrderCount()).
		Msg("Load generation finished")

	if cfg.Redis.Enabled {
		publisher := marketdata.NewDepthPublisher(marketdata.GetRedisClient(), "", nil)
		defer publisher.Close()

		bids, asks := eng.Depth(10)
		if err := publisher.Publish(ctx, eng.Symbol(), bids, asks); err != nil {
			log.Error().Err(err).Msg("Failed to publish final depth snapshot")
		} else {
			log.Info().Str("key", publisher.Key(eng.Symbol())).Msg("Published final depth snapshot")
		}
	}
}
