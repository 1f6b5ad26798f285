package di

import (
	"context"
	"fmt"
	"time"

	"PremCast/internal/domain/repository"
	internalrepo "PremCast/internal/repository"
	icache "PremCast/internal/service/cache"
	"PremCast/internal/usecase"
	pkgch "PremCast/pkg/clickhouse"
	"PremCast/pkg/config"
	pkgkafka "PremCast/pkg/kafka"
	"PremCast/pkg/metrics"
	"PremCast/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client when the history
// backend needs one. Other backends get nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.History.Backend != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port, cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, time.Hour),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".projection_runs (" +
			"run_id String, requested_at DateTime64(3), source String, " +
			"year UInt8, gwp_life Float64, gwp_non_life Float64, " +
			"assumptions String" +
			") ENGINE=MergeTree ORDER BY (requested_at, run_id, year)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when runs are published to
// Kafka. Other backends get nil.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.History.Backend != "kafka" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRunStore creates the ClickHouse run history repository.
func ProvideRunStore(chClient *pkgch.Client, cfg *config.Config) repository.RunStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseRunStore(chClient.DB(), cfg.ClickHouse.Database+".projection_runs")
}

// ProvideRunPublisher creates the Kafka run event publisher.
func ProvideRunPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaRunPublisher(producer, cfg.Kafka.ResultsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer for the request topic when
// enabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideResultCache picks the shared Redis cache when configured and the
// in-process TTL cache otherwise.
func ProvideResultCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideRunProcessor creates the history backend router.
func ProvideRunProcessor(
	pub repository.Publisher,
	store repository.RunStore,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.RunProcessor {
	return usecase.NewRunProcessor(pub, store, metrics, cfg.History.Backend)
}

// ProvideRunSink creates the write-behind sink in front of the processor.
func ProvideRunSink(processor *usecase.RunProcessor, cfg *config.Config) *usecase.RunSink {
	return usecase.NewRunSink(
		processor,
		cfg.History.BufferSize,
		cfg.History.BatchSize,
		cfg.History.BatchTimeout,
	)
}

// ProvideProjector creates the projection use case.
func ProvideProjector(
	cache icache.BytesCache,
	metrics repository.Metrics,
	sink *usecase.RunSink,
	cfg *config.Config,
) *usecase.Projector {
	return usecase.NewProjector(cache, cfg.Cache.TTL, metrics, sink)
}

// ProvideRequestsHandler creates the Kafka request topic handler.
func ProvideRequestsHandler(projector *usecase.Projector, cfg *config.Config) *usecase.RequestsHandler {
	return usecase.NewRequestsHandler(cfg.Kafka.RequestTopic, projector)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	projector *usecase.Projector,
	store repository.RunStore,
	sink *usecase.RunSink,
	processor *usecase.RunProcessor,
	consumer *pkgkafka.Consumer,
	rh *usecase.RequestsHandler,
	chClient *pkgch.Client,
	cache icache.BytesCache,
) *server.App {
	return server.New(cfg, projector, store, sink, processor, consumer, rh, chClient, cache)
}
