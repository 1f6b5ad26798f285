package repository

import (
	"context"

	"PremCast/internal/domain/models"
	domrepo "PremCast/internal/domain/repository"
	pkgkafka "PremCast/pkg/kafka"
)

// KafkaRunPublisher emits run-completed events keyed by run ID.
type KafkaRunPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaRunPublisher creates a Kafka publisher for projection runs.
func NewKafkaRunPublisher(producer *pkgkafka.Producer, topic string) *KafkaRunPublisher {
	return &KafkaRunPublisher{producer: producer, topic: topic}
}

func (p *KafkaRunPublisher) PublishRun(ctx context.Context, run *models.ProjectionRun) error {
	return p.producer.Publish(ctx, p.topic, []byte(run.ID), runEvent(run))
}

func (p *KafkaRunPublisher) PublishRuns(ctx context.Context, runs []*models.ProjectionRun) error {
	if len(runs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(runs))
	for i, run := range runs {
		msgs[i] = pkgkafka.Message{Key: []byte(run.ID), Value: runEvent(run)}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaRunPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// runEvent is the wire shape of a run-completed event. The assumptions
// snapshot travels with the event so consumers can interpret the rows
// without a second lookup.
func runEvent(run *models.ProjectionRun) map[string]interface{} {
	return map[string]interface{}{
		"run_id":            run.ID,
		"requested_at":      run.RequestedAt,
		"source":            run.Source,
		"gwp_life_base":     run.LifeBase,
		"gwp_non_life_base": run.NonLifeBase,
		"assumptions":       run.Assumptions,
		"rows":              run.Rows,
	}
}

var _ domrepo.Publisher = (*KafkaRunPublisher)(nil)
