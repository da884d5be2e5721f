package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/internal/repository"
	"github.com/medtrack/patient-api/pkg/logger"
	"github.com/medtrack/patient-api/pkg/messaging"
	"github.com/medtrack/patient-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// OutboxProcessor drains the outbox table and publishes lifecycle events to
// the broker. Events that cannot be published within MaxRetries attempts are
// parked as FAILED for manual inspection.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		panic("MaxRetries must be greater than 0")
	}
	if config.RetryDelay <= 0 {
		panic("RetryDelay must be greater than 0")
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("Starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "Failed to process events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.PendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.WithFields(map[string]interface{}{
				"event_id":   event.ID.String(),
				"event_type": event.EventType,
			}).Error(err, "Failed to process event")
		}
	}

	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	err := p.broker.Publish(ctx, event.EventType, messaging.Message{
		Type:    event.EventType,
		Payload: event.Payload,
	})
	if err != nil {
		p.metrics.OutboxEventsFailed.Inc()

		// retry_count counts publish attempts across poll cycles, not the
		// in-process retries of a single cycle
		if event.RetryCount+1 >= p.config.MaxRetries {
			if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				p.logger.Error(markErr, "Failed to mark event failed")
			}
			return err
		}

		p.metrics.OutboxRetries.WithLabelValues(event.EventType).Inc()
		backoff := p.config.RetryDelay * time.Duration(event.RetryCount+1)
		if markErr := p.repo.MarkRetry(ctx, event.ID, err.Error(), time.Now().Add(backoff)); markErr != nil {
			p.logger.Error(markErr, "Failed to mark event for retry")
		}
		return err
	}

	if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}

	p.metrics.OutboxEventsProcessed.Inc()
	return nil
}
