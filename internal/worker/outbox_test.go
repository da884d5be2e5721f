package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/pkg/logger"
	"github.com/medtrack/patient-api/pkg/metrics"
)

var testMetrics = metrics.New("worker_test")

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	retried   []uuid.UUID
	failed    []uuid.UUID
}

func (r *fakeOutboxRepo) PendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.processed = append(r.processed, id)
	return nil
}

func (r *fakeOutboxRepo) MarkRetry(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error {
	r.retried = append(r.retried, id)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	r.failed = append(r.failed, id)
	return nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func event(eventType string, retryCount int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  eventType,
		Payload:    []byte(`{}`),
		Status:     model.OutboxStatusPending,
		RetryCount: retryCount,
		CreatedAt:  time.Now(),
	}
}

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:    10,
		PollInterval: time.Second,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}, logger.NewLogger(nil), testMetrics)
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	evt := event(model.EventAppointmentBooked, 0)
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{evt}}
	broker := &fakeBroker{}

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{model.EventAppointmentBooked}, broker.published)
	assert.Equal(t, []uuid.UUID{evt.ID}, repo.processed)
	assert.Empty(t, repo.retried)
	assert.Empty(t, repo.failed)
}

func TestProcessEventsMarksRetryOnPublishFailure(t *testing.T) {
	evt := event(model.EventAppointmentCancelled, 0)
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{evt}}
	broker := &fakeBroker{err: errors.New("redis down")}

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []uuid.UUID{evt.ID}, repo.retried)
	assert.Empty(t, repo.processed)
	assert.Empty(t, repo.failed)
}

func TestProcessEventsParksExhaustedEvent(t *testing.T) {
	evt := event(model.EventAppointmentRescheduled, 2)
	repo := &fakeOutboxRepo{pending: []*model.OutboxEvent{evt}}
	broker := &fakeBroker{err: errors.New("redis down")}

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []uuid.UUID{evt.ID}, repo.failed)
	assert.Empty(t, repo.retried)
}

func TestProcessEventsRespectsBatchSize(t *testing.T) {
	repo := &fakeOutboxRepo{}
	for i := 0; i < 15; i++ {
		repo.pending = append(repo.pending, event(model.EventAppointmentBooked, 0))
	}
	broker := &fakeBroker{}

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Len(t, repo.processed, 10)
}
