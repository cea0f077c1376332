package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"spotlapse/internal/logging"
	"spotlapse/internal/metrics"
	"spotlapse/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second
)

// EventHandler processes one stream event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event queue.Event) error
}

// Manager runs worker goroutines that consume the activity stream.
type Manager struct {
	consumer    queue.Consumer
	handler     EventHandler
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int
	BatchSize    int64
	BlockTimeout time.Duration
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

func NewManager(consumer queue.Consumer, handler EventHandler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start ensures the consumer group and launches the workers. Call Stop to
// shut them down.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.consumer.EnsureGroup(ctx, queue.StreamActivity, queue.ConsumerGroupStats); err != nil {
		return err
	}

	var workerCtx context.Context
	workerCtx, m.cancel = context.WithCancel(ctx)

	for i := 0; i < m.workerCount; i++ {
		consumerName := consumerNameForWorker(i + 1)
		m.wg.Add(1)
		go m.runWorker(workerCtx, consumerName)
	}

	logging.Info().Int("workers", m.workerCount).Str("stream", queue.StreamActivity).
		Str("group", queue.ConsumerGroupStats).Msg("Workers started")
	return nil
}

// Stop cancels the workers and blocks until all of them have returned.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	logging.Info().Msg("All workers stopped")
}

func (m *Manager) runWorker(ctx context.Context, consumerName string) {
	defer m.wg.Done()
	log := logging.With().Str("component", "worker").Str("consumer", consumerName).Logger()

	// Messages left in flight by a previous run first.
	m.processPending(ctx, consumerName, &log)

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Shutting down")
			return
		default:
			m.processMessages(ctx, consumerName, &log)
		}
	}
}

// processPending replays this consumer's unacknowledged messages. It stops
// when the list drains, on shutdown, or when an ack fails, since a failed ack
// would hand back the same batch forever.
func (m *Manager) processPending(ctx context.Context, consumerName string, log *zerolog.Logger) {
	defer m.recordBacklog(ctx, log)

	for ctx.Err() == nil {
		messages, err := m.consumer.ReadPending(ctx, queue.StreamActivity, queue.ConsumerGroupStats, consumerName, m.batchSize)
		if err != nil {
			log.Warn().Err(err).Msg("Reading pending messages failed")
			return
		}
		if len(messages) == 0 {
			return
		}
		log.Info().Int("count", len(messages)).Msg("Processing pending messages")
		if !m.handleMessages(ctx, messages, log) {
			log.Warn().Msg("Leaving pending replay after ack failure")
			return
		}
	}
}

func (m *Manager) processMessages(ctx context.Context, consumerName string, log *zerolog.Logger) {
	messages, err := m.consumer.Read(ctx, queue.StreamActivity, queue.ConsumerGroupStats, consumerName, m.batchSize, m.blockTime)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Msg("Reading stream failed")
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
		return
	}
	if len(messages) == 0 {
		return
	}
	m.handleMessages(ctx, messages, log)
	m.recordBacklog(ctx, log)
}

// handleMessages acks every message, including ones whose handler failed,
// so a poison event cannot loop forever. It reports whether every ack succeeded.
func (m *Manager) handleMessages(ctx context.Context, messages []queue.Message, log *zerolog.Logger) bool {
	acked := true
	for _, msg := range messages {
		if err := m.handler.HandleEvent(ctx, msg.Event); err != nil {
			log.Warn().Err(err).Str("msg_id", msg.ID).Str("type", msg.Event.Type).Msg("Handler error")
		}
		if err := m.consumer.Ack(ctx, queue.StreamActivity, queue.ConsumerGroupStats, msg.ID); err != nil {
			log.Warn().Err(err).Str("msg_id", msg.ID).Msg("Ack error")
			acked = false
		}
	}
	return acked
}

func (m *Manager) recordBacklog(ctx context.Context, log *zerolog.Logger) {
	if ctx.Err() != nil {
		return
	}
	n, err := m.consumer.Pending(ctx, queue.StreamActivity, queue.ConsumerGroupStats)
	if err != nil {
		log.Debug().Err(err).Msg("Reading pending count failed")
		return
	}
	metrics.SetWorkerPending(n)
}

func consumerNameForWorker(workerID int) string {
	return "worker-" + strconv.Itoa(workerID)
}
