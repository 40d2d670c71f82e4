package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error
	Shutdown()
}

// QueueManager publishes ledger events to a durable RabbitMQ queue, through
// an exchange when one is configured. A closed connection or channel, e.g.
// after a broker restart, is re-established on the next publish.
type QueueManager struct {
	cfg     *config.QueueConfig
	connect func() (*amqp.Connection, *amqp.Channel, error)

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	qm := &QueueManager{
		cfg: cfg,
		connect: func() (*amqp.Connection, *amqp.Channel, error) {
			return dial(cfg)
		},
	}
	if _, err := qm.channel(); err != nil {
		return nil, err
	}
	return qm, nil
}

func dial(cfg *config.QueueConfig) (*amqp.Connection, *amqp.Channel, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s", cfg.QueueUser, cfg.QueuePassword, cfg.Url)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

// channel returns the open channel, reconnecting when it has been closed.
func (qm *QueueManager) channel() (*amqp.Channel, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.ch != nil && !qm.ch.IsClosed() {
		return qm.ch, nil
	}

	if qm.conn != nil {
		log.Warn().Str("queue", qm.cfg.QueueName).Msg("queue channel closed, reconnecting")
		if !qm.conn.IsClosed() {
			qm.conn.Close()
		}
		qm.conn, qm.ch = nil, nil
	}

	conn, ch, err := qm.connect()
	if err != nil {
		return nil, err
	}
	qm.conn, qm.ch = conn, ch
	return ch, nil
}

func declare(ch *amqp.Channel, cfg *config.QueueConfig) error {
	_, err := ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		amqp.Table{"x-queue-type": "quorum"},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}

	if cfg.Exchange == "" {
		return nil
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	if err := ch.QueueBind(cfg.QueueName, cfg.QueueName, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.QueueName, err)
	}
	return nil
}

func (qm *QueueManager) PublishLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	msg := NewLedgerEventMessage(event)
	body, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode ledger event %s: %w", event.ID, err)
	}

	ch, err := qm.channel()
	if err != nil {
		return fmt.Errorf("failed to publish ledger event %s: %w", event.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, qm.cfg.PublishTimeout)
	defer cancel()

	err = ch.PublishWithContext(
		ctx,
		qm.cfg.Exchange,
		qm.cfg.QueueName,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Type:         msg.EventType,
			Timestamp:    time.Unix(msg.Timestamp, 0),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish ledger event %s: %w", event.ID, err)
	}
	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.ch != nil && !qm.ch.IsClosed() {
		if err := qm.ch.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close queue channel")
		}
	}
	if qm.conn != nil && !qm.conn.IsClosed() {
		if err := qm.conn.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close queue connection")
		}
	}
	qm.conn, qm.ch = nil, nil
}

// NoopPublisher drops events. It is used when no queue is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	log.Ctx(ctx).Debug().Str("event_id", event.ID).Msg("no queue configured, dropping ledger event")
	return nil
}

func (NoopPublisher) Shutdown() {}

// NewEventPublisher connects to the queue when cfg is set.
func NewEventPublisher(cfg *config.QueueConfig) (EventPublisher, error) {
	if cfg == nil {
		return NoopPublisher{}, nil
	}
	return NewQueueManager(cfg)
}
