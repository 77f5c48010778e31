package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// AMQPBridge re-publishes every dispatched event onto a RabbitMQ topic
// exchange with routing key "helpdesk.<event_type>". Publish failures are
// logged and never propagated; the bridge is a best-effort mirror of the
// in-process dispatcher.
type AMQPBridge struct {
	conn     *amqp091.Connection
	exchange string
	logger   *zap.Logger
}

// NewAMQPBridge dials RabbitMQ with exponential backoff and declares the
// exchange. A nil bridge is returned without error when no URL is configured.
func NewAMQPBridge(ctx context.Context, cfg config.AMQPConfig, logger *zap.Logger) (*AMQPBridge, error) {
	if cfg.URL == "" {
		logger.Info("AMQP_URL not provided; event bridge disabled")
		return nil, nil
	}

	conn, err := dialWithRetry(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info("connected to rabbitmq", zap.String("exchange", cfg.Exchange))
	return &AMQPBridge{conn: conn, exchange: cfg.Exchange, logger: logger}, nil
}

// Register subscribes the bridge to every event type on the dispatcher.
func (b *AMQPBridge) Register(dispatcher Dispatcher) {
	if b == nil || dispatcher == nil {
		return
	}
	for _, eventType := range []EventType{
		EventTicketCreated,
		EventTicketUpdated,
		EventTicketStatusChanged,
		EventTicketDeleted,
		EventTicketAttachmentAdded,
		EventTicketMessageAdded,
	} {
		dispatcher.Subscribe(eventType, b.handle)
	}
}

func (b *AMQPBridge) handle(ctx context.Context, event Event) error {
	ch, err := b.conn.Channel()
	if err != nil {
		b.logger.Warn("amqp channel open failed", zap.Error(err))
		return nil
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		b.logger.Warn("amqp event marshal failed", zap.Error(err))
		return nil
	}

	msgID := event.ID
	if msgID == "" {
		msgID = uuid.NewString()
	}

	err = ch.PublishWithContext(ctx, b.exchange, "helpdesk."+string(event.Type), false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msgID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		b.logger.Warn("amqp publish failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// Close releases the connection.
func (b *AMQPBridge) Close() error {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.Close()
}

func dialWithRetry(ctx context.Context, cfg config.AMQPConfig, logger *zap.Logger) (*amqp091.Connection, error) {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	delay := cfg.RetryDelay()
	for i := 1; i <= attempts; i++ {
		conn, err := amqp091.Dial(cfg.URL)
		if err == nil {
			if i > 1 {
				logger.Info("rabbitmq connected", zap.Int("attempt", i))
			}
			return conn, nil
		}
		lastErr = err

		logger.Warn("rabbitmq dial failed",
			zap.Int("attempt", i),
			zap.Duration("sleep", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > time.Minute {
			delay = time.Minute
		}
	}
	return nil, lastErr
}
