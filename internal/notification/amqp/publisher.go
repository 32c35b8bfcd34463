package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	checkoutapp "github.com/agromart/agromart/internal/checkout/app"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const publishConfirmTimeout = 5 * time.Second

type Config struct {
	URL      string
	Exchange string
	Topic    string
}

// Publisher emits order events on a durable topic exchange with publisher
// confirms. Fulfillment and notification consumers bind their own queues.
type Publisher struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel
	confirm chan amqp.Confirmation
	log     zerolog.Logger
}

func NewPublisher(cfg Config, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	p := &Publisher{
		cfg:     cfg,
		conn:    conn,
		channel: ch,
		confirm: make(chan amqp.Confirmation, 1),
		log:     log,
	}
	ch.NotifyPublish(p.confirm)

	log.Info().Str("exchange", cfg.Exchange).Msg("order event publisher ready")
	return p, nil
}

func (p *Publisher) OrderPlaced(ctx context.Context, event checkoutapp.OrderPlacedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	err = p.channel.Publish(p.cfg.Exchange, p.cfg.Topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish order placed event: %w", err)
	}

	select {
	case confirm := <-p.confirm:
		if !confirm.Ack {
			return errors.New("broker did not confirm publish")
		}
		return nil
	case <-time.After(publishConfirmTimeout):
		return errors.New("publish confirmation timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) Close() {
	if p.conn != nil && !p.conn.IsClosed() {
		p.conn.Close()
	}
}

// NopPublisher drops events. Used when eventing is disabled in config.
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, checkoutapp.OrderPlacedEvent) error { return nil }
