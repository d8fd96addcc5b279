package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"identity-api/config"
	"identity-api/internal/domain/user"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

type (
	InputCh = chan Event

	// channel is the part of *amqp091.Channel the publisher needs.
	channel interface {
		PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
		Close() error
	}

	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		amqCh *amqp091.Channel
		pubCh channel
		in    InputCh
	}

	Event struct {
		Id      uuid.UUID   `json:"event_id"`
		TS      time.Time   `json:"time_stamp"`
		Type    string      `json:"event_type"`
		UserID  string      `json:"user_id"`
		ActorID string      `json:"actor_id,omitempty"`
		Payload UserPayload `json:"user_payload"`
	}
	UserPayload struct {
		UserID   string   `json:"user_id"`
		Name     string   `json:"name"`
		Surname  string   `json:"surname"`
		Email    string   `json:"email"`
		IsActive bool     `json:"is_active"`
		Roles    []string `json:"roles"`
	}
)

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "identityapi",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.amqCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}
	r.pubCh = r.amqCh

	r.log.Info("rabbitmq connected successfully")

	return nil
}

// Init declares the exchange and a durable queue bound to every user event.
func (r *RabbitMQ) Init() error {
	if err := r.amqCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.amqCh.Close()
		return err
	}
	q, err := r.amqCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, et := range user.EventTypes {
		if err = r.amqCh.QueueBind(q.Name, string(et), r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

// Publish hands the event to the worker without blocking the request. A full
// buffer drops the event.
func (r *RabbitMQ) Publish(_ context.Context, e user.Event) {
	msg := toMessage(e)
	select {
	case r.in <- msg:
	default:
		r.log.Warn("mq buffer full, event dropped",
			zap.String("event_type", msg.Type),
			zap.String("user_id", msg.UserID),
		)
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("event_id", e.Id.String()))
			}
		case <-ctx.Done():
			r.drain()
			_ = r.pubCh.Close()
			return
		}
	}
}

// drain flushes what is already buffered, bounded by a short deadline.
func (r *RabbitMQ) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				r.log.Error("mq publish error on shutdown", zap.Error(err))
				return
			}
		default:
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Type,
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Type,
		false,
		false,
		pub,
	)
}

func (r *RabbitMQ) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

func toMessage(e user.Event) Event {
	msg := Event{
		Id:     uuid.New(),
		TS:     e.OccurredAt,
		Type:   string(e.Type),
		UserID: e.User.UUID.String(),
		Payload: UserPayload{
			UserID:   e.User.UUID.String(),
			Name:     e.User.Name,
			Surname:  e.User.Surname,
			Email:    e.User.Email,
			IsActive: e.User.IsActive,
			Roles:    e.User.Roles.Strings(),
		},
	}
	if msg.TS.IsZero() {
		msg.TS = time.Now().UTC()
	}
	if e.Actor != uuid.Nil {
		msg.ActorID = e.Actor.String()
	}

	return msg
}
