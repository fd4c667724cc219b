// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package amqpsink forwards contract events from the event bus to a
// RabbitMQ topic exchange
package amqpsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/laurel/event"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange       = "laurel.events"
	DefaultPublishTimeout = 5 * time.Second
)

// Channel is the subset of *amqp.Channel used by the sink
type Channel interface {
	ExchangeDeclare(
		name, kind string,
		durable, autoDelete, internal, noWait bool,
		args amqp.Table,
	) error
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	Close() error
}

type Config struct {
	Logger         *slog.Logger
	Url            string
	Exchange       string
	PublishTimeout time.Duration
}

// Message is the JSON body of a published event
type Message struct {
	Type      event.EventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      any             `json:"data"`
}

// Sink is an event.Subscriber that publishes every delivered event to a
// topic exchange, using the event type as routing key
type Sink struct {
	channel        Channel
	conn           io.Closer
	logger         *slog.Logger
	exchange       string
	publishTimeout time.Duration
	mu             sync.Mutex
	closed         bool
}

// New dials the broker, opens a channel and declares the exchange
func New(cfg Config) (*Sink, error) {
	if cfg.Url == "" {
		return nil, errors.New("amqp url not specified")
	}
	conn, err := amqp.Dial(cfg.Url)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	s, err := newSink(ch, conn, cfg)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// NewWithChannel builds a sink on an already open channel. The caller
// keeps ownership of the underlying connection
func NewWithChannel(ch Channel, cfg Config) (*Sink, error) {
	return newSink(ch, nil, cfg)
}

func newSink(ch Channel, conn io.Closer, cfg Config) (*Sink, error) {
	s := &Sink{
		channel:        ch,
		conn:           conn,
		logger:         cfg.Logger,
		exchange:       cfg.Exchange,
		publishTimeout: cfg.PublishTimeout,
	}
	if s.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if s.exchange == "" {
		s.exchange = DefaultExchange
	}
	if s.publishTimeout <= 0 {
		s.publishTimeout = DefaultPublishTimeout
	}
	if err := ch.ExchangeDeclare(
		s.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", s.exchange, err)
	}
	return s, nil
}

// Attach subscribes the sink to all contract event types
func (s *Sink) Attach(bus *event.EventBus) {
	for _, evtType := range event.ContractEventTypes {
		bus.RegisterSubscriber(evtType, s)
	}
}

// Deliver publishes an event. Publish failures are logged and do not
// detach the sink from the bus
func (s *Sink) Deliver(evt event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	body, err := json.Marshal(
		Message{
			Type:      evt.Type,
			Timestamp: evt.Timestamp,
			Data:      evt.Data,
		},
	)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", evt.Type, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
	defer cancel()
	err = s.channel.PublishWithContext(
		ctx,
		s.exchange,
		string(evt.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    evt.Timestamp,
			Type:         string(evt.Type),
			Body:         body,
		},
	)
	if err != nil {
		s.logger.Error(
			"failed to publish event",
			"component", "amqpsink",
			"type", evt.Type,
			"exchange", s.exchange,
			"error", err,
		)
		return nil
	}
	s.logger.Debug(
		"published event",
		"component", "amqpsink",
		"type", evt.Type,
	)
	return nil
}

// Close closes the channel and, when the sink dialed it, the connection.
// It is safe to call more than once
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if err := s.channel.Close(); err != nil {
		s.logger.Debug(
			"failed to close amqp channel",
			"component", "amqpsink",
			"error", err,
		)
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.logger.Debug(
				"failed to close amqp connection",
				"component", "amqpsink",
				"error", err,
			)
		}
	}
}
