// Copyright (c) 2026 - The Event Horizon authors.
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

// Package kafka publishes commands and integration events to Kafka topics.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/segmentio/kafka-go"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/codec/json"
	"github.com/looplab/conduit/transport"
)

// Config is the Kafka connection config.
type Config struct {
	Addr  string `env:"KAFKA_ADDR"   envDefault:"localhost:9093"`
	AppID string `env:"KAFKA_APP_ID" envDefault:"conduit"`
}

// ConfigFromEnv loads the config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse Kafka config: %w", err)
	}

	return cfg, nil
}

// CommandTopic is the topic commands are pushed to.
func (c Config) CommandTopic() string {
	return c.AppID + "_commands"
}

// EventTopic is the topic events are published to.
func (c Config) EventTopic() string {
	return c.AppID + "_events"
}

// Writer writes messages to a topic, as *kafka.Writer does.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher pushes commands and publishes events to their own topics.
type Publisher struct {
	commands     Writer
	events       Writer
	commandCodec *json.CommandCodec
	eventCodec   *json.EventCodec
	logger       *slog.Logger
}

var _ = transport.Publisher(&Publisher{})

// Option is an option setter used to configure creation.
type Option func(*Publisher) error

// WithLogger uses the logger for errors when closing.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) error {
		p.logger = l

		return nil
	}
}

// NewPublisher creates a Publisher writing to the topics of the config. The
// topics are created by the broker on first write.
func NewPublisher(cfg Config, options ...Option) (*Publisher, error) {
	return NewPublisherWithWriters(newWriter(cfg.Addr, cfg.CommandTopic()), newWriter(cfg.Addr, cfg.EventTopic()), options...)
}

func newWriter(addr, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(addr),
		Topic:                  topic,
		BatchSize:              1,                // Write every message without delay.
		RequiredAcks:           kafka.RequireOne, // Stronger consistency.
		AllowAutoTopicCreation: true,
	}
}

// NewPublisherWithWriters creates a Publisher on existing writers.
func NewPublisherWithWriters(commands, events Writer, options ...Option) (*Publisher, error) {
	if commands == nil || events == nil {
		return nil, transport.ErrMissingClient
	}

	p := &Publisher{
		commands:     commands,
		events:       events,
		commandCodec: json.NewCommandCodec(),
		eventCodec:   json.NewEventCodec(),
		logger:       slog.Default(),
	}

	for _, option := range options {
		if option == nil {
			continue
		}

		if err := option(p); err != nil {
			return nil, fmt.Errorf("error while applying option: %w", err)
		}
	}

	return p, nil
}

// Push implements the Push method of the conduit.Queue interface. The
// commands are written in one batch.
func (p *Publisher) Push(ctx context.Context, cmds ...conduit.Command) error {
	if err := transport.CheckCommands(cmds); err != nil {
		return err
	}

	msgs := make([]kafka.Message, 0, len(cmds))

	for _, cmd := range cmds {
		data, err := p.commandCodec.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("could not marshal command: %w", err)
		}

		msgs = append(msgs, kafka.Message{
			Key:     []byte(cmd.CommandType().String()),
			Value:   data,
			Headers: headers(transport.CommandHeaders(ctx, cmd)),
		})
	}

	if err := p.commands.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("could not push commands: %w", err)
	}

	return nil
}

// Publish implements the Publish method of the conduit.EventPublisher
// interface.
func (p *Publisher) Publish(ctx context.Context, event conduit.IntegrationEvent) error {
	if event == nil {
		return transport.ErrMissingEvent
	}

	data, err := p.eventCodec.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err := p.events.WriteMessages(ctx, kafka.Message{
		Key:     []byte(event.EventID().String()),
		Value:   data,
		Headers: headers(transport.EventHeaders(ctx, event)),
	}); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

// Close closes both writers.
func (p *Publisher) Close() error {
	var first error

	for _, w := range []Writer{p.commands, p.events} {
		if err := w.Close(); err != nil {
			p.logger.Error("conduit: failed to close Kafka writer", slog.Any("error", err))

			if first == nil {
				first = err
			}
		}
	}

	return first
}

func headers(h map[string]string) []kafka.Header {
	out := make([]kafka.Header, 0, len(h))
	for k, v := range h {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}

	return out
}
