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

// Package nats publishes commands and integration events on NATS subjects.
package nats

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/nats-io/nats.go"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/codec/json"
	"github.com/looplab/conduit/transport"
)

// Config is the NATS connection config.
type Config struct {
	URL   string `env:"NATS_URL"    envDefault:"nats://127.0.0.1:4222"`
	AppID string `env:"NATS_APP_ID" envDefault:"conduit"`
}

// ConfigFromEnv loads the config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse NATS config: %w", err)
	}

	return cfg, nil
}

// CommandSubject is the subject a command type is pushed on.
func (c Config) CommandSubject(t conduit.CommandType) string {
	return c.AppID + "_commands." + t.String()
}

// EventSubject is the subject an event type is published on.
func (c Config) EventSubject(t conduit.EventType) string {
	return c.AppID + "_events." + t.String()
}

// Conn publishes messages, as *nats.Conn does.
type Conn interface {
	PublishMsg(m *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Publisher pushes commands and publishes events on subjects per message
// type. Both flush the connection before returning.
type Publisher struct {
	conn         Conn
	cfg          Config
	commandCodec *json.CommandCodec
	eventCodec   *json.EventCodec
}

var _ = transport.Publisher(&Publisher{})

// NewPublisher connects to the server of the config.
func NewPublisher(cfg Config, options ...nats.Option) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("could not connect to NATS: %w", err)
	}

	return NewPublisherWithConn(conn, cfg)
}

// NewPublisherWithConn creates a Publisher on an existing connection.
func NewPublisherWithConn(conn Conn, cfg Config) (*Publisher, error) {
	if conn == nil {
		return nil, transport.ErrMissingClient
	}

	return &Publisher{
		conn:         conn,
		cfg:          cfg,
		commandCodec: json.NewCommandCodec(),
		eventCodec:   json.NewEventCodec(),
	}, nil
}

// Push implements the Push method of the conduit.Queue interface.
func (p *Publisher) Push(ctx context.Context, cmds ...conduit.Command) error {
	if err := transport.CheckCommands(cmds); err != nil {
		return err
	}

	for _, cmd := range cmds {
		data, err := p.commandCodec.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("could not marshal command: %w", err)
		}

		if err := p.conn.PublishMsg(&nats.Msg{
			Subject: p.cfg.CommandSubject(cmd.CommandType()),
			Data:    data,
			Header:  header(transport.CommandHeaders(ctx, cmd)),
		}); err != nil {
			return fmt.Errorf("could not push command: %w", err)
		}
	}

	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("could not flush commands: %w", err)
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

	if err := p.conn.PublishMsg(&nats.Msg{
		Subject: p.cfg.EventSubject(event.EventType()),
		Data:    data,
		Header:  header(transport.EventHeaders(ctx, event)),
	}); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("could not flush event: %w", err)
	}

	return nil
}

// Close closes the connection.
func (p *Publisher) Close() {
	p.conn.Close()
}

func header(h map[string]string) nats.Header {
	out := nats.Header{}
	for k, v := range h {
		out.Set(k, v)
	}

	return out
}
