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

// Package redis publishes commands and integration events to Redis streams.
package redis

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-redis/redis/v8"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/codec/json"
	"github.com/looplab/conduit/transport"
)

// DataKey is the stream entry field holding the encoded message. The
// transport headers are set as fields next to it.
const DataKey = "data"

// Config is the Redis connection config.
type Config struct {
	Addr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
	AppID    string `env:"REDIS_APP_ID"   envDefault:"conduit"`
}

// ConfigFromEnv loads the config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse Redis config: %w", err)
	}

	return cfg, nil
}

// CommandStream is the stream commands are pushed to.
func (c Config) CommandStream() string {
	return c.AppID + "_commands"
}

// EventStream is the stream events are published to.
func (c Config) EventStream() string {
	return c.AppID + "_events"
}

// Client adds entries to streams, as *redis.Client does.
type Client interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// Publisher pushes commands and publishes events to their own streams.
type Publisher struct {
	client        Client
	commandStream string
	eventStream   string
	commandCodec  *json.CommandCodec
	eventCodec    *json.EventCodec
}

var _ = transport.Publisher(&Publisher{})

// NewPublisher connects to the server of the config and checks the connection.
func NewPublisher(ctx context.Context, cfg Config) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if res, err := client.Ping(ctx).Result(); err != nil || res != "PONG" {
		_ = client.Close()

		return nil, fmt.Errorf("could not check Redis server: %w", err)
	}

	return NewPublisherWithClient(client, cfg)
}

// NewPublisherWithClient creates a Publisher on an existing client, using the
// stream names of the config.
func NewPublisherWithClient(client Client, cfg Config) (*Publisher, error) {
	if client == nil {
		return nil, transport.ErrMissingClient
	}

	return &Publisher{
		client:        client,
		commandStream: cfg.CommandStream(),
		eventStream:   cfg.EventStream(),
		commandCodec:  json.NewCommandCodec(),
		eventCodec:    json.NewEventCodec(),
	}, nil
}

// Push implements the Push method of the conduit.Queue interface. Each
// command is added as its own entry; an error stops at the failing command.
func (p *Publisher) Push(ctx context.Context, cmds ...conduit.Command) error {
	if err := transport.CheckCommands(cmds); err != nil {
		return err
	}

	for _, cmd := range cmds {
		data, err := p.commandCodec.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("could not marshal command: %w", err)
		}

		if err := p.add(ctx, p.commandStream, transport.CommandHeaders(ctx, cmd), data); err != nil {
			return fmt.Errorf("could not push command: %w", err)
		}
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

	if err := p.add(ctx, p.eventStream, transport.EventHeaders(ctx, event), data); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

func (p *Publisher) add(ctx context.Context, stream string, headers map[string]string, data []byte) error {
	values := make(map[string]interface{}, len(headers)+1)
	for k, v := range headers {
		values[k] = v
	}

	values[DataKey] = data

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Err()
}

// Close closes the client.
func (p *Publisher) Close() error {
	return p.client.Close()
}
