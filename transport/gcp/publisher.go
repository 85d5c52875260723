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

// Package gcp publishes commands and integration events to Google Cloud
// Pub/Sub topics.
package gcp

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/caarlos0/env/v11"
	"google.golang.org/api/option"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/codec/json"
	"github.com/looplab/conduit/transport"
)

// Config is the Pub/Sub connection config. The client connects to the
// emulator when PUBSUB_EMULATOR_HOST is set.
type Config struct {
	ProjectID string `env:"PUBSUB_PROJECT_ID" envDefault:"project_id"`
	AppID     string `env:"PUBSUB_APP_ID"     envDefault:"conduit"`
	Endpoint  string `env:"PUBSUB_ENDPOINT"`
	// WithoutAuth disables authentication, for local servers.
	WithoutAuth bool `env:"PUBSUB_WITHOUT_AUTH"`
}

// ConfigFromEnv loads the config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse Pub/Sub config: %w", err)
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

// ClientOptions returns the client options of the config.
func (c Config) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption

	if c.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.Endpoint))
	}

	if c.WithoutAuth {
		opts = append(opts, option.WithoutAuthentication())
	}

	return opts
}

// Publisher pushes commands and publishes events to their own topics, waiting
// for the server to acknowledge each message.
type Publisher struct {
	client       *pubsub.Client
	commands     *pubsub.Topic
	events       *pubsub.Topic
	commandCodec *json.CommandCodec
	eventCodec   *json.EventCodec
}

var _ = transport.Publisher(&Publisher{})

// NewPublisher creates a client for the config and gets or creates the
// topics. Extra client options are applied after those of the config.
func NewPublisher(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID, append(cfg.ClientOptions(), opts...)...)
	if err != nil {
		return nil, fmt.Errorf("could not create Pub/Sub client: %w", err)
	}

	p := &Publisher{
		client:       client,
		commandCodec: json.NewCommandCodec(),
		eventCodec:   json.NewEventCodec(),
	}

	if p.commands, err = topic(ctx, client, cfg.CommandTopic()); err != nil {
		_ = client.Close()

		return nil, err
	}

	if p.events, err = topic(ctx, client, cfg.EventTopic()); err != nil {
		p.commands.Stop()
		_ = client.Close()

		return nil, err
	}

	return p, nil
}

// Gets or creates a topic.
func topic(ctx context.Context, client *pubsub.Client, name string) (*pubsub.Topic, error) {
	t := client.Topic(name)

	ok, err := t.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not check Pub/Sub topic %s: %w", name, err)
	}

	if !ok {
		if t, err = client.CreateTopic(ctx, name); err != nil {
			return nil, fmt.Errorf("could not create Pub/Sub topic %s: %w", name, err)
		}
	}

	return t, nil
}

// Push implements the Push method of the conduit.Queue interface. All
// commands are sent before waiting for the results.
func (p *Publisher) Push(ctx context.Context, cmds ...conduit.Command) error {
	if err := transport.CheckCommands(cmds); err != nil {
		return err
	}

	results := make([]*pubsub.PublishResult, 0, len(cmds))

	for _, cmd := range cmds {
		data, err := p.commandCodec.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("could not marshal command: %w", err)
		}

		results = append(results, p.commands.Publish(ctx, &pubsub.Message{
			Data:       data,
			Attributes: transport.CommandHeaders(ctx, cmd),
		}))
	}

	var errs []error

	for _, res := range results {
		if _, err := res.Get(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("could not push commands: %w", errors.Join(errs...))
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

	res := p.events.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: transport.EventHeaders(ctx, event),
	})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

// Close stops the topics and closes the client.
func (p *Publisher) Close() error {
	p.commands.Stop()
	p.events.Stop()

	return p.client.Close()
}
