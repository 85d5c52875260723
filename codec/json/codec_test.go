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

package json

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kr/pretty"

	"github.com/looplab/conduit"
)

const (
	codecEventType   conduit.EventType   = "CodecEvent"
	codecCommandType conduit.CommandType = "CodecCommand"
)

type codecEvent struct {
	ID      uuid.UUID
	Content string
	Time    time.Time
}

func (e *codecEvent) EventType() conduit.EventType { return codecEventType }
func (e *codecEvent) EventID() uuid.UUID           { return e.ID }
func (e *codecEvent) OccurredAt() time.Time        { return e.Time }

type codecCommand struct {
	Content string
	Number  int
	Slice   []string
	Map     map[string]string
}

func (c *codecCommand) CommandType() conduit.CommandType { return codecCommandType }

func compact(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "\n", ""), "\t", "")
}

func TestEventCodec(t *testing.T) {
	c := NewEventCodec()
	if err := c.Register(func() conduit.IntegrationEvent { return &codecEvent{} }); err != nil {
		t.Fatal("there should be no error:", err)
	}

	event := &codecEvent{
		ID:      uuid.MustParse("10a7ec0f-7f2b-46f5-bca1-877b6e33c9fd"),
		Content: "string",
		Time:    time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC),
	}

	b, err := c.Marshal(event)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	expected := compact(`
	{
		"type": "CodecEvent",
		"id": "10a7ec0f-7f2b-46f5-bca1-877b6e33c9fd",
		"created_at": "2009-11-10T23:00:00Z",
		"data": {
			"ID": "10a7ec0f-7f2b-46f5-bca1-877b6e33c9fd",
			"Content": "string",
			"Time": "2009-11-10T23:00:00Z"
		}
	}`)
	if string(b) != expected {
		t.Error("the encoded bytes should be correct:")
		t.Log("exp:", expected)
		t.Log("got:", string(b))
	}

	decoded, err := c.Unmarshal(b)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	if !reflect.DeepEqual(decoded, event) {
		t.Error("the decoded event should be correct:")
		t.Log(pretty.Diff(decoded, event))
	}
}

func TestCommandCodec(t *testing.T) {
	c := NewCommandCodec()
	if err := c.Register(func() conduit.Command { return &codecCommand{} }); err != nil {
		t.Fatal("there should be no error:", err)
	}

	cmd := &codecCommand{
		Content: "string",
		Number:  42,
		Slice:   []string{"a", "b"},
		Map:     map[string]string{"key": "value"},
	}

	b, err := c.Marshal(cmd)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		t.Fatal("there should be no error:", err)
	}

	if e.Type != codecCommandType.String() || e.ID == uuid.Nil || e.CreatedAt.IsZero() {
		t.Error("the envelope should be correct:", pretty.Sprint(e))
	}

	decoded, err := c.Unmarshal(b)
	if err != nil {
		t.Fatal("there should be no error:", err)
	}

	if !reflect.DeepEqual(decoded, cmd) {
		t.Error("the decoded command should be correct:")
		t.Log(pretty.Diff(decoded, cmd))
	}
}

func TestCodec_Errors(t *testing.T) {
	c := NewCommandCodec()

	if err := c.Register(nil); !errors.Is(err, ErrMissingFactory) {
		t.Error("there should be a missing factory error:", err)
	}

	factory := func() conduit.Command { return &codecCommand{} }
	if err := c.Register(factory); err != nil {
		t.Error("there should be no error:", err)
	}

	if err := c.Register(factory); !errors.Is(err, ErrAlreadyRegistered) {
		t.Error("there should be an already registered error:", err)
	}

	if _, err := c.Marshal(nil); !errors.Is(err, ErrMissingMessage) {
		t.Error("there should be a missing message error:", err)
	}

	if _, err := c.Unmarshal([]byte(`{"type":"Unknown","data":{}}`)); !errors.Is(err, ErrNotRegistered) {
		t.Error("there should be a not registered error:", err)
	}

	if _, err := c.Unmarshal([]byte("not json")); err == nil {
		t.Error("there should be an envelope error")
	}

	if _, err := c.Unmarshal([]byte(`{"type":"CodecCommand","data":{"Number":"NaN"}}`)); err == nil {
		t.Error("there should be a data error")
	}

	events := NewEventCodec()
	if err := events.Register(func() conduit.IntegrationEvent { return &emptyEvent{} }); !errors.Is(err, ErrEmptyType) {
		t.Error("there should be an empty type error:", err)
	}
}

type emptyEvent struct {
	codecEvent
}

func (e *emptyEvent) EventType() conduit.EventType { return "" }
