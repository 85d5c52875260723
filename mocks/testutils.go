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

package mocks

import (
	"fmt"

	"github.com/looplab/conduit"
)

// CompareEvents compares two integration events by type, ID and time.
func CompareEvents(e1, e2 conduit.IntegrationEvent) error {
	if e1.EventType() != e2.EventType() {
		return fmt.Errorf("incorrect event type: %s (should be %s)", e1.EventType(), e2.EventType())
	}
	if e1.EventID() != e2.EventID() {
		return fmt.Errorf("incorrect event ID: %s (should be %s)", e1.EventID(), e2.EventID())
	}
	if !e1.OccurredAt().Equal(e2.OccurredAt()) {
		return fmt.Errorf("incorrect event time: %s (should be %s)", e1.OccurredAt(), e2.OccurredAt())
	}
	return nil
}

// EqualEvents compares two slices of integration events.
func EqualEvents(evts1, evts2 []conduit.IntegrationEvent) bool {
	if len(evts1) != len(evts2) {
		return false
	}
	for i, e1 := range evts1 {
		if err := CompareEvents(e1, evts2[i]); err != nil {
			return false
		}
	}

	return true
}
