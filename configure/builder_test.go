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

package configure

import (
	"context"
	"reflect"
	"testing"

	"github.com/kr/pretty"

	"github.com/looplab/conduit"
	"github.com/looplab/conduit/commandbus"
)

func newHandler() conduit.CommandHandler {
	return conduit.CommandHandlerFunc(func(ctx context.Context, cmd conduit.Command) (conduit.Result, error) {
		return conduit.Ok(nil), nil
	})
}

func TestCommandConfig(t *testing.T) {
	cases := map[string]struct {
		factory    func() conduit.CommandHandler
		cmdTypes   []conduit.CommandType
		middleware []string
	}{
		"2 commands": {
			newHandler,
			[]conduit.CommandType{"Test2", "Test3"},
			nil,
		},
		"3 commands with middleware": {
			newHandler,
			[]conduit.CommandType{"Test2", "Test3", "Test4"},
			[]string{"validate", "transaction"},
		},
	}

	for name, tc := range cases {
		name, tc := name, tc // per-iteration copy for the parallel subtests

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := NewCommandConfig().SetFactory(tc.factory)

			for _, ct := range tc.cmdTypes {
				cfg = cfg.AddType(ct)
			}

			for _, m := range tc.middleware {
				cfg = cfg.AddMiddleware(commandbus.Named(m))
			}

			sf1 := reflect.ValueOf(cfg.Factory())
			sf2 := reflect.ValueOf(tc.factory)
			if sf1.Pointer() != sf2.Pointer() {
				t.Errorf("test case '%s': Wrong factory", name)
			}

			if !reflect.DeepEqual(cfg.Types(), tc.cmdTypes) {
				t.Errorf("test case '%s': CommandTypes are wrong", name)
				t.Log("exp:\n", pretty.Sprint(tc.cmdTypes))
				t.Log("got:\n", pretty.Sprint(cfg.Types()))
			}

			var names []string
			for _, p := range cfg.Middleware() {
				names = append(names, p.Name())
			}

			if !reflect.DeepEqual(names, tc.middleware) {
				t.Errorf("test case '%s': Middleware is wrong", name)
				t.Log("exp:\n", pretty.Sprint(tc.middleware))
				t.Log("got:\n", pretty.Sprint(names))
			}
		})
	}
}
