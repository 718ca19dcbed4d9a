// Package gatewaymock provides a testify mock of gateway.Requester.
package gatewaymock

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
)

type Requester struct {
	mock.Mock
}

func (r *Requester) Do(ctx context.Context, endpoint string, opts gateway.Options, out any) error {
	args := r.Called(ctx, endpoint, opts, out)
	return args.Error(0)
}

// Respond decodes body into the call's out argument. Use it with Run.
func Respond(body string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		if out := args.Get(3); out != nil {
			if err := json.Unmarshal([]byte(body), out); err != nil {
				panic(err)
			}
		}
	}
}

// Method matches calls by HTTP method.
func Method(m string) any {
	return mock.MatchedBy(func(o gateway.Options) bool { return o.Method == m })
}

var _ gateway.Requester = (*Requester)(nil)
