package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/staffboard/internal/log"
)

func TestCtxWithValues(t *testing.T) {
	tests := map[string]struct {
		ctx       func() context.Context
		kv        log.Kv
		expValues log.Kv
	}{
		"Values on an empty context should be stored.": {
			ctx:       context.Background,
			kv:        log.Kv{"task": "01H"},
			expValues: log.Kv{"task": "01H"},
		},

		"Values should be merged with the ones already on the context.": {
			ctx: func() context.Context {
				return log.CtxWithValues(context.Background(), log.Kv{"a": 1, "b": 2})
			},
			kv:        log.Kv{"b": 3, "c": 4},
			expValues: log.Kv{"a": 1, "b": 3, "c": 4},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := log.CtxWithValues(test.ctx(), test.kv)
			assert.Equal(t, test.expValues, log.ValuesFromCtx(ctx))
		})
	}
}

func TestNoopSetValuesOnCtx(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, log.Noop.SetValuesOnCtx(ctx, log.Kv{"a": 1}))
	assert.Equal(t, log.Kv{}, log.ValuesFromCtx(ctx))
}
