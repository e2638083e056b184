package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_NoHandlerUnknownOpcode(t *testing.T) {
	d := NewDispatcher(map[int]Handler{})
	ctx := NewContext(1, map[string]*Creature{}, 10)

	res := d.Dispatch(ctx, nil, nil, EffectRow{OpcodeID: 99999})
	require.NotNil(t, res.Warning)
	assert.Equal(t, WarnNoHandler, res.Warning.Kind)
}

func TestDispatcher_NoHandlerKnownOpcode(t *testing.T) {
	d := NewDispatcher(map[int]Handler{}, []HandlerMeta{{OpcodeID: 24, Name: "direct_damage"}})
	ctx := NewContext(1, map[string]*Creature{}, 10)

	res := d.Dispatch(ctx, nil, nil, EffectRow{OpcodeID: 24})
	require.NotNil(t, res.Warning)
	assert.Equal(t, WarnNoHandlerKnown, res.Warning.Kind)
}

func TestDispatcher_ParamLabelMismatchWarns(t *testing.T) {
	handlers := map[int]Handler{
		42: func(ctx *Context, actor, target *Creature, row EffectRow, params map[string]int) EffectResult {
			return ok()
		},
	}
	metas := []HandlerMeta{{OpcodeID: 42, Name: "test", ExpectedLabel: "points,,,,,"}}
	d := NewDispatcher(handlers, metas)
	ctx := NewContext(1, map[string]*Creature{}, 10)

	res := d.Dispatch(ctx, nil, nil, EffectRow{OpcodeID: 42, ParamSchema: "duration,,,,,"})
	require.NotNil(t, res.Warning)
	assert.Equal(t, WarnParamLabelMismatch, res.Warning.Kind)
	assert.True(t, res.Executed)
}

func TestDispatcher_HandlerPanicBecomesWarning(t *testing.T) {
	handlers := map[int]Handler{
		42: func(ctx *Context, actor, target *Creature, row EffectRow, params map[string]int) EffectResult {
			panic("boom")
		},
	}
	d := NewDispatcher(handlers)
	ctx := NewContext(1, map[string]*Creature{}, 10)

	res := d.Dispatch(ctx, nil, nil, EffectRow{OpcodeID: 42})
	require.NotNil(t, res.Warning)
	assert.Equal(t, WarnHandlerError, res.Warning.Kind)
	assert.False(t, res.Executed)
}

func TestDispatcher_SuccessfulDispatch(t *testing.T) {
	handlers := map[int]Handler{
		42: func(ctx *Context, actor, target *Creature, row EffectRow, params map[string]int) EffectResult {
			return ok()
		},
	}
	d := NewDispatcher(handlers)
	ctx := NewContext(1, map[string]*Creature{}, 10)

	res := d.Dispatch(ctx, nil, nil, EffectRow{OpcodeID: 42})
	assert.True(t, res.Executed)
	assert.Nil(t, res.Warning)
	assert.Equal(t, FlowContinue, res.Flow)
}
