package script

import (
	"fmt"
	"math"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
	lua "github.com/yuin/gopher-lua"
)

// toGo converts a Lua value for mapstructure. Tables with a non-empty array
// part become slices, other tables maps.
func toGo(value lua.LValue) any {
	switch v := value.(type) {
	case lua.LString:
		return string(v)
	case lua.LNumber:
		return float64(v)
	case lua.LBool:
		return bool(v)
	case *lua.LTable:
		if n := v.MaxN(); n > 0 {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, toGo(v.RawGetInt(i)))
			}
			return list
		}
		m := make(map[string]any)
		v.ForEach(func(key, val lua.LValue) {
			if s, ok := key.(lua.LString); ok {
				m[string(s)] = toGo(val)
			}
		})
		return m
	default:
		return nil
	}
}

// feltValue accepts a hex string or a non-negative integer.
func feltValue(value lua.LValue) (*felt.Felt, error) {
	switch v := value.(type) {
	case lua.LString:
		return core.DecodeFelt(string(v))
	case lua.LNumber:
		n := float64(v)
		if n < 0 || n != math.Trunc(n) || n > math.MaxUint64 {
			return nil, fmt.Errorf("%w: %v is not a non-negative integer", core.ErrInvalidFieldElement, n)
		}
		return new(felt.Felt).SetUint64(uint64(n)), nil
	default:
		return nil, fmt.Errorf("%w: got %s", core.ErrInvalidFieldElement, value.Type())
	}
}

// feltList decodes an array of field elements. nil is an empty list.
func feltList(value lua.LValue) ([]*felt.Felt, error) {
	if value == lua.LNil {
		return []*felt.Felt{}, nil
	}
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %s", value.Type())
	}

	felts := make([]*felt.Felt, 0, table.Len())
	for i := 1; i <= table.Len(); i++ {
		f, err := feltValue(table.RawGetInt(i))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		felts = append(felts, f)
	}
	return felts, nil
}

// decodeCalls decodes an array of {to, func, calldata} tables.
func decodeCalls(value lua.LValue) ([]core.Call, error) {
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("calls must be an array, got %s", value.Type())
	}

	calls := make([]core.Call, 0, table.Len())
	for i := 1; i <= table.Len(); i++ {
		entry, ok := table.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("call %d: expected a table", i)
		}

		to, err := feltValue(entry.RawGetString("to"))
		if err != nil {
			return nil, fmt.Errorf("call %d: to: %w", i, err)
		}
		name, ok := entry.RawGetString("func").(lua.LString)
		if !ok || name == "" {
			return nil, fmt.Errorf("call %d: func must be a function name", i)
		}
		calldata, err := feltList(entry.RawGetString("calldata"))
		if err != nil {
			return nil, fmt.Errorf("call %d: calldata: %w", i, err)
		}

		calls = append(calls, core.Call{
			To:       to,
			Selector: core.Selector(string(name)),
			Calldata: calldata,
		})
	}
	return calls, nil
}

func hexArray(state *lua.LState, felts []*felt.Felt) *lua.LTable {
	table := state.CreateTable(len(felts), 0)
	for _, f := range felts {
		table.Append(lua.LString(core.EncodeFelt(f)))
	}
	return table
}

func setHex(table *lua.LTable, key string, f *felt.Felt) {
	if f != nil {
		table.RawSetString(key, lua.LString(core.EncodeFelt(f)))
	}
}

func hexOrEmpty(f *felt.Felt) string {
	if f == nil {
		return ""
	}
	return core.EncodeFelt(f)
}
