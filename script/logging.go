package script

import (
	"fmt"
	"strings"

	"github.com/NethermindEth/kipt/operation"
	"github.com/NethermindEth/kipt/oplog"
	lua "github.com/yuin/gopher-lua"
)

// logger_init(path?) opens the operation log. Later calls keep the log
// that is already open.
func (h *Host) loggerInit(state *lua.LState) int {
	if h.oplog == nil {
		log, err := oplog.Open(h.fs, lua.LVAsString(state.Get(1)), h.now())
		if err != nil {
			return fail(state, err)
		}
		h.oplog = log
	}
	state.Push(h.loggerTable(state))
	return 1
}

// get_logger() returns the logger table, or nil before logger_init.
func (h *Host) getLogger(state *lua.LState) int {
	if h.oplog == nil {
		state.Push(lua.LNil)
		return 1
	}
	state.Push(h.loggerTable(state))
	return 1
}

// loggerTable exposes write, which appends to the operation log, and
// info, warn and error, which go to the process log. All of them accept
// both logger.f(...) and logger:f(...).
func (h *Host) loggerTable(state *lua.LState) *lua.LTable {
	table := state.NewTable()
	message := func(state *lua.LState) string {
		var parts []string
		for i := 1; i <= state.GetTop(); i++ {
			if v := state.Get(i); v != table {
				parts = append(parts, state.ToStringMeta(v).String())
			}
		}
		return strings.Join(parts, " ")
	}

	state.SetFuncs(table, map[string]lua.LGFunction{
		"write": func(state *lua.LState) int {
			if h.oplog == nil {
				return 0
			}
			if err := h.oplog.WriteLine(message(state)); err != nil {
				state.RaiseError("write operation log: %v", err)
			}
			return 0
		},
		"info": func(state *lua.LState) int {
			h.log.Infow(message(state))
			return 0
		},
		"warn": func(state *lua.LState) int {
			h.log.Warnw(message(state))
			return 0
		},
		"error": func(state *lua.LState) int {
			h.log.Errorw(message(state))
			return 0
		},
	})
	return table
}

// print_str_array(t) prints the strings of t as "[a, b, c]".
func (h *Host) printStrArray(state *lua.LState) int {
	table := state.CheckTable(1)
	items := make([]string, 0, table.Len())
	for i := 1; i <= table.Len(); i++ {
		items = append(items, lua.LVAsString(table.RawGetInt(i)))
	}
	fmt.Fprintln(h.stdout, "["+strings.Join(items, ", ")+"]")
	return 0
}

func (h *Host) writeLog(kind operation.Kind, name string, rows []oplog.Row) {
	if h.oplog == nil {
		return
	}
	if err := h.oplog.Write(string(kind), name, rows); err != nil {
		h.log.Warnw("Failed to write operation log", "kind", kind, "err", err)
	}
}
