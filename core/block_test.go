package core_test

import (
	"encoding/json"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlockID(t *testing.T) {
	tests := map[string]struct {
		input string
		want  core.BlockID
	}{
		"latest":        {input: "latest", want: core.BlockID{Latest: true}},
		"pending":       {input: "pending", want: core.BlockID{Pending: true}},
		"number":        {input: "123", want: core.BlockID{Number: 123}},
		"genesis":       {input: "0", want: core.BlockID{Number: 0}},
		"max number":    {input: "18446744073709551615", want: core.BlockID{Number: 18446744073709551615}},
		"hash":          {input: "0xabc", want: core.BlockID{Hash: new(felt.Felt).SetUint64(0xabc)}},
		"hash all zero": {input: "0x0", want: core.BlockID{Hash: &felt.Zero}},
		"hash upper 0X": {input: "0XABC", want: core.BlockID{Hash: new(felt.Felt).SetUint64(0xabc)}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := core.ParseBlockID(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.want, id)
		})
	}

	t.Run("number overflow", func(t *testing.T) {
		_, err := core.ParseBlockID("18446744073709551616")
		require.ErrorIs(t, err, core.ErrInvalidBlockNumber)
	})

	for _, input := range []string{"abc", "deadbeef", "12a", "", "Latest", "-1", "0x", "0xnothex"} {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := core.ParseBlockID(input)
			require.ErrorIs(t, err, core.ErrInvalidBlockReference)
		})
	}
}

func TestBlockIDMarshalJSON(t *testing.T) {
	tests := map[string]struct {
		id   core.BlockID
		want string
	}{
		"latest":  {id: core.BlockID{Latest: true}, want: `"latest"`},
		"pending": {id: core.BlockID{Pending: true}, want: `"pending"`},
		"number":  {id: core.BlockID{Number: 7}, want: `{"block_number":7}`},
		"hash": {
			id:   core.BlockID{Hash: new(felt.Felt).SetUint64(1)},
			want: `{"block_hash":"0x0000000000000000000000000000000000000000000000000000000000000001"}`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(test.id)
			require.NoError(t, err)
			assert.JSONEq(t, test.want, string(b))
		})
	}
}

func TestBlockIDString(t *testing.T) {
	assert.Equal(t, "pending", core.BlockID{Pending: true}.String())
	assert.Equal(t, "latest", core.BlockID{Latest: true}.String())
	assert.Equal(t, "42", core.BlockID{Number: 42}.String())
	assert.True(t, core.BlockID{Number: 42}.IsNumber())
	assert.False(t, core.BlockID{Pending: true}.IsNumber())
}
