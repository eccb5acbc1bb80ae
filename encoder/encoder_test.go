package encoder_test

import (
	"reflect"
	"testing"

	"github.com/NethermindEth/kipt/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Kind   string
	Hashes []string
	Value  any
}

type tagged struct {
	N uint64
}

func TestCanonicalEncoding(t *testing.T) {
	a, err := encoder.Marshal(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	b, err := encoder.Marshal(map[string]int{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRegisterType(t *testing.T) {
	require.NoError(t, encoder.RegisterType(reflect.TypeOf(tagged{})))

	in := entry{Kind: "declare", Hashes: []string{"0x1"}, Value: tagged{N: 7}}
	b, err := encoder.Marshal(in)
	require.NoError(t, err)

	var out entry
	require.NoError(t, encoder.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
