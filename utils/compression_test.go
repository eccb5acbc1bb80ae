package utils_test

import (
	"testing"

	"github.com/NethermindEth/kipt/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGzip64Encode(t *testing.T) {
	bytes := []byte{0}
	expectedComBytes := "H4sIAAAAAAAA/2IABAAA//+N7wLSAQAAAA=="
	comBytes, err := utils.Gzip64Encode(bytes)
	require.NoError(t, err)
	assert.Equal(t, expectedComBytes, comBytes)
}

func TestGzip64EncodeJSON(t *testing.T) {
	encoded, err := utils.Gzip64EncodeJSON([]string{"0x1", "0x2"})
	require.NoError(t, err)

	decoded, err := utils.Gzip64Decode(encoded)
	require.NoError(t, err)
	assert.JSONEq(t, `["0x1","0x2"]`, string(decoded))

	_, err = utils.Gzip64Decode("not base64!")
	require.Error(t, err)
}
