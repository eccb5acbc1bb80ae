package validator_test

import (
	"testing"

	"github.com/NethermindEth/kipt/validator"
	"github.com/stretchr/testify/assert"
)

type target struct {
	Endpoint string `validate:"required,endpoint"`
	Address  string `validate:"omitempty,felt"`
}

func TestValidator(t *testing.T) {
	tests := map[string]struct {
		target target
		valid  bool
	}{
		"rpc url":          {target{Endpoint: "http://localhost:5050"}, true},
		"network":          {target{Endpoint: "GOERLI-1", Address: "0x1"}, true},
		"missing endpoint": {target{Address: "0x1"}, false},
		"unknown network":  {target{Endpoint: "goerli"}, false},
		"bad address":      {target{Endpoint: "MAINNET", Address: "0xzz"}, false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := validator.Validator().Struct(test.target)
			if test.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.Same(t, validator.Validator(), validator.Validator())
}
