package script

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/endpoint"
	"github.com/NethermindEth/kipt/validator"
	playground "github.com/go-playground/validator/v10"
	lua "github.com/yuin/gopher-lua"
)

// ErrConfigurationMissing is returned, before any network I/O, when a
// required configuration global is unset.
var ErrConfigurationMissing = errors.New("missing configuration")

// Configuration globals read from the script.
const (
	globalRPC             = "RPC"
	globalAccountAddress  = "ACCOUNT_ADDRESS"
	globalAccountPrivKey  = "ACCOUNT_PRIVKEY"
	globalAccountIsLegacy = "ACCOUNT_IS_LEGACY"
)

// Config is the connection and signing configuration of one operation. It is
// read from the script globals when the operation is called.
type Config struct {
	RPC             string `validate:"required,endpoint" mapstructure:"rpc"`
	AccountAddress  string `validate:"required,felt" mapstructure:"account-address"`
	AccountPrivKey  string `validate:"required,felt" mapstructure:"account-privkey"`
	AccountIsLegacy bool   `mapstructure:"account-legacy"`
}

var globalNames = map[string]string{
	"RPC":            globalRPC,
	"AccountAddress": globalAccountAddress,
	"AccountPrivKey": globalAccountPrivKey,
}

func (c *Config) Encoding() core.CalldataEncoding {
	if c.AccountIsLegacy {
		return core.LegacyEncoding
	}
	return core.Cairo1Encoding
}

// readConfig reads the configuration globals. Values of the wrong type read
// as unset.
func readConfig(state *lua.LState) *Config {
	return &Config{
		RPC:             stringGlobal(state, globalRPC),
		AccountAddress:  stringGlobal(state, globalAccountAddress),
		AccountPrivKey:  stringGlobal(state, globalAccountPrivKey),
		AccountIsLegacy: lua.LVAsBool(state.GetGlobal(globalAccountIsLegacy)),
	}
}

func stringGlobal(state *lua.LState, name string) string {
	if s, ok := state.GetGlobal(name).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// seed sets the globals of the non-empty fields of c.
func (c *Config) seed(state *lua.LState) {
	set := func(name, value string) {
		if value != "" {
			state.SetGlobal(name, lua.LString(value))
		}
	}
	set(globalRPC, c.RPC)
	set(globalAccountAddress, c.AccountAddress)
	set(globalAccountPrivKey, c.AccountPrivKey)
	if c.AccountIsLegacy {
		state.SetGlobal(globalAccountIsLegacy, lua.LTrue)
	}
}

// validateSigning checks everything a signing operation needs.
func (c *Config) validateSigning() error {
	return translate(validator.Validator().Struct(c))
}

// validateProvider checks the endpoint only.
func (c *Config) validateProvider() error {
	return translate(validator.Validator().StructPartial(c, "RPC"))
}

// translate maps the first validation failure onto the package errors. The
// rejected value is never part of the message.
func translate(err error) error {
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, globalNames[fe.Field()])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v must be set", ErrConfigurationMissing, missing)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "endpoint":
		return fmt.Errorf("%s: %w", globalRPC, endpoint.ErrInvalidNetwork)
	case "felt":
		return fmt.Errorf("%s: %w", globalNames[fe.Field()], core.ErrInvalidFieldElement)
	default:
		return fmt.Errorf("%s: failed %q check", globalNames[fe.Field()], fe.Tag())
	}
}
