package utils

import (
	"encoding"
	"encoding/json"
	"errors"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/spf13/pflag"
)

var ErrUnknownNetwork = errors.New("unknown network (known: MAINNET, GOERLI-1, GOERLI-2)")

// Network is a public Starknet network reachable through the sequencer gateway.
type Network int

// The following are necessary for Cobra and Viper, respectively, to unmarshal
// CLI/config parameters properly.
var (
	_ pflag.Value              = (*Network)(nil)
	_ encoding.TextUnmarshaler = (*Network)(nil)
)

const (
	Mainnet Network = iota + 1
	Goerli
	Goerli2
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "MAINNET"
	case Goerli:
		return "GOERLI-1"
	case Goerli2:
		return "GOERLI-2"
	default:
		// Should not happen.
		panic(ErrUnknownNetwork)
	}
}

func (n Network) MarshalYAML() (interface{}, error) {
	return n.String(), nil
}

func (n *Network) MarshalJSON() ([]byte, error) {
	return json.RawMessage(`"` + n.String() + `"`), nil
}

// Set only accepts the exact network names.
func (n *Network) Set(s string) error {
	switch s {
	case "MAINNET":
		*n = Mainnet
	case "GOERLI-1":
		*n = Goerli
	case "GOERLI-2":
		*n = Goerli2
	default:
		return ErrUnknownNetwork
	}
	return nil
}

func (n *Network) Type() string {
	return "Network"
}

func (n *Network) UnmarshalText(text []byte) error {
	return n.Set(string(text))
}

// baseURL returns the base URL without endpoint
func (n Network) baseURL() string {
	switch n {
	case Goerli:
		return "https://alpha4.starknet.io/"
	case Mainnet:
		return "https://alpha-mainnet.starknet.io/"
	case Goerli2:
		return "https://alpha4-2.starknet.io/"
	default:
		// Should not happen.
		panic(ErrUnknownNetwork)
	}
}

// FeederURL returns URL for read commands
func (n Network) FeederURL() string {
	return n.baseURL() + "feeder_gateway/"
}

// GatewayURL returns URL for write commands
func (n Network) GatewayURL() string {
	return n.baseURL() + "gateway/"
}

func (n Network) ChainIDString() string {
	switch n {
	case Goerli:
		return "SN_GOERLI"
	case Mainnet:
		return "SN_MAIN"
	case Goerli2:
		return "SN_GOERLI2"
	default:
		// Should not happen.
		panic(ErrUnknownNetwork)
	}
}

func (n Network) ChainID() *felt.Felt {
	return new(felt.Felt).SetBytes([]byte(n.ChainIDString()))
}
