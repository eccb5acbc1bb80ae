package endpoint

import (
	"fmt"
	"strings"

	"github.com/NethermindEth/kipt/utils"
)

// Resolve turns a URL or a network name into an endpoint. Strings starting
// with "http" select the JSON-RPC endpoint at that URL; MAINNET, GOERLI-1 and
// GOERLI-2 select the sequencer gateway of that network. No request is made.
func Resolve(urlOrName string, log utils.SimpleLogger) (Endpoint, error) {
	if strings.HasPrefix(urlOrName, "http") {
		return NewRPC(urlOrName, log)
	}

	var network utils.Network
	if err := network.Set(urlOrName); err != nil {
		return nil, fmt.Errorf("%w: %q is neither a URL nor one of MAINNET, GOERLI-1, GOERLI-2", ErrInvalidNetwork, urlOrName)
	}
	return NewGateway(network, log), nil
}
