package account

import (
	"context"
	"math/big"

	snaccount "github.com/NethermindEth/starknet.go/account"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/core"
)

// Signer produces the signature of a transaction hash.
type Signer interface {
	Sign(ctx context.Context, msgHash *felt.Felt) ([]*felt.Felt, error)
}

// KeystoreSigner signs with a Stark curve private key held in an in-memory keystore.
type KeystoreSigner struct {
	keystore *snaccount.MemKeystore
	id       string
}

var _ Signer = (*KeystoreSigner)(nil)

// NewKeystoreSigner stores privateKey under the account address. The key is
// only reachable through the keystore afterwards.
func NewKeystoreSigner(address, privateKey *felt.Felt) *KeystoreSigner {
	key := privateKey.Bytes()
	defer clear(key[:])

	id := core.EncodeFelt(address)
	keystore := snaccount.NewMemKeystore()
	keystore.Put(id, new(big.Int).SetBytes(key[:]))
	return &KeystoreSigner{keystore: keystore, id: id}
}

func (s *KeystoreSigner) Sign(ctx context.Context, msgHash *felt.Felt) ([]*felt.Felt, error) {
	hash := msgHash.Bytes()
	r, sig, err := s.keystore.Sign(ctx, s.id, new(big.Int).SetBytes(hash[:]))
	if err != nil {
		return nil, err
	}
	return []*felt.Felt{
		new(felt.Felt).SetBytes(r.Bytes()),
		new(felt.Felt).SetBytes(sig.Bytes()),
	}, nil
}
