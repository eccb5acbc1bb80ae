package core

import (
	"github.com/NethermindEth/juno/core/felt"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

const selectorCacheSize = 1024

var selectorCache = newSelectorCache()

func newSelectorCache() *lru.Cache[string, felt.Felt] {
	cache, err := lru.New[string, felt.Felt](selectorCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// StarknetKeccak is keccak256 truncated to 250 bits.
func StarknetKeccak(b []byte) *felt.Felt {
	h := sha3.NewLegacyKeccak256()
	h.Write(b) //nolint:errcheck
	d := h.Sum(nil)
	// Remove the first 6 bits from the first byte
	d[0] &= 3
	return new(felt.Felt).SetBytes(d)
}

// Selector returns the entry point selector of a function name.
func Selector(name string) *felt.Felt {
	if cached, ok := selectorCache.Get(name); ok {
		return &cached
	}
	selector := StarknetKeccak([]byte(name))
	selectorCache.Add(name, *selector)
	return selector
}
