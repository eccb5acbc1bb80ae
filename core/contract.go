package core

import (
	"math/big"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
)

var (
	contractAddressPrefix = new(felt.Felt).SetBytes([]byte("STARKNET_CONTRACT_ADDRESS"))

	// addressBound is 2**251 - 256, the exclusive upper bound of contract addresses.
	addressBound = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 251), big.NewInt(256))

	// UniversalDeployerAddress is the Universal Deployer Contract shared by all public networks.
	UniversalDeployerAddress, _ = DecodeFelt("0x041a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf")

	deployContractSelector = Selector("deployContract")
)

// ContractAddress computes the address of a contract deployed by callerAddress.
func ContractAddress(callerAddress, classHash, salt *felt.Felt, constructorCallData []*felt.Felt) *felt.Felt {
	address := crypto.PedersenArray(
		contractAddressPrefix,
		callerAddress,
		salt,
		classHash,
		crypto.PedersenArray(constructorCallData...),
	)
	return bigToFelt(new(big.Int).Mod(feltToBig(address), addressBound))
}

// UDCDeployment is a deployContract call on the Universal Deployer Contract.
type UDCDeployment struct {
	ClassHash           *felt.Felt
	Salt                *felt.Felt
	Unique              bool
	ConstructorCalldata []*felt.Felt
}

// Call builds the invocation of deployContract.
func (d *UDCDeployment) Call() Call {
	unique := &felt.Zero
	if d.Unique {
		unique = new(felt.Felt).SetUint64(1)
	}

	calldata := make([]*felt.Felt, 0, 4+len(d.ConstructorCalldata))
	calldata = append(calldata,
		d.ClassHash,
		d.Salt,
		unique,
		new(felt.Felt).SetUint64(uint64(len(d.ConstructorCalldata))),
	)
	calldata = append(calldata, d.ConstructorCalldata...)

	return Call{
		To:       UniversalDeployerAddress,
		Selector: deployContractSelector,
		Calldata: calldata,
	}
}

// Address is the address the deployment produces when sent by account.
func (d *UDCDeployment) Address(account *felt.Felt) *felt.Felt {
	if !d.Unique {
		return ContractAddress(&felt.Zero, d.ClassHash, d.Salt, d.ConstructorCalldata)
	}
	return ContractAddress(
		UniversalDeployerAddress,
		d.ClassHash,
		crypto.Pedersen(account, d.Salt),
		d.ConstructorCalldata,
	)
}
