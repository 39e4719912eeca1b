// Package metagraph contains RPC wrappers for Metagraph contract.
package metagraph

import (
	"crypto/elliptic"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract
// hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// Neurons returns an iterator over all neurons registered in the subnet,
// ordered by UID. It depends on the server to provide proper session-based
// iterator, but can be used with simple wallet-connected Invoker.
func (c *ContractReader) Neurons(netuid *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "neurons", netuid))
}

// NeuronsExpanded is similar to Neurons (uses the same contract method), but
// can be useful if the server used doesn't support sessions and doesn't
// expand iterators. It creates a script that will get the specified number of
// result items from the iterator right in the VM and return them to you. It's
// only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) NeuronsExpanded(netuid *big.Int, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "neurons", _numOfIteratorItems, netuid))
}

// NeuronByUID invokes `neuronByUID` method of contract.
func (c *ContractReader) NeuronByUID(netuid *big.Int, uid *big.Int) (*Neuron, error) {
	return itemToNeuron(unwrap.Item(c.invoker.Call(c.hash, "neuronByUID", netuid, uid)))
}

// NeuronCount invokes `neuronCount` method of contract.
func (c *ContractReader) NeuronCount(netuid *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "neuronCount", netuid))
}

// Stakes invokes `stakes` method of contract.
func (c *ContractReader) Stakes(netuid *big.Int) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "stakes", netuid))
}

// Incentives invokes `incentives` method of contract.
func (c *ContractReader) Incentives(netuid *big.Int) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "incentives", netuid))
}

// SubnetOwner invokes `subnetOwner` method of contract.
func (c *ContractReader) SubnetOwner(netuid *big.Int) (*keys.PublicKey, error) {
	b, err := unwrap.Bytes(c.invoker.Call(c.hash, "subnetOwner", netuid))
	if err != nil {
		return nil, err
	}
	return keys.NewPublicKeyFromBytes(b, elliptic.P256())
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}
