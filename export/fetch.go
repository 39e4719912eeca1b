// Package export implements retrieval of subnet metagraph snapshots and
// their serialization to CSV.
package export

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"

	"github.com/metachain-dev/metagraph-contract/rpc/metagraph"
)

// Miner is one subnet participant of a fetched snapshot. Keys are base58
// encodings of the compressed public keys stored in the registry. Stake and
// incentive are fixed8 integers taken from the per-subnet parallel arrays.
type Miner struct {
	UID       int
	Hotkey    string
	Coldkey   string
	Stake     *big.Int
	Incentive *big.Int
}

// Registry is the subset of [metagraph.ContractReader] needed to read a
// subnet snapshot.
type Registry interface {
	Neurons(netuid *big.Int) (uuid.UUID, result.Iterator, error)
	Stakes(netuid *big.Int) ([]*big.Int, error)
	Incentives(netuid *big.Int) ([]*big.Int, error)
}

// Session is the subset of [invoker.Invoker] needed to drain iterators
// opened by Registry calls.
type Session interface {
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
	TerminateSession(sessionID uuid.UUID) error
}

// Prm groups parameters of Fetch. Registry and Session are required and are
// usually backed by the same RPC connection. Logger is optional.
type Prm struct {
	Registry Registry
	Session  Session
	NetUID   int
	Logger   *zap.Logger
}

// Fetch reads the full snapshot of the subnet registry: every registered
// neuron joined with its stake and incentive values. Fetch lists all neurons
// as miners without filtering them by role. Zero registered neurons is not
// an error, the result is simply empty.
func Fetch(prm Prm) ([]Miner, error) {
	l := prm.Logger
	if l == nil {
		l = zap.NewNop()
	}

	netuid := big.NewInt(int64(prm.NetUID))

	sess, iter, err := prm.Registry.Neurons(netuid)
	if err != nil {
		return nil, fmt.Errorf("list neurons of subnet %d: %w", prm.NetUID, err)
	}
	defer prm.Session.TerminateSession(sess)

	var neurons []metagraph.Neuron
	items, err := prm.Session.TraverseIterator(sess, &iter, 0)
	for ; err == nil && len(items) > 0; items, err = prm.Session.TraverseIterator(sess, &iter, 0) {
		for _, item := range items {
			var n metagraph.Neuron
			if err := n.FromStackItem(item); err != nil {
				return nil, fmt.Errorf("malformed neuron record: %w", err)
			}
			neurons = append(neurons, n)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("traverse neurons of subnet %d: %w", prm.NetUID, err)
	}

	if len(neurons) == 0 {
		l.Info("subnet registry is empty", zap.Int("netuid", prm.NetUID))
		return nil, nil
	}

	stakes, err := prm.Registry.Stakes(netuid)
	if err != nil {
		return nil, fmt.Errorf("get stakes of subnet %d: %w", prm.NetUID, err)
	}
	incentives, err := prm.Registry.Incentives(netuid)
	if err != nil {
		return nil, fmt.Errorf("get incentives of subnet %d: %w", prm.NetUID, err)
	}

	miners := make([]Miner, 0, len(neurons))
	for _, n := range neurons {
		uid := int(n.UID.Int64())
		if uid < 0 || uid >= len(stakes) || uid >= len(incentives) {
			return nil, fmt.Errorf("no stake recorded for neuron %d of subnet %d", uid, prm.NetUID)
		}

		miners = append(miners, Miner{
			UID:       uid,
			Hotkey:    base58.Encode(n.Hotkey.Bytes()),
			Coldkey:   base58.Encode(n.Coldkey.Bytes()),
			Stake:     stakes[uid],
			Incentive: incentives[uid],
		})

		l.Debug("fetched neuron",
			zap.Int("uid", uid),
			zap.String("stake", fixedn.ToString(stakes[uid], 8)),
			zap.String("incentive", fixedn.ToString(incentives[uid], 8)))
	}

	l.Info("fetched subnet snapshot", zap.Int("netuid", prm.NetUID), zap.Int("neurons", len(miners)))

	return miners, nil
}
