package metagraph

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Neuron is a contract-specific metagraph.Neuron type used by its methods.
type Neuron struct {
	UID     *big.Int
	Hotkey  *keys.PublicKey
	Coldkey *keys.PublicKey
}

// itemToNeuron converts stack item into *Neuron.
func itemToNeuron(item stackitem.Item, err error) (*Neuron, error) {
	if err != nil {
		return nil, err
	}
	res := new(Neuron)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Neuron from the given
// [stackitem.Item] or returns an error if it's not possible to do to due
// to type mismatch.
func (res *Neuron) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.UID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field UID: %w", err)
	}

	index++
	res.Hotkey, err = func(item stackitem.Item) (*keys.PublicKey, error) {
		b, err := item.TryBytes()
		if err != nil {
			return nil, err
		}
		k, err := keys.NewPublicKeyFromBytes(b, elliptic.P256())
		if err != nil {
			return nil, err
		}
		return k, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Hotkey: %w", err)
	}

	index++
	res.Coldkey, err = func(item stackitem.Item) (*keys.PublicKey, error) {
		b, err := item.TryBytes()
		if err != nil {
			return nil, err
		}
		k, err := keys.NewPublicKeyFromBytes(b, elliptic.P256())
		if err != nil {
			return nil, err
		}
		return k, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Coldkey: %w", err)
	}

	return nil
}
