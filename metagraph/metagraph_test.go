package metagraph_test

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"

	"github.com/metachain-dev/metagraph-contract/common"
	"github.com/metachain-dev/metagraph-contract/metagraph"
)

const metagraphPath = "../metagraph"

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func deployMetagraphContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, metagraphPath, path.Join(metagraphPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

func newMetagraphInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployMetagraphContract(t, e)
	return e.CommitteeInvoker(h)
}

func iteratorToArray(iter *storage.Iterator) []stackitem.Item {
	stackItems := make([]stackitem.Item, 0)
	for iter.Next() {
		stackItems = append(stackItems, iter.Value())
	}
	return stackItems
}

type testNeuron struct {
	signer  neotest.SingleSigner
	hotkey  []byte
	coldkey []byte
}

func newTestNeuron(t *testing.T, c *neotest.ContractInvoker) testNeuron {
	hot := c.NewAccount(t).(neotest.SingleSigner)
	cold := c.NewAccount(t).(neotest.SingleSigner)
	return testNeuron{
		signer:  hot,
		hotkey:  hot.Account().PrivateKey().PublicKey().Bytes(),
		coldkey: cold.Account().PrivateKey().PublicKey().Bytes(),
	}
}

// createSubnet registers a subnet signing with both the committee and a new
// owner account, returns the owner.
func createSubnet(t *testing.T, c *neotest.ContractInvoker, netuid int64) neotest.SingleSigner {
	owner := c.NewAccount(t).(neotest.SingleSigner)
	ownerPub := owner.Account().PrivateKey().PublicKey().Bytes()

	c.WithSigners(c.Committee, owner).Invoke(t, stackitem.Null{}, "createSubnet", netuid, ownerPub)
	return owner
}

func registerNeuron(t *testing.T, c *neotest.ContractInvoker, netuid int64, n testNeuron, expUID int64) {
	c.WithSigners(n.signer).Invoke(t, expUID, "registerNeuron", netuid, n.hotkey, n.coldkey)
}

func TestVersion(t *testing.T) {
	c := newMetagraphInvoker(t)
	c.Invoke(t, common.Version, "version")
}

func TestCreateSubnet(t *testing.T) {
	c := newMetagraphInvoker(t)

	owner := createSubnet(t, c, 5)
	ownerPub := owner.Account().PrivateKey().PublicKey().Bytes()

	c.Invoke(t, stackitem.NewByteArray(ownerPub), "subnetOwner", 5)
	c.Invoke(t, 0, "neuronCount", 5)
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{}), "stakes", 5)

	t.Run("already exists", func(t *testing.T) {
		c.WithSigners(c.Committee, owner).InvokeFail(t, metagraph.ErrSubnetExists,
			"createSubnet", 5, ownerPub)
	})

	t.Run("no committee witness", func(t *testing.T) {
		c.WithSigners(owner).InvokeFail(t, common.ErrCommitteeWitnessFailed,
			"createSubnet", 6, ownerPub)
	})

	t.Run("no owner witness", func(t *testing.T) {
		stranger := c.NewAccount(t).(neotest.SingleSigner)
		strangerPub := stranger.Account().PrivateKey().PublicKey().Bytes()
		c.InvokeFail(t, common.ErrOwnerWitnessFailed, "createSubnet", 6, strangerPub)
	})

	t.Run("unknown subnet", func(t *testing.T) {
		c.InvokeFail(t, metagraph.ErrSubnetNotExist, "subnetOwner", 42)
	})
}

func TestRegisterNeuron(t *testing.T) {
	c := newMetagraphInvoker(t)
	createSubnet(t, c, 5)

	n0 := newTestNeuron(t, c)
	n1 := newTestNeuron(t, c)
	registerNeuron(t, c, 5, n0, 0)
	registerNeuron(t, c, 5, n1, 1)

	c.Invoke(t, 2, "neuronCount", 5)

	t.Run("duplicate hotkey", func(t *testing.T) {
		c.WithSigners(n0.signer).InvokeFail(t, metagraph.ErrNeuronExists,
			"registerNeuron", 5, n0.hotkey, n0.coldkey)
	})

	t.Run("no hotkey witness", func(t *testing.T) {
		stranger := newTestNeuron(t, c)
		c.WithSigners(n0.signer).InvokeFail(t, common.ErrWitnessFailed,
			"registerNeuron", 5, stranger.hotkey, stranger.coldkey)
	})

	t.Run("unknown subnet", func(t *testing.T) {
		c.WithSigners(n0.signer).InvokeFail(t, metagraph.ErrSubnetNotExist,
			"registerNeuron", 42, n0.hotkey, n0.coldkey)
	})

	t.Run("bad key", func(t *testing.T) {
		c.WithSigners(n0.signer).InvokeFail(t, metagraph.ErrInvalidKey,
			"registerNeuron", 5, n0.hotkey[:16], n0.coldkey)
	})
}

func TestNeurons(t *testing.T) {
	c := newMetagraphInvoker(t)
	createSubnet(t, c, 5)

	neurons := []testNeuron{newTestNeuron(t, c), newTestNeuron(t, c), newTestNeuron(t, c)}
	for i, n := range neurons {
		registerNeuron(t, c, 5, n, int64(i))
	}

	s, err := c.TestInvoke(t, "neurons", 5)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)

	items := iteratorToArray(iter)
	require.Len(t, items, len(neurons))

	for i, item := range items {
		fields, ok := item.Value().([]stackitem.Item)
		require.True(t, ok)
		require.Len(t, fields, 3)

		uid, err := fields[0].TryInteger()
		require.NoError(t, err)
		require.EqualValues(t, i, uid.Int64())

		hotkey, err := fields[1].TryBytes()
		require.NoError(t, err)
		require.Equal(t, neurons[i].hotkey, hotkey)

		coldkey, err := fields[2].TryBytes()
		require.NoError(t, err)
		require.Equal(t, neurons[i].coldkey, coldkey)
	}

	t.Run("by uid", func(t *testing.T) {
		c.Invoke(t, stackitem.NewStruct([]stackitem.Item{
			stackitem.Make(1),
			stackitem.Make(neurons[1].hotkey),
			stackitem.Make(neurons[1].coldkey),
		}), "neuronByUID", 5, 1)

		c.InvokeFail(t, metagraph.ErrNeuronNotExist, "neuronByUID", 5, 3)
	})

	t.Run("empty subnet", func(t *testing.T) {
		createSubnet(t, c, 7)

		s, err := c.TestInvoke(t, "neurons", 7)
		require.NoError(t, err)
		iter, ok := s.Pop().Value().(*storage.Iterator)
		require.True(t, ok)
		require.Empty(t, iteratorToArray(iter))
	})

	t.Run("unknown subnet", func(t *testing.T) {
		c.InvokeFail(t, metagraph.ErrSubnetNotExist, "neurons", 42)
	})
}

func TestSetStake(t *testing.T) {
	c := newMetagraphInvoker(t)
	owner := createSubnet(t, c, 5)
	cOwner := c.WithSigners(owner)

	registerNeuron(t, c, 5, newTestNeuron(t, c), 0)
	registerNeuron(t, c, 5, newTestNeuron(t, c), 1)

	cOwner.Invoke(t, stackitem.Null{}, "setStake", 5, 1, 42_0000_0000)
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(0),
		stackitem.Make(42_0000_0000),
	}), "stakes", 5)

	t.Run("not owner", func(t *testing.T) {
		c.InvokeFail(t, common.ErrOwnerWitnessFailed, "setStake", 5, 0, 1)
	})

	t.Run("negative amount", func(t *testing.T) {
		cOwner.InvokeFail(t, metagraph.ErrInvalidAmount, "setStake", 5, 0, -1)
	})

	t.Run("unknown uid", func(t *testing.T) {
		cOwner.InvokeFail(t, metagraph.ErrNeuronNotExist, "setStake", 5, 7, 1)
	})
}

func TestSetIncentives(t *testing.T) {
	c := newMetagraphInvoker(t)
	owner := createSubnet(t, c, 5)
	cOwner := c.WithSigners(owner)

	registerNeuron(t, c, 5, newTestNeuron(t, c), 0)
	registerNeuron(t, c, 5, newTestNeuron(t, c), 1)

	c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(0),
		stackitem.Make(0),
	}), "incentives", 5)

	cOwner.Invoke(t, stackitem.Null{}, "setIncentives", 5,
		[]interface{}{int64(5000_0000), int64(2500_0000)})
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(5000_0000),
		stackitem.Make(2500_0000),
	}), "incentives", 5)

	t.Run("not owner", func(t *testing.T) {
		c.InvokeFail(t, common.ErrOwnerWitnessFailed, "setIncentives", 5,
			[]interface{}{int64(1), int64(2)})
	})

	t.Run("wrong length", func(t *testing.T) {
		cOwner.InvokeFail(t, metagraph.ErrArrayLength, "setIncentives", 5,
			[]interface{}{int64(1)})
	})
}

func TestUpdate(t *testing.T) {
	c := newMetagraphInvoker(t)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, "only committee can update contract",
		"update", []byte{}, []byte{}, nil)
}
