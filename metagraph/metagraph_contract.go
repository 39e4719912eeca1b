package metagraph

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/metachain-dev/metagraph-contract/common"
)

// Neuron is a single participant registered in a subnet. Stake and incentive
// values are not part of the record, they live in parallel arrays indexed by
// UID, see Stakes and Incentives.
type Neuron struct {
	// UID is the neuron index in the subnet registry, unique within the
	// subnet and assigned densely in registration order.
	UID int

	// Hotkey is the operational identity key of the neuron.
	Hotkey interop.PublicKey

	// Coldkey is the custodial identity key of the neuron.
	Coldkey interop.PublicKey
}

const (
	// ErrInvalidNetUID is thrown when subnet id is negative.
	ErrInvalidNetUID = "invalid subnet id"
	// ErrInvalidKey is thrown when a key is not a compressed public key.
	ErrInvalidKey = "invalid public key"
	// ErrSubnetExists is thrown when subnet id already exists.
	ErrSubnetExists = "subnet id already exists"
	// ErrSubnetNotExist is thrown when subnet id doesn't exist.
	ErrSubnetNotExist = "subnet id doesn't exist"
	// ErrNeuronExists is thrown when hotkey is already registered in the subnet.
	ErrNeuronExists = "neuron already registered"
	// ErrNeuronNotExist is thrown when uid is not registered in the subnet.
	ErrNeuronNotExist = "neuron not found"
	// ErrInvalidAmount is thrown when stake amount is negative.
	ErrInvalidAmount = "invalid stake amount"
	// ErrSubnetFull is thrown when the subnet neuron limit is reached.
	ErrSubnetFull = "subnet neuron limit reached"
	// ErrArrayLength is thrown when an incentives array doesn't cover
	// every registered neuron.
	ErrArrayLength = "wrong incentives array length"
)

const (
	ownerPrefix     = 'o'
	countPrefix     = 'c'
	neuronPrefix    = 'n'
	stakePrefix     = 's'
	incentivePrefix = 'i'
)

// maxSubnetNeurons limits the number of UIDs a single subnet can assign.
const maxSubnetNeurons = 4096

// _deploy checks contract version on update.
// nolint:deadcode,unused
func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
	}
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update", contract.All,
		script, manifest, common.AppendVersion(data))
	runtime.Log("metagraph contract updated")
}

// CreateSubnet registers a new subnet with the specified owner key. Must be
// witnessed by both the owner and the committee.
func CreateSubnet(netuid int, ownerKey interop.PublicKey) {
	if netuid < 0 {
		panic(ErrInvalidNetUID)
	}
	if len(ownerKey) != interop.PublicKeyCompressedLen {
		panic(ErrInvalidKey)
	}

	ctx := storage.GetContext()
	ownerKeyST := subnetKey(ownerPrefix, netuid)
	if storage.Get(ctx, ownerKeyST) != nil {
		panic(ErrSubnetExists)
	}

	common.CheckOwnerWitness(ownerKey)
	common.CheckCommitteeWitness()

	storage.Put(ctx, ownerKeyST, ownerKey)
	storage.Put(ctx, subnetKey(countPrefix, netuid), 0)
	common.SetSerialized(ctx, subnetKey(stakePrefix, netuid), []int{})
	common.SetSerialized(ctx, subnetKey(incentivePrefix, netuid), []int{})

	runtime.Notify("NewSubnet", netuid, ownerKey)
}

// RegisterNeuron adds a neuron identified by hotkey and coldkey to the
// specified subnet and returns its assigned UID. Must be witnessed by the
// hotkey. The stake and incentive arrays are extended with zero values for
// the new UID.
func RegisterNeuron(netuid int, hotkey interop.PublicKey, coldkey interop.PublicKey) int {
	if len(hotkey) != interop.PublicKeyCompressedLen || len(coldkey) != interop.PublicKeyCompressedLen {
		panic(ErrInvalidKey)
	}

	ctx := storage.GetContext()
	requireSubnet(ctx, netuid)

	common.CheckWitness(hotkey)

	uid := neuronCount(ctx, netuid)
	if uid >= maxSubnetNeurons {
		panic(ErrSubnetFull)
	}

	it := storage.Find(ctx, neuronListPrefix(netuid), storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		n := iterator.Value(it).(Neuron)
		if common.BytesEqual(n.Hotkey, hotkey) {
			panic(ErrNeuronExists)
		}
	}

	common.SetSerialized(ctx, neuronKey(netuid, uid), Neuron{
		UID:     uid,
		Hotkey:  hotkey,
		Coldkey: coldkey,
	})
	storage.Put(ctx, subnetKey(countPrefix, netuid), uid+1)

	stKey := subnetKey(stakePrefix, netuid)
	common.SetSerialized(ctx, stKey, append(common.GetIntList(ctx, stKey), 0))
	incKey := subnetKey(incentivePrefix, netuid)
	common.SetSerialized(ctx, incKey, append(common.GetIntList(ctx, incKey), 0))

	runtime.Notify("NeuronRegistered", netuid, uid, hotkey)

	return uid
}

// SetStake sets the amount of value bonded to the neuron with the given UID.
// Amount is a non-negative fixed8 integer. Must be witnessed by the subnet
// owner.
func SetStake(netuid int, uid int, amount int) {
	if amount < 0 {
		panic(ErrInvalidAmount)
	}

	ctx := storage.GetContext()
	checkSubnetOwner(ctx, netuid)

	stKey := subnetKey(stakePrefix, netuid)
	stakes := common.GetIntList(ctx, stKey)
	if uid < 0 || uid >= len(stakes) {
		panic(ErrNeuronNotExist)
	}

	stakes[uid] = amount
	common.SetSerialized(ctx, stKey, stakes)
}

// SetIncentives replaces the incentive array of the subnet. The array must
// have exactly one fixed8 value per registered neuron, index matching UID.
// Must be witnessed by the subnet owner.
func SetIncentives(netuid int, values []int) {
	ctx := storage.GetContext()
	checkSubnetOwner(ctx, netuid)

	if len(values) != neuronCount(ctx, netuid) {
		panic(ErrArrayLength)
	}

	common.SetSerialized(ctx, subnetKey(incentivePrefix, netuid), values)
}

// Neurons returns an iterator over all neurons registered in the specified
// subnet, ordered by UID.
func Neurons(netuid int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	requireSubnet(ctx, netuid)

	return storage.Find(ctx, neuronListPrefix(netuid), storage.ValuesOnly|storage.DeserializeValues)
}

// NeuronByUID returns the neuron registered in the subnet under the given UID.
func NeuronByUID(netuid int, uid int) Neuron {
	ctx := storage.GetReadOnlyContext()
	requireSubnet(ctx, netuid)

	data := storage.Get(ctx, neuronKey(netuid, uid))
	if data == nil {
		panic(ErrNeuronNotExist)
	}
	return std.Deserialize(data.([]byte)).(Neuron)
}

// Stakes returns the stake array of the subnet, index matching neuron UID.
func Stakes(netuid int) []int {
	ctx := storage.GetReadOnlyContext()
	requireSubnet(ctx, netuid)

	return common.GetIntList(ctx, subnetKey(stakePrefix, netuid))
}

// Incentives returns the incentive array of the subnet, index matching
// neuron UID.
func Incentives(netuid int) []int {
	ctx := storage.GetReadOnlyContext()
	requireSubnet(ctx, netuid)

	return common.GetIntList(ctx, subnetKey(incentivePrefix, netuid))
}

// NeuronCount returns the number of neurons registered in the subnet.
func NeuronCount(netuid int) int {
	ctx := storage.GetReadOnlyContext()
	requireSubnet(ctx, netuid)

	return neuronCount(ctx, netuid)
}

// SubnetOwner returns the owner public key of the subnet.
func SubnetOwner(netuid int) interop.PublicKey {
	ctx := storage.GetReadOnlyContext()

	raw := storage.Get(ctx, subnetKey(ownerPrefix, netuid))
	if raw == nil {
		panic(ErrSubnetNotExist)
	}
	return raw.(interop.PublicKey)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func subnetKey(prefix byte, netuid int) []byte {
	if netuid < 0 {
		panic(ErrInvalidNetUID)
	}
	return append([]byte{prefix}, std.Itoa(netuid, 10)...)
}

// neuronListPrefix terminates the decimal netuid with a byte that can't
// appear in std.Itoa output, so that storage.Find for subnet 1 doesn't pick
// up neurons of subnet 10.
func neuronListPrefix(netuid int) []byte {
	return append(subnetKey(neuronPrefix, netuid), 0xff)
}

func neuronKey(netuid int, uid int) []byte {
	// uid is big-endian to keep storage.Find order equal to UID order
	return append(neuronListPrefix(netuid), byte(uid/0x100), byte(uid%0x100))
}

func neuronCount(ctx storage.Context, netuid int) int {
	return storage.Get(ctx, subnetKey(countPrefix, netuid)).(int)
}

func requireSubnet(ctx storage.Context, netuid int) {
	if storage.Get(ctx, subnetKey(ownerPrefix, netuid)) == nil {
		panic(ErrSubnetNotExist)
	}
}

func checkSubnetOwner(ctx storage.Context, netuid int) {
	raw := storage.Get(ctx, subnetKey(ownerPrefix, netuid))
	if raw == nil {
		panic(ErrSubnetNotExist)
	}
	common.CheckOwnerWitness(raw.([]byte))
}
