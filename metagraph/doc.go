/*
Metagraph contract is the subnet participant registry of a metagraph chain.

The chain is partitioned into subnets identified by small non-negative
integers (netuid). Each subnet holds a registry of neurons: participants
identified by a dense numeric UID and a pair of public keys, the operational
hotkey and the custodial coldkey. Stake and incentive values are stored in
per-subnet arrays parallel to the registry, index matching UID, as fixed8
integers.

Metagraph contract is deployed first on every metagraph chain and therefore
always gets contract ID 1, which client code relies on to locate it.

# Contract notifications

NewSubnet notification. This notification is produced when a new subnet is
registered by invoking CreateSubnet method.

	NewSubnet
	  - name: netuid
	    type: Integer
	  - name: owner
	    type: PublicKey

NeuronRegistered notification. This notification is produced when a neuron is
added to a subnet by invoking RegisterNeuron method.

	NeuronRegistered
	  - name: netuid
	    type: Integer
	  - name: uid
	    type: Integer
	  - name: hotkey
	    type: PublicKey
*/
package metagraph
