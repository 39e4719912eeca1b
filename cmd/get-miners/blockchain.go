package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"

	"github.com/metachain-dev/metagraph-contract/rpc/metagraph"
)

// wrapper over the RPC client providing metagraph services needed for
// current command.
type remoteBlockchain struct {
	rpc     *rpcclient.Client
	invoker *invoker.Invoker
	reader  *metagraph.ContractReader
}

// newRemoteBlockchain dials the RPC server and locates the metagraph
// contract on it. Connection and all requests are done within 15s timeout.
func newRemoteBlockchain(endpoint string) (*remoteBlockchain, error) {
	c, err := rpcclient.New(context.Background(), endpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	h, err := metagraph.InferHash(c)
	if err != nil {
		return nil, fmt.Errorf("locate metagraph contract: %w", err)
	}

	inv := invoker.New(c, nil)

	return &remoteBlockchain{
		rpc:     c,
		invoker: inv,
		reader:  metagraph.NewReader(inv, h),
	}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}
