package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/metachain-dev/metagraph-contract/export"
)

// Well-known networks and their RPC endpoints.
var networks = map[string]string{
	"finney": "https://rpc.finney.metachain.dev:10332",
	"test":   "https://rpc.test.metachain.dev:20332",
	"local":  "http://localhost:10332",
}

var outputFile = filepath.Join("output", "miners.csv")

func main() {
	if err := cliMain(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func cliMain() error {
	network := flag.String("network", "finney", "Network to connect to ('finney', 'test', 'local' or an RPC URL)")
	verbose := flag.Bool("verbose", false, "Log fetch progress")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		return errors.New("usage: get-miners [--network <name>] [--verbose] <netuid>")
	}

	netuid, err := strconv.Atoi(args[0])
	if err != nil || netuid < 0 {
		return fmt.Errorf("bad netuid %q: expecting a non-negative integer", args[0])
	}

	endpoint := *network
	if !strings.Contains(endpoint, "://") {
		var ok bool
		endpoint, ok = networks[*network]
		if !ok {
			return fmt.Errorf("unknown network %q", *network)
		}
	}

	l := zap.NewNop()
	if *verbose {
		l, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
	}

	b, err := newRemoteBlockchain(endpoint)
	if err != nil {
		return fmt.Errorf("fetch metagraph: %w", err)
	}
	defer b.close()

	miners, err := export.Fetch(export.Prm{
		Registry: b.reader,
		Session:  b.invoker,
		NetUID:   netuid,
		Logger:   l,
	})
	if err != nil {
		return fmt.Errorf("fetch metagraph: %w", err)
	}

	if len(miners) == 0 {
		fmt.Printf("No miners found for netuid %d on network %s.\n", netuid, *network)
		return nil
	}

	err = export.WriteCSV(outputFile, miners)
	if err != nil {
		return fmt.Errorf("write miner data: %w", err)
	}

	fmt.Printf("Successfully wrote miner data to %s\n", outputFile)
	return nil
}
