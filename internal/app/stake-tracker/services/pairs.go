package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	"golang.org/x/sync/errgroup"
)

/*
ResolvePairs returns every stash/controller pair the given addresses take part in.

 1. Every address is looked up twice, independently and concurrently with all other lookups:
    a. as a stash - if it has a bonded controller, (address, controller) is a pair.
    b. as a controller - if it has a ledger, (ledger stash, address) is a pair.
 2. Pairs are merged into a set keyed by the pair value,
    so a stash and its controller both present in the input yield one pair.
 3. Addresses with no bonding relation contribute nothing.

A failed lookup fails the whole resolution, no partial set is returned.
*/
func ResolvePairs(ctx context.Context, requester ChainRequester, addresses []string) (map[types.StakePair]struct{}, error) {
	pairs := make(map[types.StakePair]struct{})
	var mutex sync.Mutex
	addPair := func(pair types.StakePair) {
		mutex.Lock()
		defer mutex.Unlock()
		pairs[pair] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, address := range uniqueAddresses(addresses) {
		g.Go(func() error {
			controllerAddress, ok, err := requester.GetBonded(gctx, address)
			if err != nil {
				return fmt.Errorf("failed to get controller of %s: %w", address, err)
			}
			if ok {
				addPair(types.StakePair{StashAddress: address, ControllerAddress: controllerAddress})
			}
			return nil
		})

		g.Go(func() error {
			ledger, ok, err := requester.GetLedger(gctx, address)
			if err != nil {
				return fmt.Errorf("failed to get ledger of %s: %w", address, err)
			}
			if ok {
				addPair(types.StakePair{StashAddress: ledger.Stash, ControllerAddress: address})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pairs, nil
}

// SortedPairs orders pairs by stash, then controller
func SortedPairs(pairs map[types.StakePair]struct{}) []types.StakePair {
	sorted := make([]types.StakePair, 0, len(pairs))
	for pair := range pairs {
		sorted = append(sorted, pair)
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StashAddress != sorted[j].StashAddress {
			return sorted[i].StashAddress < sorted[j].StashAddress
		}
		return sorted[i].ControllerAddress < sorted[j].ControllerAddress
	})

	return sorted
}

func uniqueAddresses(addresses []string) []string {
	seen := make(map[string]bool, len(addresses))
	unique := make([]string, 0, len(addresses))
	for _, address := range addresses {
		if address == "" || seen[address] {
			continue
		}
		seen[address] = true
		unique = append(unique, address)
	}
	return unique
}
