package requesters

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/infrastructure"
	"github.com/CudoVentures/cennznet-stake-tracker/internal/app/stake-tracker/types"
	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	gsrpctypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// storage layouts of the CENNZnet staking and rewards modules.
// Only the leading fields are declared, trailing ones are left undecoded.
type stakingLedger struct {
	Stash  gsrpctypes.AccountID
	Total  gsrpctypes.UCompact
	Active gsrpctypes.UCompact
}

type nominations struct {
	Targets []gsrpctypes.AccountID
}

type individualExposure struct {
	Who   gsrpctypes.AccountID
	Value gsrpctypes.UCompact
}

type exposure struct {
	Total  gsrpctypes.UCompact
	Own    gsrpctypes.UCompact
	Others []individualExposure
}

func NewChainRequester(config *infrastructure.Config, api *gsrpc.SubstrateAPI) (*ChainRequester, error) {
	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain metadata: %w", err)
	}

	return &ChainRequester{config: config, api: api, meta: meta}, nil
}

type ChainRequester struct {
	config *infrastructure.Config
	api    *gsrpc.SubstrateAPI
	meta   *gsrpctypes.Metadata
}

func (r *ChainRequester) Close() {
	infrastructure.CloseSubstrateAPI(r.api)
}

func (r *ChainRequester) GetBonded(ctx context.Context, stashAddress string) (string, bool, error) {
	var controller gsrpctypes.AccountID
	ok, err := r.readStorage(ctx, "Staking", "Bonded", stashAddress, &controller)
	if err != nil || !ok {
		return "", false, err
	}

	return EncodeAddress(controller, r.config.SS58Prefix), true, nil
}

func (r *ChainRequester) GetLedger(ctx context.Context, controllerAddress string) (types.StakingLedger, bool, error) {
	var ledger stakingLedger
	ok, err := r.readStorage(ctx, "Staking", "Ledger", controllerAddress, &ledger)
	if err != nil || !ok {
		return types.StakingLedger{}, false, err
	}

	return types.StakingLedger{
		Stash: EncodeAddress(ledger.Stash, r.config.SS58Prefix),
		Total: compactToDecimal(ledger.Total),
	}, true, nil
}

func (r *ChainRequester) GetNominators(ctx context.Context, stashAddress string) (types.Nominations, bool, error) {
	var noms nominations
	ok, err := r.readStorage(ctx, "Staking", "Nominators", stashAddress, &noms)
	if err != nil || !ok {
		return types.Nominations{}, false, err
	}

	targets := make([]string, 0, len(noms.Targets))
	for _, target := range noms.Targets {
		targets = append(targets, EncodeAddress(target, r.config.SS58Prefix))
	}

	return types.Nominations{Targets: targets}, true, nil
}

// GetExposure returns an empty exposure for validators that are not elected
func (r *ChainRequester) GetExposure(ctx context.Context, validatorAddress string) (types.Exposure, error) {
	var exp exposure
	ok, err := r.readStorage(ctx, "Staking", "Stakers", validatorAddress, &exp)
	if err != nil {
		return types.Exposure{}, err
	}
	if !ok {
		return types.Exposure{Total: decimal.Zero, Own: decimal.Zero}, nil
	}

	others := make([]types.IndividualExposure, 0, len(exp.Others))
	for _, other := range exp.Others {
		others = append(others, types.IndividualExposure{
			Who:   EncodeAddress(other.Who, r.config.SS58Prefix),
			Value: compactToDecimal(other.Value),
		})
	}

	return types.Exposure{
		Total:  compactToDecimal(exp.Total),
		Own:    compactToDecimal(exp.Own),
		Others: others,
	}, nil
}

// GetPayee falls back to the stash itself when no payee is set
func (r *ChainRequester) GetPayee(ctx context.Context, stashAddress string) (string, error) {
	var payee gsrpctypes.AccountID
	ok, err := r.readStorage(ctx, "Rewards", "Payee", stashAddress, &payee)
	if err != nil {
		return "", err
	}
	if !ok || payee == (gsrpctypes.AccountID{}) {
		return stashAddress, nil
	}

	return EncodeAddress(payee, r.config.SS58Prefix), nil
}

func (r *ChainRequester) GetAccruedPayout(ctx context.Context, stashAddress string) (decimal.Decimal, error) {
	if _, err := DecodeAddress(stashAddress); err != nil {
		return decimal.Zero, err
	}

	var raw json.RawMessage
	err := withRetry(ctx, r.config.ChainQueryRetryAttempts, r.config.ChainQueryRetryDelay, "staking_accruedPayout", func() error {
		return r.api.Client.Call(&raw, "staking_accruedPayout", stashAddress)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get accrued payout for %s: %w", stashAddress, err)
	}

	return parseBalance(raw)
}

func (r *ChainRequester) GetGenesisHash(ctx context.Context) (string, error) {
	var hash gsrpctypes.Hash
	err := withRetry(ctx, r.config.ChainQueryRetryAttempts, r.config.ChainQueryRetryDelay, "chain_getBlockHash", func() error {
		var err error
		hash, err = r.api.RPC.Chain.GetBlockHash(0)
		return err
	})
	if err != nil {
		return "", err
	}

	return hash.Hex(), nil
}

func (r *ChainRequester) readStorage(ctx context.Context, module, method, address string, target interface{}) (bool, error) {
	accountID, err := DecodeAddress(address)
	if err != nil {
		return false, err
	}

	key, err := gsrpctypes.CreateStorageKey(r.meta, module, method, accountID.ToBytes())
	if err != nil {
		return false, fmt.Errorf("failed to create storage key %s.%s: %w", module, method, err)
	}

	var ok bool
	err = withRetry(ctx, r.config.ChainQueryRetryAttempts, r.config.ChainQueryRetryDelay, module+"."+method, func() error {
		var err error
		ok, err = r.api.RPC.State.GetStorageLatest(key, target)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to query %s.%s for %s: %w", module, method, address, err)
	}

	log.Trace().Msgf("%s.%s for %s found: %t", module, method, address, ok)

	return ok, nil
}

func compactToDecimal(value gsrpctypes.UCompact) decimal.Decimal {
	amount := big.Int(value)
	return decimal.NewFromBigInt(&amount, 0)
}

// parseBalance accepts balances encoded as JSON numbers, decimal strings or hex strings
func parseBalance(raw json.RawMessage) (decimal.Decimal, error) {
	value := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if value == "" || value == "null" {
		return decimal.Zero, nil
	}

	if strings.HasPrefix(value, "0x") {
		amount, ok := new(big.Int).SetString(value[2:], 16)
		if !ok {
			return decimal.Zero, fmt.Errorf("invalid hex balance: %s", value)
		}
		return decimal.NewFromBigInt(amount, 0), nil
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %s: %w", value, err)
	}

	return amount, nil
}
