package requesters

import (
	"fmt"
	"strings"

	gsrpctypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/vedhavyas/go-subkey/v2"
)

// DecodeAddress accepts an SS58 address of any network or a 0x prefixed account id
func DecodeAddress(address string) (*gsrpctypes.AccountID, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("empty address")
	}

	var (
		raw []byte
		err error
	)
	if strings.HasPrefix(address, "0x") {
		raw, err = codec.HexDecodeString(address)
	} else {
		_, raw, err = subkey.SS58Decode(address)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", address, err)
	}

	accountID, err := gsrpctypes.NewAccountID(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", address, err)
	}

	return accountID, nil
}

func EncodeAddress(accountID gsrpctypes.AccountID, ss58Prefix int) string {
	return subkey.SS58Encode(accountID.ToBytes(), uint16(ss58Prefix))
}

// NormalizeAddress re-encodes the address with the given network prefix,
// so addresses from different sources compare equal
func NormalizeAddress(address string, ss58Prefix int) (string, error) {
	accountID, err := DecodeAddress(address)
	if err != nil {
		return "", err
	}

	return EncodeAddress(*accountID, ss58Prefix), nil
}
