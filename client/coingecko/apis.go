package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// GetTokenPrice queries the simple price api for the price of tokenID in currency
func GetTokenPrice(ctx context.Context, baseURL, tokenID, currency string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("ids", tokenID)
	query.Set("vs_currencies", currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/simple/price?%s", baseURL, query.Encode()), nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}

	defer resp.Body.Close()

	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error while reading response body: %s", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("error! Coingecko request failed with StatusCode: %d, Body: %s", resp.StatusCode, bz)
	}

	var prices map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(bz, &prices); err != nil {
		return decimal.Zero, fmt.Errorf("error while unmarshaling response body: %s", err)
	}

	price, ok := prices[tokenID][currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s price for token %s", currency, tokenID)
	}

	return price, nil
}
