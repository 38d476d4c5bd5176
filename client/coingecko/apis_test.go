package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTokenPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "centrality", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"centrality":{"usd":0.01234}}`))
	}))
	defer server.Close()

	price, err := GetTokenPrice(context.Background(), server.URL, "centrality", "usd")
	require.NoError(t, err)
	require.Equal(t, "0.01234", price.String())
}

func TestGetTokenPriceShouldFailForUnknownToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := GetTokenPrice(context.Background(), server.URL, "centrality", "usd")
	require.ErrorContains(t, err, "no usd price for token centrality")
}

func TestGetTokenPriceShouldFailOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := GetTokenPrice(context.Background(), server.URL, "centrality", "usd")
	require.ErrorContains(t, err, "StatusCode: 429")
}
