package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	config := NewConfig()

	require.Equal(t, "sqlite3", config.DbDriverName)
	require.Equal(t, 42, config.SS58Prefix)
	require.Equal(t, time.Minute, config.WorkerProcessInterval)
	require.Equal(t, 3, config.ChainQueryRetryAttempts)
	require.Equal(t, "stakes", config.StakeCacheKeyBase)
	require.Empty(t, config.WatchAddresses)
	require.NoError(t, config.Validate())
}

func TestNewConfigReadsEnvironment(t *testing.T) {
	t.Setenv("WATCH_ADDRESSES", " 5stash , 5controller,, ")
	t.Setenv("SS58_PREFIX", "7")
	t.Setenv("WORKER_PROCESS_INTERVAL", "30s")
	t.Setenv("CHAIN_QUERY_RETRY_ATTEMPTS", "not-a-number")
	t.Setenv("LOG_LEVEL", "DEBUG")

	config := NewConfig()

	require.Equal(t, []string{"5stash", "5controller"}, config.WatchAddresses)
	require.Equal(t, 7, config.SS58Prefix)
	require.Equal(t, 30*time.Second, config.WorkerProcessInterval)
	require.Equal(t, 3, config.ChainQueryRetryAttempts)
	require.Equal(t, "debug", config.LogLevel)
}

func TestConfigValidateRejectsInvalidValues(t *testing.T) {
	config := NewConfig()
	config.DbDriverName = "mysql"
	require.Error(t, config.Validate())

	config = NewConfig()
	config.ChainNodeUrl = ""
	require.Error(t, config.Validate())

	config = NewConfig()
	config.MailToAddress = "not-an-email"
	require.Error(t, config.Validate())

	config = NewConfig()
	config.ChainQueryRetryAttempts = 0
	require.Error(t, config.Validate())
}
