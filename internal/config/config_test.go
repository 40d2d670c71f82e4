package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Db: DbConfig{
			Username: "test",
			Password: "test",
			Address:  "mongodb://localhost:27017",
			DbName:   "test",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8090,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Ledger: LedgerConfig{
			CustodianIdentity: "custodian",
		},
		Poller: PollerConfig{
			StatsPollingInterval: 10 * time.Second,
		},
		Queue: &QueueConfig{
			QueueUser:     "test",
			QueuePassword: "test",
			Url:           "localhost:5672",
			Exchange:      "",
			QueueName:     "ledger_events",
		},
		Metrics: MetricsConfig{
			Host: "0.0.0.0",
			Port: 2112,
		},
	}
}

func TestConfig_OptionalQueue(t *testing.T) {
	cfg := validConfig()
	err := cfg.Validate()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Queue)
	assert.Equal(t, defaultPublishTimeout, cfg.Queue.PublishTimeout)

	cfg.Queue = nil
	err = cfg.Validate()
	require.NoError(t, err)
	assert.Nil(t, cfg.Queue)
}

func TestLedgerConfig_Validate(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &LedgerConfig{CustodianIdentity: "custodian"}
		require.NoError(t, cfg.Validate())

		rate := cfg.RewardRate()
		assert.Equal(t, uint64(5), rate.Numerator)
		assert.Equal(t, uint64(100), rate.Denominator)
		assert.Equal(t, uint64(31536000), rate.SecondsPerYear)
		require.NotNil(t, cfg.MaxConflictRetries)
		assert.Equal(t, uint(defaultMaxConflictRetries), cfg.ConflictRetries())
		assert.Equal(t, defaultConflictRetryInterval, cfg.ConflictRetryInterval)
	})
	t.Run("zero retries are kept", func(t *testing.T) {
		retries := uint(0)
		cfg := &LedgerConfig{CustodianIdentity: "custodian", MaxConflictRetries: &retries}
		require.NoError(t, cfg.Validate())
		assert.Zero(t, cfg.ConflictRetries())
	})
	t.Run("numerator without denominator", func(t *testing.T) {
		cfg := &LedgerConfig{CustodianIdentity: "custodian", RewardRateNumerator: 7}
		require.Error(t, cfg.Validate())
	})
	t.Run("missing custodian", func(t *testing.T) {
		cfg := &LedgerConfig{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "custodian-identity")
	})
}

func TestDbConfig_Validate(t *testing.T) {
	cfg := &DbConfig{Driver: DbDriverSqlite}
	require.Error(t, cfg.Validate())

	cfg.SqlitePath = ":memory:"
	require.NoError(t, cfg.Validate())

	cfg = &DbConfig{Driver: "postgres"}
	require.Error(t, cfg.Validate())

	cfg = &DbConfig{Username: "u", Password: "p", Address: "mongodb://localhost:27017"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db name")
}

func TestNew(t *testing.T) {
	const content = `
db:
  driver: sqlite
  sqlite-path: /tmp/ledger.db
server:
  host: 127.0.0.1
  port: 8090
  read-timeout: 5s
  write-timeout: 5s
  idle-timeout: 30s
ledger:
  custodian-identity: custodian
  reward-rate-numerator: 8
  reward-rate-denominator: 100
poller:
  stats-polling-interval: 1m
metrics:
  host: 0.0.0.0
  port: 2112
`
	path := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	t.Setenv("STAKING_LEDGER_LEDGER_CUSTODIAN_IDENTITY", "vault")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, DbDriverSqlite, cfg.Db.Driver)
	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Addr())
	assert.Equal(t, "vault", cfg.Ledger.CustodianIdentity)
	assert.Equal(t, uint64(8), cfg.Ledger.RewardRate().Numerator)
	assert.Equal(t, time.Minute, cfg.Poller.StatsPollingInterval)
	assert.Nil(t, cfg.Queue)

	_, err = New(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestNew_EnvOnlyKeys(t *testing.T) {
	const content = `
db:
  driver: sqlite
  sqlite-path: /tmp/ledger.db
server:
  host: 127.0.0.1
  port: 8090
  read-timeout: 5s
  write-timeout: 5s
  idle-timeout: 30s
ledger:
  custodian-identity: custodian
metrics:
  host: 0.0.0.0
  port: 2112
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("STAKING_LEDGER_LEDGER_MAX_CONFLICT_RETRIES", "0")
	t.Setenv("STAKING_LEDGER_LEDGER_SECONDS_PER_YEAR", "86400")
	t.Setenv("STAKING_LEDGER_POLLER_STATS_POLLING_INTERVAL", "2m")
	t.Setenv("STAKING_LEDGER_QUEUE_QUEUE_USER", "user")
	t.Setenv("STAKING_LEDGER_QUEUE_QUEUE_PASSWORD", "password")
	t.Setenv("STAKING_LEDGER_QUEUE_URL", "localhost:5672")
	t.Setenv("STAKING_LEDGER_QUEUE_QUEUE_NAME", "ledger_events")

	cfg, err := New(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Ledger.MaxConflictRetries)
	assert.Zero(t, cfg.Ledger.ConflictRetries())
	assert.Equal(t, uint64(86400), cfg.Ledger.SecondsPerYear)
	assert.Equal(t, 2*time.Minute, cfg.Poller.StatsPollingInterval)
	require.NotNil(t, cfg.Queue)
	assert.Equal(t, "user", cfg.Queue.QueueUser)
	assert.Equal(t, "ledger_events", cfg.Queue.QueueName)
	assert.Equal(t, defaultPublishTimeout, cfg.Queue.PublishTimeout)
}
