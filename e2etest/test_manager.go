//go:build e2e

package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/babylonlabs-io/staking-ledger/e2etest/container"
	"github.com/babylonlabs-io/staking-ledger/internal/api"
	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/queue"
	"github.com/babylonlabs-io/staking-ledger/internal/services"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

var (
	eventuallyWaitTimeOut = 40 * time.Second
	eventuallyPollTime    = 500 * time.Millisecond
)

type TestManager struct {
	Config     *config.Config
	DbClient   *db.Database
	Service    *services.Service
	Server     *httptest.Server
	Deliveries <-chan amqp.Delivery
	manager    *container.Manager
}

func DefaultStakingLedgerConfig() *config.Config {
	return &config.Config{
		Db: config.DbConfig{
			Driver:   config.DbDriverMongo,
			Username: container.MongoUsername,
			Password: container.MongoPassword,
			DbName:   "staking-ledger",
		},
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
		Ledger: config.LedgerConfig{
			CustodianIdentity: "custodian",
		},
		Queue: &config.QueueConfig{
			QueueUser:     container.RabbitMQUsername,
			QueuePassword: container.RabbitMQPassword,
			Exchange:      "staking-ledger",
			QueueName:     "ledger-events",
		},
		Metrics: config.MetricsConfig{
			Host: "127.0.0.1",
			Port: 2112,
		},
	}
}

// StartManager starts mongo and rabbitmq containers and serves the api over
// an httptest server backed by them.
func StartManager(t *testing.T) *TestManager {
	ctx := context.Background()

	manager, err := container.NewManager(t)
	require.NoError(t, err)

	cfg := DefaultStakingLedgerConfig()
	cfg.Db.Address = manager.RunMongo(t)
	cfg.Queue.Url = manager.RunRabbitMQ(t)
	require.NoError(t, cfg.Validate())

	var dbClient *db.Database
	err = manager.Retry(func() error {
		dbClient, err = db.New(ctx, cfg.Db)
		if err != nil {
			return err
		}
		return dbClient.Ping(ctx)
	})
	require.NoError(t, err)
	require.NoError(t, model.Setup(ctx, &cfg.Db))

	var publisher *queue.QueueManager
	err = manager.Retry(func() error {
		publisher, err = queue.NewQueueManager(cfg.Queue)
		return err
	})
	require.NoError(t, err)

	deliveries := consume(t, cfg.Queue)

	service, err := services.NewService(cfg, db.NewDbWithMetrics(dbClient), publisher, nil)
	require.NoError(t, err)

	server := httptest.NewServer(api.New(&cfg.Server, service).Handler())
	t.Cleanup(func() {
		server.Close()
		publisher.Shutdown()
		_ = dbClient.Close(context.Background())
	})

	return &TestManager{
		Config:     cfg,
		DbClient:   dbClient,
		Service:    service,
		Server:     server,
		Deliveries: deliveries,
		manager:    manager,
	}
}

func consume(t *testing.T, cfg *config.QueueConfig) <-chan amqp.Delivery {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s", cfg.QueueUser, cfg.QueuePassword, cfg.Url))
	require.NoError(t, err)
	ch, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() {
		ch.Close()
		conn.Close()
	})

	deliveries, err := ch.Consume(cfg.QueueName, "e2e", true, false, false, false, nil)
	require.NoError(t, err)
	return deliveries
}

// Do sends a request to the api acting as caller and decodes the data field
// of the response into out when it is not nil.
func (tm *TestManager) Do(t *testing.T, method, path, caller string, body any, out any) int {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, tm.Server.URL+path, &payload)
	require.NoError(t, err)
	if caller != "" {
		req.Header.Set(api.IdentityHeader, caller)
	}

	resp, err := tm.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		envelope := struct {
			Data any `json:"data"`
		}{Data: out}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	}
	return resp.StatusCode
}

// NextMessage waits for the next ledger event on the queue.
func (tm *TestManager) NextMessage(t *testing.T) queue.LedgerEventMessage {
	select {
	case delivery := <-tm.Deliveries:
		var msg queue.LedgerEventMessage
		require.NoError(t, json.Unmarshal(delivery.Body, &msg))
		return msg
	case <-time.After(eventuallyWaitTimeOut):
		t.Fatal("timed out waiting for a ledger event")
		return queue.LedgerEventMessage{}
	}
}
