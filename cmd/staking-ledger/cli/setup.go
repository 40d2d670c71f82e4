package cli

import (
	"context"
	"fmt"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/babylonlabs-io/staking-ledger/internal/db"
	dbmodel "github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/db/sqlite"
	"github.com/babylonlabs-io/staking-ledger/internal/queue"
	"github.com/babylonlabs-io/staking-ledger/internal/services"
)

// openDatabase connects to the configured storage backend. The returned
// close func releases it.
func openDatabase(ctx context.Context, cfg *config.DbConfig) (db.DbInterface, func(), error) {
	switch cfg.Driver {
	case config.DbDriverSqlite:
		store, err := sqlite.Open(cfg.SqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("error while opening sqlite store: %w", err)
		}
		return store, func() { store.Close() }, nil
	default:
		if err := dbmodel.Setup(ctx, cfg); err != nil {
			return nil, nil, fmt.Errorf("error while setting up staking db model: %w", err)
		}
		client, err := db.New(ctx, *cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("error while creating db client: %w", err)
		}
		return client, func() { client.Close(context.Background()) }, nil
	}
}

// newService wires the service used by every command. The returned close
// func releases the database and the queue connection.
func newService(ctx context.Context, cfg *config.Config) (*services.Service, func(), error) {
	dbClient, closeDb, err := openDatabase(ctx, &cfg.Db)
	if err != nil {
		return nil, nil, err
	}

	publisher, err := queue.NewEventPublisher(cfg.Queue)
	if err != nil {
		closeDb()
		return nil, nil, fmt.Errorf("error while creating queue publisher: %w", err)
	}

	service, err := services.NewService(cfg, db.NewDbWithMetrics(dbClient), publisher, nil)
	if err != nil {
		publisher.Shutdown()
		closeDb()
		return nil, nil, fmt.Errorf("error while creating service: %w", err)
	}

	return service, func() {
		publisher.Shutdown()
		closeDb()
	}, nil
}
