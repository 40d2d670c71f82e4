package model

import (
	"context"
	"fmt"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type index struct {
	Keys   bson.D
	Unique bool
}

var collections = map[string][]index{
	StakingRecordCollection: nil,
	BalanceCollection:       nil,
	LedgerStatsCollection:   nil,
	LedgerEventCollection: {
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "event_type", Value: 1}}},
	},
}

// Setup creates the ledger collections and their indexes. It is idempotent.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOpts := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return err
	}

	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database := client.Database(cfg.DbName)

	for collection, idxs := range collections {
		createCollection(ctx, database, collection)
		for _, idx := range idxs {
			if err := createIndex(ctx, database, collection, idx); err != nil {
				return err
			}
		}
	}

	log.Info().Msg("Collections and Indexes created successfully.")
	return client.Disconnect(ctx)
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Debug().Msg(fmt.Sprintf("Collection maybe already exists: %s, skip the rest. info: %s", collectionName, err))
		return
	}

	log.Debug().Msg(fmt.Sprintf("Collection created successfully: %s", collectionName))
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	index := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create index on %s: %w", collectionName, err)
	}

	log.Debug().Msg(fmt.Sprintf("Index created successfully on collection: %s", collectionName))
	return nil
}
