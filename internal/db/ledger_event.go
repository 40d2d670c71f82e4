package db

import (
	"context"
	"errors"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	if event == nil {
		return errors.New("nil ledger event")
	}

	_, err := db.collection(model.LedgerEventCollection).InsertOne(ctx, event)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     event.ID,
						Message: "ledger event already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindLedgerEventsByOwner(
	ctx context.Context, owner string, limit int64,
) ([]*model.LedgerEventDocument, error) {
	filter := bson.M{"owner": owner}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := db.collection(model.LedgerEventCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*model.LedgerEventDocument
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}
