package db

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/ledger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *Database) GetBalance(ctx context.Context, identity string) (uint64, error) {
	var doc model.BalanceDocument
	err := db.collection(model.BalanceCollection).
		FindOne(ctx, bson.M{"_id": identity}).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(doc.Balance), nil
}

func (db *Database) CreditBalance(ctx context.Context, identity string, amount uint64) error {
	if err := model.CheckStorableAmount("amount", amount); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}

	// the upper bound keeps $inc from overflowing the stored int64, a full
	// balance does not match and the upsert then collides on _id
	filter := bson.M{
		"_id":     identity,
		"balance": bson.M{"$lte": math.MaxInt64 - int64(amount)},
	}
	update := bson.M{"$inc": bson.M{"balance": int64(amount)}}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.BalanceCollection).UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: balance of %s would exceed storable range", ledger.ErrOverflow, identity)
		}
		return fmt.Errorf("failed to credit %s: %w", identity, err)
	}
	return nil
}

// TransferFunds debits the source with a guarded $inc and then credits the
// destination. A failed credit is compensated by crediting the source back.
func (db *Database) TransferFunds(ctx context.Context, from, to string, amount uint64) error {
	if err := model.CheckStorableAmount("amount", amount); err != nil {
		return err
	}
	if amount == 0 || from == to {
		return nil
	}

	filter := bson.M{
		"_id":     from,
		"balance": bson.M{"$gte": int64(amount)},
	}
	update := bson.M{"$inc": bson.M{"balance": -int64(amount)}}

	res, err := db.collection(model.BalanceCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to debit %s: %w", from, err)
	}
	if res.MatchedCount == 0 {
		return &InsufficientBalanceError{
			Key:     from,
			Message: fmt.Sprintf("balance of %s is lower than %d", from, amount),
		}
	}

	if err := db.CreditBalance(ctx, to, amount); err != nil {
		if refundErr := db.CreditBalance(ctx, from, amount); refundErr != nil {
			return fmt.Errorf("failed to refund %s after failed credit (%v): %w", from, err, refundErr)
		}
		return err
	}

	return nil
}
