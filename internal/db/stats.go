package db

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CalculateLedgerStats sums staked and reward amounts over all records on the
// server side instead of loading every record into memory. Amounts are summed
// as decimals, an int64 $sum would fall back to a lossy double.
func (db *Database) CalculateLedgerStats(ctx context.Context) (*model.LedgerStatsDocument, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "record_count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_staked", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$toDecimal", Value: "$staked_amount"}}}}},
			{Key: "total_reward", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$toDecimal", Value: "$reward_amount"}}}}},
		}}},
	}

	cursor, err := db.collection(model.StakingRecordCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		RecordCount int64                `bson:"record_count"`
		TotalStaked primitive.Decimal128 `bson:"total_staked"`
		TotalReward primitive.Decimal128 `bson:"total_reward"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	stats := &model.LedgerStatsDocument{
		ID:          model.LedgerStatsID,
		LastUpdated: time.Now().Unix(),
	}
	// no records, no group
	if len(results) == 0 {
		return stats, nil
	}

	totalStaked, err := decimalToInt(results[0].TotalStaked)
	if err != nil {
		return nil, fmt.Errorf("invalid total staked: %w", err)
	}
	totalReward, err := decimalToInt(results[0].TotalReward)
	if err != nil {
		return nil, fmt.Errorf("invalid total reward: %w", err)
	}

	stats.RecordCount = uint64(results[0].RecordCount)
	stats.TotalStaked = model.StorableTotal(totalStaked)
	stats.TotalReward = model.StorableTotal(totalReward)
	return stats, nil
}

func decimalToInt(d primitive.Decimal128) (sdkmath.Int, error) {
	significand, exp, err := d.BigInt()
	if err != nil {
		return sdkmath.Int{}, err
	}
	if exp < 0 {
		return sdkmath.Int{}, fmt.Errorf("%s is not an integer", d.String())
	}
	if exp > 0 {
		significand.Mul(significand, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil))
	}
	if significand.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, fmt.Errorf("%s exceeds %d bits", d.String(), sdkmath.MaxBitLen)
	}
	return sdkmath.NewIntFromBigInt(significand), nil
}

// UpsertLedgerStats updates or inserts the ledger stats document
func (db *Database) UpsertLedgerStats(ctx context.Context, stats *model.LedgerStatsDocument) error {
	filter := bson.M{"_id": model.LedgerStatsID}
	update := bson.M{
		"$set": bson.M{
			"record_count": stats.RecordCount,
			"total_staked": stats.TotalStaked,
			"total_reward": stats.TotalReward,
			"last_updated": stats.LastUpdated,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.LedgerStatsCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetLedgerStats(ctx context.Context) (*model.LedgerStatsDocument, error) {
	var stats model.LedgerStatsDocument
	err := db.collection(model.LedgerStatsCollection).
		FindOne(ctx, bson.M{"_id": model.LedgerStatsID}).
		Decode(&stats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.LedgerStatsID,
				Message: "ledger stats not calculated yet",
			}
		}
		return nil, err
	}
	return &stats, nil
}
