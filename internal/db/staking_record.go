package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (db *Database) SaveNewStakingRecord(
	ctx context.Context, doc *model.StakingRecordDocument,
) error {
	if doc == nil {
		return errors.New("nil staking record")
	}
	if err := doc.CheckStorable(); err != nil {
		return err
	}

	now := time.Now().Unix()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := db.collection(model.StakingRecordCollection).InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     doc.Owner,
						Message: "staking record already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) GetStakingRecord(
	ctx context.Context, owner string,
) (*model.StakingRecordDocument, error) {
	filter := bson.M{"_id": owner}

	var doc model.StakingRecordDocument
	err := db.collection(model.StakingRecordCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     owner,
				Message: "staking record not found",
			}
		}
		return nil, err
	}

	return &doc, nil
}

func (db *Database) UpdateStakingRecord(
	ctx context.Context, doc *model.StakingRecordDocument,
) error {
	if err := doc.CheckStorable(); err != nil {
		return err
	}

	updatedAt := time.Now().Unix()
	filter := bson.M{
		"_id":     doc.Owner,
		"version": doc.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"staked_amount":     doc.StakedAmount,
			"reward_amount":     doc.RewardAmount,
			"last_accrual_time": doc.LastAccrualTime,
			"compound_streak":   doc.CompoundStreak,
			"updated_at":        updatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := db.collection(model.StakingRecordCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update staking record: %w", err)
	}

	if res.MatchedCount == 0 {
		// distinguish a missing record from a stale version
		if _, err := db.GetStakingRecord(ctx, doc.Owner); err != nil {
			return err
		}
		return &ConflictError{
			Key:     doc.Owner,
			Message: fmt.Sprintf("staking record version %d is stale", doc.Version),
		}
	}

	doc.Version++
	doc.UpdatedAt = updatedAt
	return nil
}
