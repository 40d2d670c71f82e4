package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/babylonlabs-io/staking-ledger/internal/db"
	"github.com/babylonlabs-io/staking-ledger/internal/db/model"
	"github.com/babylonlabs-io/staking-ledger/internal/types"
)

func (s *Store) SaveLedgerEvent(ctx context.Context, event *model.LedgerEventDocument) error {
	if event == nil {
		return errors.New("nil ledger event")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_events (
			id, event_type, owner, caller, amount, accrued, payout, forfeited,
			staked_amount, reward_amount, compound_streak, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.EventType), event.Owner, event.Caller,
		event.Amount, event.Accrued, event.Payout, event.Forfeited,
		event.StakedAmount, event.RewardAmount, event.CompoundStreak, event.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &db.DuplicateKeyError{
				Key:     event.ID,
				Message: "ledger event already exists",
			}
		}
		return fmt.Errorf("failed to insert ledger event: %w", err)
	}
	return nil
}

// FindLedgerEventsByOwner returns events newest first. Insertion order breaks
// timestamp ties.
func (s *Store) FindLedgerEventsByOwner(
	ctx context.Context, owner string, limit int64,
) ([]*model.LedgerEventDocument, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, owner, caller, amount, accrued, payout, forfeited,
			staked_amount, reward_amount, compound_streak, timestamp
		FROM ledger_events
		WHERE owner = ?
		ORDER BY timestamp DESC, seq DESC
		LIMIT ?`, owner, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.LedgerEventDocument
	for rows.Next() {
		var (
			e         model.LedgerEventDocument
			eventType string
		)
		if err := rows.Scan(
			&e.ID, &eventType, &e.Owner, &e.Caller, &e.Amount, &e.Accrued,
			&e.Payout, &e.Forfeited, &e.StakedAmount, &e.RewardAmount,
			&e.CompoundStreak, &e.Timestamp,
		); err != nil {
			return nil, err
		}
		e.EventType = types.EventType(eventType)
		events = append(events, &e)
	}
	return events, rows.Err()
}
