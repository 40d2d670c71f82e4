package model

const BalanceCollection = "balances"

// BalanceDocument holds the backing value owned by an identity, stakers and
// the custodian alike.
type BalanceDocument struct {
	Identity string `bson:"_id"`
	Balance  int64  `bson:"balance"`
}
