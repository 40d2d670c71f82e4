package ledger

import "time"

// Clock supplies the current time in unix seconds.
type Clock interface {
	Now() int64
}

type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// FixedClock always reports the same instant. Useful for replays and tests.
type FixedClock int64

func (c FixedClock) Now() int64 {
	return int64(c)
}
