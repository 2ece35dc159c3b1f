package fixtures

import "time"

// Clock supplies "now" in Unix epoch milliseconds.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// FixedClock always returns the same instant.
type FixedClock int64

func (c FixedClock) NowMillis() int64 {
	return int64(c)
}
