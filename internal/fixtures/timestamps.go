package fixtures

// TimestampStep is the distance between two consecutive generated timestamps.
const TimestampStep int64 = 500

// TimestampGenerator hands out strictly increasing timestamps so that
// messages created in a tight loop never share a timestamp.
// It is not safe for concurrent use.
type TimestampGenerator struct {
	current int64
}

// NewTimestampGenerator returns a generator whose first value is start+TimestampStep.
func NewTimestampGenerator(start int64) *TimestampGenerator {
	return &TimestampGenerator{current: start}
}

// NewTimestampGeneratorFromClock seeds a generator with the clock's current time.
func NewTimestampGeneratorFromClock(clock Clock) *TimestampGenerator {
	if clock == nil {
		clock = SystemClock{}
	}
	return NewTimestampGenerator(clock.NowMillis())
}

// Next advances the generator by one step and returns the new value.
func (g *TimestampGenerator) Next() int64 {
	g.current += TimestampStep
	return g.current
}
