package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestampGenerator(t *testing.T) {
	t.Run("advances by a fixed step from the start", func(t *testing.T) {
		generator := NewTimestampGenerator(1_000)

		assert.Equal(t, int64(1_500), generator.Next())
		assert.Equal(t, int64(2_000), generator.Next())
		assert.Equal(t, int64(2_500), generator.Next())
	})

	t.Run("is strictly increasing over many calls", func(t *testing.T) {
		generator := NewTimestampGenerator(0)

		previous := int64(0)
		for i := 0; i < 1_000; i++ {
			next := generator.Next()
			assert.Equal(t, TimestampStep, next-previous)
			previous = next
		}
	})

	t.Run("seeds from the clock", func(t *testing.T) {
		generator := NewTimestampGeneratorFromClock(FixedClock(42_000))

		assert.Equal(t, int64(42_500), generator.Next())
	})

	t.Run("nil clock falls back to the system clock", func(t *testing.T) {
		generator := NewTimestampGeneratorFromClock(nil)

		assert.Greater(t, generator.Next(), int64(0))
	})
}
