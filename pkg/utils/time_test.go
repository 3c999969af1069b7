package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamps(t *testing.T) {
	at := time.Date(2024, 3, 9, 8, 30, 0, 123000000, time.FixedZone("CET", 3600))

	formatted := FormatTimestamp(at)
	assert.Equal(t, "2024-03-09T07:30:00.123Z", formatted)
	assert.True(t, at.Equal(ParseTimestamp(formatted)))

	assert.True(t, ParseTimestamp("").IsZero())
	assert.True(t, ParseTimestamp("yesterday").IsZero())
	assert.NotEmpty(t, NowTimestamp())
}
