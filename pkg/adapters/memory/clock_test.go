package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewClock(start)

	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	c.Sleep(context.Background(), time.Minute)
	assert.Equal(t, start.Add(150*time.Second), c.Now(), "sleep advances without waiting")

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	c.Sleep(canceled, time.Hour)
	assert.Equal(t, start.Add(150*time.Second), c.Now(), "canceled sleep does not advance")
}
