package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, NewLimiter(0))
	assert.Nil(t, NewLimiter(-5))

	l := NewLimiter(50)
	if assert.NotNil(t, l) {
		assert.Equal(t, rate.Every(20*time.Millisecond), l.Limit())
		assert.Equal(t, 1, l.Burst())
	}
}

func TestLimiterSpacesFrames(t *testing.T) {
	l := NewLimiter(60)
	start := time.Now()
	assert.True(t, l.AllowN(start, 1))
	assert.False(t, l.AllowN(start.Add(time.Millisecond), 1), "second frame inside the interval")
	assert.True(t, l.AllowN(start.Add(17*time.Millisecond), 1))
}

func TestClockTick(t *testing.T) {
	c := &fakeClock{t: time.Unix(100, 0)}
	clock := NewClock(c.now)

	c.advance(16 * time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, clock.Tick())

	c.advance(-time.Second)
	assert.Zero(t, clock.Tick(), "backwards clock yields zero")

	c.advance(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, clock.Tick())
}

func TestClockReset(t *testing.T) {
	c := &fakeClock{t: time.Unix(100, 0)}
	clock := NewClock(c.now)

	c.advance(10 * time.Second)
	clock.Reset()
	c.advance(16 * time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, clock.Tick())
}

func TestFrameStats(t *testing.T) {
	var s FrameStats
	start := time.Unix(0, 0)

	for i := 1; i <= 4; i++ {
		_, ok := s.Add(start.Add(time.Duration(i)*250*time.Millisecond), 250*time.Millisecond)
		assert.False(t, ok, "frame %d", i)
	}
	avg, ok := s.Add(start.Add(1250*time.Millisecond), 250*time.Millisecond)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, avg)
	assert.Equal(t, uint64(5), s.Frames)

	_, ok = s.Add(start.Add(1500*time.Millisecond), 250*time.Millisecond)
	assert.False(t, ok, "a new window opened")
}
