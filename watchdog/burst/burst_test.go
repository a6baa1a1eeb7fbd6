package burst

import (
	"fmt"
	"testing"
	"time"

	"github.com/trendai/watchdog/models"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func postsAt(offsets ...time.Duration) []*models.Post {
	var out []*models.Post
	for i, off := range offsets {
		out = append(out, &models.Post{
			ID:        fmt.Sprintf("p%d", i),
			AccountID: fmt.Sprintf("a%d", i%3),
			Timestamp: base.Add(off),
		})
	}
	return out
}

func TestDetectTightCluster(t *testing.T) {
	assert := assert.New(t)

	// 12 posts spread over 200 seconds
	var offsets []time.Duration
	for i := 0; i < 12; i++ {
		offsets = append(offsets, time.Duration(i*200/11)*time.Second)
	}
	rep := NewDetector(0).Detect(postsAt(offsets...))

	assert.Equal(12, rep.TotalPosts)
	assert.Equal(1, rep.BurstCount)
	assert.True(rep.BurstDetected)
	assert.True(rep.Coordinated)
	assert.Equal(12, rep.Bursts[0].PostCount)
	assert.Equal(200.0, rep.Bursts[0].DurationSeconds)
	assert.Equal([]string{"a0", "a1", "a2"}, rep.Bursts[0].Accounts)
	assert.Equal(12, rep.PostsInBursts())
}

func TestDetectSpreadOut(t *testing.T) {
	assert := assert.New(t)

	var offsets []time.Duration
	for i := 0; i < 12; i++ {
		offsets = append(offsets, time.Duration(i)*time.Hour)
	}
	rep := NewDetector(DefaultWindow).Detect(postsAt(offsets...))

	assert.False(rep.BurstDetected)
	assert.Equal(0, rep.BurstCount)
	assert.Empty(rep.Bursts)
	assert.InDelta(1.0, rep.FrequencyPerHour, 0.1)
}

func TestDetectTrailingBurst(t *testing.T) {
	assert := assert.New(t)

	// isolated post, then a burst which runs to the end of input
	rep := NewDetector(DefaultWindow).Detect(postsAt(0, time.Hour, time.Hour+10*time.Second, time.Hour+20*time.Second))
	assert.Equal(1, rep.BurstCount)
	assert.Equal(3, rep.Bursts[0].PostCount)
	assert.Equal(20.0, rep.Bursts[0].DurationSeconds)
	assert.False(rep.Coordinated)
}

func TestDetectWindowBoundary(t *testing.T) {
	assert := assert.New(t)

	// a gap exactly equal to the window does not extend a burst
	rep := NewDetector(DefaultWindow).Detect(postsAt(0, 300*time.Second, 600*time.Second))
	assert.Equal(0, rep.BurstCount)

	rep = NewDetector(DefaultWindow).Detect(postsAt(0, 299*time.Second, 598*time.Second))
	assert.Equal(1, rep.BurstCount)
	assert.Equal(3, rep.Bursts[0].PostCount)
}

func TestDetectMultipleBursts(t *testing.T) {
	assert := assert.New(t)

	rep := NewDetector(DefaultWindow).Detect(postsAt(
		0, 30*time.Second,
		2*time.Hour,
		4*time.Hour-2*time.Minute, 4*time.Hour-time.Minute, 4*time.Hour,
	))
	assert.Equal(2, rep.BurstCount)
	assert.Equal(2, rep.Bursts[0].PostCount)
	assert.Equal(3, rep.Bursts[1].PostCount)
	assert.Equal(1.5, rep.FrequencyPerHour)
}

func TestDetectUnsortedInput(t *testing.T) {
	assert := assert.New(t)

	posts := postsAt(3*time.Hour, 0, 10*time.Second, 3*time.Hour+5*time.Second)
	rep := NewDetector(DefaultWindow).Detect(posts)
	assert.Equal(2, rep.BurstCount)
	assert.Equal(base, rep.SpanStart)
	// input order untouched
	assert.Equal("p0", posts[0].ID)
	assert.Equal(base.Add(3*time.Hour), posts[0].Timestamp)
}

func TestDetectDegenerate(t *testing.T) {
	assert := assert.New(t)

	d := NewDetector(DefaultWindow)

	rep := d.Detect(nil)
	assert.Equal(0, rep.TotalPosts)
	assert.Equal(0.0, rep.FrequencyPerHour)
	assert.False(rep.BurstDetected)

	rep = d.Detect(postsAt(0))
	assert.Equal(1.0, rep.FrequencyPerHour)
	assert.Equal(0, rep.BurstCount)

	// all at the same instant: zero span, frequency is the raw count
	rep = d.Detect(postsAt(0, 0, 0))
	assert.Equal(3.0, rep.FrequencyPerHour)
	assert.Equal(1, rep.BurstCount)
	assert.Equal(0.0, rep.Bursts[0].DurationSeconds)

	rep = d.Detect([]*models.Post{{ID: "x"}, nil, {ID: "y", Timestamp: base}})
	assert.Equal(2, rep.Skipped)
	assert.Equal(1, rep.TotalPosts)
}
