package burst

import (
	"sort"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
)

const DefaultWindow = 300 * time.Second

// A burst holding more than this many posts indicates coordinated timing
const CoordinatedMinPosts = 10

type Burst struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationSeconds float64   `json:"duration_seconds"`
	PostCount       int       `json:"post_count"`
	Accounts        []string  `json:"accounts"`
}

type Report struct {
	TotalPosts       int       `json:"total_posts"`
	Skipped          int       `json:"skipped,omitempty"`
	BurstCount       int       `json:"burst_count"`
	BurstDetected    bool      `json:"burst_detected"`
	Bursts           []Burst   `json:"bursts"`
	FrequencyPerHour float64   `json:"frequency_per_hour"`
	Coordinated      bool      `json:"coordinated"`
	SpanStart        time.Time `json:"span_start,omitzero"`
	SpanEnd          time.Time `json:"span_end,omitzero"`
}

// Finds runs of temporally adjacent posts. Holds only configuration, so one instance can serve concurrent callers.
type Detector struct {
	// consecutive posts closer together than this join the same burst
	Window time.Duration
}

func NewDetector(window time.Duration) *Detector {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{Window: window}
}

type timedPost struct {
	ts      time.Time
	account string
}

// Scans one token's (or one narrative's) posts. The input slice is not reordered.
//
// Posts without a timestamp are skipped and counted. A burst closes when a gap reaches the window, or at the end of input, and is only recorded if it holds more than one post.
func (d *Detector) Detect(posts []*models.Post) Report {
	seq := make([]timedPost, 0, len(posts))
	skipped := 0
	for _, p := range posts {
		if p == nil || p.Timestamp.IsZero() {
			skipped++
			continue
		}
		seq = append(seq, timedPost{ts: p.Timestamp, account: p.AccountID})
	}
	sort.SliceStable(seq, func(i, j int) bool {
		return seq[i].ts.Before(seq[j].ts)
	})

	rep := Report{
		TotalPosts: len(seq),
		Skipped:    skipped,
		Bursts:     []Burst{},
	}
	if len(seq) == 0 {
		return rep
	}
	rep.SpanStart = seq[0].ts
	rep.SpanEnd = seq[len(seq)-1].ts

	start := 0
	for i := 1; i <= len(seq); i++ {
		if i < len(seq) && seq[i].ts.Sub(seq[i-1].ts) < d.Window {
			continue
		}
		// run [start, i) is closed
		if i-start > 1 {
			rep.Bursts = append(rep.Bursts, newBurst(seq[start:i]))
		}
		start = i
	}

	rep.BurstCount = len(rep.Bursts)
	rep.BurstDetected = rep.BurstCount > 0
	for _, b := range rep.Bursts {
		if b.PostCount > CoordinatedMinPosts {
			rep.Coordinated = true
			break
		}
	}

	span := rep.SpanEnd.Sub(rep.SpanStart).Hours()
	if len(seq) == 1 || span <= 0 {
		rep.FrequencyPerHour = float64(len(seq))
	} else {
		rep.FrequencyPerHour = helpers.Round(float64(len(seq))/span, 2)
	}
	return rep
}

func newBurst(run []timedPost) Burst {
	var accounts []string
	for _, tp := range run {
		accounts = append(accounts, tp.account)
	}
	accounts = helpers.DedupeStrings(accounts)
	sort.Strings(accounts)
	first, last := run[0].ts, run[len(run)-1].ts
	return Burst{
		Start:           first,
		End:             last,
		DurationSeconds: last.Sub(first).Seconds(),
		PostCount:       len(run),
		Accounts:        accounts,
	}
}

// Posts falling inside any recorded burst
func (r *Report) PostsInBursts() int {
	n := 0
	for _, b := range r.Bursts {
		n += b.PostCount
	}
	return n
}
