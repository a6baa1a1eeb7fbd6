package helpers

import (
	"time"
)

// no social accounts we care about exist before this time
var accountEpoch = time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC)

// returns true if account creation timestamp is plausible: not-nil, not in distant past, not in the future
func PlausibleAccountCreation(when *time.Time, now time.Time) bool {
	if when == nil {
		return false
	}
	// this is mostly to check for misconfigurations or null values (eg, UNIX epoch zero means "unknown" not actually 1970)
	if !when.After(accountEpoch) {
		return false
	}
	// a timestamp in the future would also indicate some misconfiguration
	if when.After(now.Add(time.Hour)) {
		return false
	}
	return true
}

// Whole days between account creation and now. Returns false if the creation timestamp is missing or bogus.
func AccountAgeDays(created *time.Time, now time.Time) (int, bool) {
	if !PlausibleAccountCreation(created, now) {
		return 0, false
	}
	d := now.Sub(*created)
	if d < 0 {
		return 0, true
	}
	return int(d.Hours() / 24), true
}

// Ratio of followers to followed accounts. Accounts following nobody get their raw follower count.
func FollowRatio(followers, following int) float64 {
	if following <= 0 {
		return float64(followers)
	}
	return float64(followers) / float64(following)
}
