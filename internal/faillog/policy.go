package faillog

import "time"

// Window is the sliding window the frequent-failure policy evaluates.
const Window = time.Hour

// Frequent reports whether a command has failed often enough to notify:
// at least maxFailures failures exist in total, and the maxFailures-th most
// recent one falls inside the last hour relative to now. The total-count
// requirement is intentional: the whole most-recent cluster must fit in the
// window, not merely any maxFailures-sized subset of history.
func Frequent(failures []time.Time, maxFailures int, now time.Time) bool {
	if maxFailures <= 0 {
		return false
	}
	if len(failures) < maxFailures {
		return false
	}
	oldest := failures[len(failures)-maxFailures]
	return oldest.After(now.Add(-Window))
}

// CountSince counts failures with a timestamp at or after t.
func CountSince(failures []time.Time, t time.Time) int {
	n := 0
	for _, f := range failures {
		if !f.Before(t) {
			n++
		}
	}
	return n
}

// StartOfLocalDay returns local midnight of the day containing ts.
func StartOfLocalDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
