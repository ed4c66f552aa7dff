package schedule

import "time"

// Enumerate returns every minute in [start, end] at which the spec fires,
// in ascending order. Both bounds are truncated to minute resolution and
// are inclusive. The scan is a plain minute-by-minute walk; listing ranges
// are operator-supplied and bounded, so no calendar shortcut is needed.
func Enumerate(spec Spec, start, end time.Time) []time.Time {
	var out []time.Time
	from := start.Truncate(time.Minute)
	to := end.Truncate(time.Minute)
	for t := from; !t.After(to); t = t.Add(time.Minute) {
		if spec.MatchesTime(t) {
			out = append(out, t)
		}
	}
	return out
}
