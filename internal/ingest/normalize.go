package ingest

import "time"

// Normalize maps device-relative millisecond timestamps onto wall-clock time.
// The positional last entry (the newest sample in the device's emission
// order) is anchored to the request arrival instant; earlier entries are
// back-dated by their offset from it: abs(t) = arrival - (last - t).
//
// An entry ahead of the anchor (a relative clock that regressed mid-batch)
// is clamped to the arrival instant so the store never holds future-dated
// rows.
func Normalize(arrival time.Time, relative []int64) []time.Time {
	if len(relative) == 0 {
		return nil
	}
	last := relative[len(relative)-1]
	out := make([]time.Time, len(relative))
	for i, t := range relative {
		if t > last {
			out[i] = arrival
			continue
		}
		out[i] = arrival.Add(-time.Duration(last-t) * time.Millisecond)
	}
	return out
}
