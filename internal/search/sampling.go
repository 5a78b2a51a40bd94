package search

import "time"

// Instants enumerates start, start+step, ... strictly before end. The window
// is a plain span, so a window that wraps past midnight is just a span whose
// end falls on the next calendar day.
func Instants(start, end time.Time, step time.Duration) []time.Time {
	if step <= 0 || !start.Before(end) {
		return nil
	}
	n := int(end.Sub(start) / step)
	if end.Sub(start)%step != 0 {
		n++
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.Add(time.Duration(i)*step))
	}
	return out
}
