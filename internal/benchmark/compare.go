package benchmark

// Comparison is the change in speedup of one case between two sessions.
type Comparison struct {
	Key         string
	Prev        float64
	Curr        float64
	SpeedupDiff float64 // Percentage change
}

// Compare runs comparison between two sessions.
// It returns comparisons, in curr's order, for cases that have a speedup in both.
func Compare(prev, curr Session) []Comparison {
	prevMap := make(map[string]RowRecord)
	for _, r := range prev.Rows {
		prevMap[r.Key()] = r
	}

	var comparisons []Comparison
	for _, c := range curr.Rows {
		p, ok := prevMap[c.Key()]
		if !ok || p.Speedup == nil || c.Speedup == nil {
			continue
		}
		comp := Comparison{Key: c.Key(), Prev: *p.Speedup, Curr: *c.Speedup}
		if comp.Prev > 0 {
			comp.SpeedupDiff = (comp.Curr - comp.Prev) / comp.Prev * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}
