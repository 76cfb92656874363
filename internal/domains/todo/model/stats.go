package model

import "math"

type Stats struct {
	Total      int
	Completed  int
	Overdue    int
	ByPriority map[Priority]int
}

func (s Stats) Pending() int {
	return s.Total - s.Completed
}

// CompletionRate is the completed percentage rounded to two decimals, zero for an empty store.
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}

	rate := float64(s.Completed) / float64(s.Total) * 100

	return math.Round(rate*100) / 100
}
