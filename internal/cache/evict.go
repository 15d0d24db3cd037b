package cache

import "sort"

// evict applies the retention policy in place: per-date caches older than
// the retention window go first, then oldest-by-timestamp entries beyond
// the count cap. The food list has a single timestamp and is invalidated
// wholesale once it ages out. Entries written before timestamps existed
// are stamped now rather than dropped.
func (s *Store) evict(st *State) {
	nowMs := s.now().UnixMilli()
	cutoff := nowMs - s.retention.Milliseconds()

	evictDated(st.Days, st.DayTimestamps, nowMs, cutoff, s.maxDays)
	evictDated(st.Weights, st.WeightTimestamps, nowMs, cutoff, s.maxDays)
	evictDated(st.Waters, st.WaterTimestamps, nowMs, cutoff, s.maxDays)

	if len(st.Foods) > 0 {
		switch {
		case st.FoodsTimestamp == 0:
			st.FoodsTimestamp = nowMs
		case st.FoodsTimestamp < cutoff:
			st.Foods = nil
			st.FoodsTimestamp = 0
		}
	}
}

func evictDated[T any](values map[string]T, stamps map[string]int64, nowMs, cutoff int64, max int) {
	for date := range values {
		ts, ok := stamps[date]
		if !ok {
			stamps[date] = nowMs
			continue
		}
		if ts < cutoff {
			delete(values, date)
			delete(stamps, date)
		}
	}
	// Drop orphan timestamps left behind by earlier partial writes.
	for date := range stamps {
		if _, ok := values[date]; !ok {
			delete(stamps, date)
		}
	}

	if len(values) <= max {
		return
	}
	dates := make([]string, 0, len(values))
	for date := range values {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return stamps[dates[i]] < stamps[dates[j]] })
	for _, date := range dates[:len(values)-max] {
		delete(values, date)
		delete(stamps, date)
	}
}
