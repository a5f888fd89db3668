package schedule

// Merge folds a proposal's additions into a schedule: each day's new items
// are appended after the existing blocks and the concatenation is
// deduplicated by exact string, existing entries keeping their positions.
// The returned count is the number of blocks actually added, so merging
// the same proposal twice adds zero the second time.
func Merge(s MasterSchedule, p Proposal) (MasterSchedule, int) {
	s.Days = append([]Day{}, s.Days...)
	added := 0
	for i := range s.Days {
		key := NormalizeDayShort(s.Days[i].Key, s.Days[i].Label)
		if key == "" {
			continue
		}
		incoming := p.Additions[key]
		if len(incoming) == 0 {
			continue
		}
		before := len(s.Days[i].Blocks)
		merged := dedup(append(append([]string{}, s.Days[i].Blocks...), incoming...))
		s.Days[i].Blocks = merged
		added += len(merged) - before
	}
	return s, added
}

// SortDayBlocks orders one day's blocks by their leading time token,
// untimed lines keeping their relative order after the timed ones.
func SortDayBlocks(blocks []string) []string {
	out := append([]string{}, blocks...)
	// Insertion sort keeps the original order of equal and untimed
	// entries; day lists are small.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && MinutesFromLine(out[j]) < MinutesFromLine(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
