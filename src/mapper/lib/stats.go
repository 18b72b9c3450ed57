package mapper

import (
	"fmt"
	"sort"
	"strings"
)

// Stats counts transform outcomes. Not safe for concurrent use.
type Stats struct {
	Lines   int
	Emitted int
	Dropped map[DropKind]int
}

func NewStats() Stats {
	return Stats{Dropped: make(map[DropKind]int)}
}

func (s *Stats) Add(result Result) {
	s.Lines++
	if result.Emitted() {
		s.Emitted++
		return
	}
	s.Dropped[result.Dropped]++
}

func (s *Stats) Merge(other Stats) {
	s.Lines += other.Lines
	s.Emitted += other.Emitted
	for kind, count := range other.Dropped {
		s.Dropped[kind] += count
	}
}

func (s Stats) TotalDropped() int {
	return s.Lines - s.Emitted
}

func (s Stats) String() string {
	kinds := make([]DropKind, 0, len(s.Dropped))
	for kind := range s.Dropped {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	drops := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		drops = append(drops, fmt.Sprintf("%s=%d", kind, s.Dropped[kind]))
	}
	return fmt.Sprintf("lines: %d | emitted: %d | dropped: [%s]", s.Lines, s.Emitted, strings.Join(drops, " "))
}
