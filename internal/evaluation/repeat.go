package evaluation

import (
	"fmt"
	"sort"
)

// Repeatable is a per-term score record that can be repeated when a student
// takes a grade again.
type Repeatable interface {
	StudentID() string
	Term() (gradeYear, semester, schoolYear int)
}

// FilterRepeated drops records superseded by a repeated grade. For every
// listed student the records are ordered by grade year, semester and school
// year; when two share a grade year and semester the later one wins. The
// surviving records keep their original order. Records of students not in
// studentIDs are left alone.
func FilterRepeated[T Repeatable](records []T, studentIDs []string) []T {
	removed := make(map[int]bool)
	seen := make(map[string]bool, len(studentIDs))

	for _, sid := range studentIDs {
		if seen[sid] {
			continue
		}
		seen[sid] = true

		var idx []int
		for i, r := range records {
			if r.StudentID() == sid {
				idx = append(idx, i)
			}
		}
		sort.SliceStable(idx, func(a, b int) bool {
			ga, sa, ya := records[idx[a]].Term()
			gb, sb, yb := records[idx[b]].Term()
			if ga != gb {
				return ga < gb
			}
			if sa != sb {
				return sa < sb
			}
			return ya < yb
		})

		kept := make(map[string]int)
		for _, i := range idx {
			g, s, _ := records[i].Term()
			key := fmt.Sprintf("%d_%d", g, s)
			if prev, ok := kept[key]; ok {
				removed[prev] = true
			}
			kept[key] = i
		}
	}

	if len(removed) == 0 {
		return records
	}
	out := make([]T, 0, len(records)-len(removed))
	for i, r := range records {
		if !removed[i] {
			out = append(out, r)
		}
	}
	return out
}
