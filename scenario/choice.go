package scenario

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateChoices cross-checks every string referenced by an ASK
// instruction against that instruction's encoded first/last choice
// line. Line numbering restarts at 0 after any line ending in {NEW},
// since each page numbers its choice rows from the top. Every outcome
// is a warning; the patching pass is never blocked.
func (a *Analysis) ValidateChoices(text func(int) string) {
	for _, sid := range sortedKeys(a.askRefs) {
		body, _, _ := splitPos(text(sid))

		var indices []int
		idx := 0
		for _, line := range strings.Split(body, "\n") {
			if strings.HasPrefix(line, "{CHOICE}") {
				indices = append(indices, idx)
			}
			if strings.HasSuffix(line, "{NEW}") {
				idx = 0
			} else {
				idx++
			}
		}

		if len(indices) == 0 {
			a.warn(WarnNoChoices, sid, -1, "string is used by ASK but has no {CHOICE} lines")
			continue
		}

		run := append([]int{}, indices...)
		sort.Ints(run)
		first, last := run[0], run[len(run)-1]
		contiguous := len(run) == last-first+1
		for i := range run {
			if run[i] != first+i {
				contiguous = false
				break
			}
		}
		if !contiguous {
			a.warn(WarnChoiceGap, sid, -1, fmt.Sprintf("choice lines at %v", indices))
			continue
		}

		for _, off := range sortedKeys(a.askRefs[sid]) {
			if off+6 > len(a.code) {
				continue
			}
			ef, el := int(a.code[off+4]), int(a.code[off+5])
			if ef != first || el != last {
				a.warn(WarnChoiceRange, sid, off,
					fmt.Sprintf("instruction has (%d,%d), text has (%d,%d)", ef, el, first, last))
			}
		}
	}
}
