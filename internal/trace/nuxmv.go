package trace

import (
	"regexp"
	"strings"
)

var (
	nuxmvStateHeader = regexp.MustCompile(`^\s*->\s*State:\s*\d+(\.\d+)?\s*<-\s*$`)
	nuxmvAssignment  = regexp.MustCompile(`^\s*([\w.\[\]]+)\s*=\s*(\S+)\s*$`)
)

// ParseNuXmv decodes an nuXmv SMV counterexample (spec.md §4.6 "nuXmv
// dialect"): the trace is split on its `-> State: k <-` separators, the
// first state is initialization, and every `lhs = rhs` line within a
// state is dispatched through the same store-cell regex machinery as the
// BMC dialect.
func ParseNuXmv(output string) []Event {
	var events []Event
	var current []string
	stateIndex := -1

	flush := func() {
		if stateIndex < 0 {
			return
		}
		initializing := stateIndex == 0
		if !initializing {
			events = append(events, Step{K: stateIndex})
		}
		for _, line := range current {
			m := nuxmvAssignment.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			ev, ok := decodeCell(m[1], m[2])
			if !ok {
				continue
			}
			if initializing {
				a := ev.(Assign)
				events = append(events, InitAssign{Store: a.Store, Agent: a.Agent, Index: a.Index, Value: a.Value})
				continue
			}
			events = append(events, ev)
		}
		current = nil
	}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimRight(raw, "\r")
		if nuxmvStateHeader.MatchString(line) {
			flush()
			stateIndex++
			continue
		}
		if stateIndex >= 0 {
			current = append(current, line)
		}
	}
	flush()
	return events
}
