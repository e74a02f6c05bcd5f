package trace

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bmcStateHeader  = regexp.MustCompile(`^State\s+\d+\s+file\s+\S+\s+function\s+(\S+)\s+line\s+\d+`)
	bmcAssignment   = regexp.MustCompile(`^([\w.]+(?:\[\d+\])*)\s*=\s*(.+?)\s*$`)
	bmcInterface    = regexp.MustCompile(`^I\[(\d+)\]\[(\d+)\]$`)
	bmcLstig        = regexp.MustCompile(`^Lvalue\[(\d+)\]\[(\d+)\]$`)
	bmcEnvironment  = regexp.MustCompile(`^E\[(\d+)\]$`)
	bmcBoolTrue     = regexp.MustCompile(`^(?i)TRUE$`)
)

// ParseBMC decodes a CBMC/ESBMC-style `lhs = rhs` counterexample (spec.md
// §4.6 "BMC dialect"). Only the region between "Counterexample:" and
// "Violated property:" is significant; everything outside it, and any
// "Assumption:" block within it, is noise the backend prints alongside
// the trace proper.
func ParseBMC(output string) []Event {
	body := between(output, "Counterexample:", "Violated property:")

	var (
		events       []Event
		fsm          StigmergyFSM
		currentAgent = -1
		currentFn    string
		lastLine     string
	)

	inAssumption := false
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Assumption:") {
			inAssumption = true
			continue
		}
		if m := bmcStateHeader.FindStringSubmatch(line); m != nil {
			inAssumption = false
			currentFn = m[1]
			continue
		}
		if inAssumption {
			continue
		}

		m := bmcAssignment.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lhs, rhs := m[1], m[2]

		// Array-wide prints repeat the same lhs=rhs pair on consecutive
		// lines; keep only the first occurrence of a run.
		if lhs+"="+rhs == lastLine {
			continue
		}
		lastLine = lhs + "=" + rhs

		switch {
		case lhs == "__LABS_step":
			k, err := strconv.Atoi(rhs)
			if err != nil {
				continue
			}
			if ev, ok := fsm.Close(); ok {
				events = append(events, ev)
			}
			events = append(events, Step{K: k})
		case lhs == "firstAgent" || lhs == "scheduled":
			a, err := strconv.Atoi(rhs)
			if err == nil {
				currentAgent = a
			}
		case lhs == "guessedkey":
			k, err := strconv.Atoi(rhs)
			if err != nil {
				continue
			}
			kind := Confirm
			if strings.Contains(strings.ToLower(currentFn), "propagate") {
				kind = Propagate
			}
			fsm.Open(kind, currentAgent)
			fsm.Key(k)
		case lhs == "__sim_spurious" && bmcBoolTrue.MatchString(rhs):
			events = append(events, Spurious{})
			return events
		case lhs == "format":
			events = append(events, Commentary{Text: strings.Trim(rhs, `"`)})
		default:
			if ev, ok := decodeCell(lhs, rhs); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

// decodeCell matches lhs against the three store-cell shapes and parses
// rhs as the assigned integer value.
func decodeCell(lhs, rhs string) (Event, bool) {
	value, err := strconv.Atoi(strings.TrimSuffix(rhs, "u"))
	if err != nil {
		return nil, false
	}
	if m := bmcInterface.FindStringSubmatch(lhs); m != nil {
		a, _ := strconv.Atoi(m[1])
		i, _ := strconv.Atoi(m[2])
		return Assign{Store: CellInterface, Agent: a, Index: i, Value: value}, true
	}
	if m := bmcLstig.FindStringSubmatch(lhs); m != nil {
		a, _ := strconv.Atoi(m[1])
		i, _ := strconv.Atoi(m[2])
		return Assign{Store: CellLstig, Agent: a, Index: i, Value: value}, true
	}
	if m := bmcEnvironment.FindStringSubmatch(lhs); m != nil {
		i, _ := strconv.Atoi(m[1])
		return Assign{Store: CellEnvironment, Agent: -1, Index: i, Value: value}, true
	}
	return nil, false
}

func between(s, start, end string) string {
	if i := strings.Index(s, start); i >= 0 {
		s = s[i+len(start):]
	}
	if i := strings.Index(s, end); i >= 0 {
		s = s[:i]
	}
	return s
}
