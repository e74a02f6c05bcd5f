package trace

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	paQuoted = regexp.MustCompile(`"([^"]*)"`)
	paInt    = regexp.MustCompile(`^-?\d+$`)
)

// ParsePA decodes a process-algebraic backend's quoted-action path (spec.md
// §4.6 "Process-algebraic dialect"). Only the region between
// `<initial state>` and `<goal state>`/`<deadlock>` is significant.
func ParsePA(output string) []Event {
	endMarker := "<goal state>"
	if i := strings.Index(output, "<deadlock>"); i >= 0 {
		if j := strings.Index(output, "<goal state>"); j < 0 || i < j {
			endMarker = "<deadlock>"
		}
	}
	body := between(output, "<initial state>", endMarker)

	var events []Event
	initializing := true
	for _, m := range paQuoted.FindAllStringSubmatch(body, -1) {
		decoded, ok := decodePAAction(m[1], initializing)
		if !ok {
			events = append(events, Commentary{Text: "could not parse: " + m[1]})
			continue
		}
		if len(decoded) == 1 {
			if _, isEndInit := decoded[0].(endInitMarker); isEndInit {
				initializing = false
				continue
			}
		}
		events = append(events, decoded...)
	}
	return events
}

// endInitMarker is an internal sentinel consumed by ParsePA itself; it is
// never returned to callers.
type endInitMarker struct{}

func (endInitMarker) event() {}

func decodePAAction(action string, initializing bool) ([]Event, bool) {
	fields := strings.Fields(action)
	if len(fields) == 0 {
		return nil, false
	}

	switch fields[0] {
	case "ENDINIT":
		return []Event{endInitMarker{}}, true
	case "MONITOR":
		if len(fields) != 2 {
			return nil, false
		}
		v := strings.TrimPrefix(fields[1], "!")
		switch v {
		case "deadlock":
			return []Event{PropertyOutcome{Result: Deadlock}}, true
		case "true":
			return []Event{PropertyOutcome{Result: Satisfied}}, true
		case "false":
			return []Event{PropertyOutcome{Result: Violated}}, true
		}
		return nil, false
	}

	if paInt.MatchString(fields[0]) {
		k, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, false
		}
		return []Event{Step{K: k}}, true
	}

	args := make([]int, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.Atoi(strings.TrimPrefix(f, "!"))
		if err != nil {
			return nil, false
		}
		args = append(args, v)
	}

	store, ok := paStore(fields[0])
	if !ok {
		return nil, false
	}
	return decodePACell(store, args, initializing)
}

func paStore(name string) (StoreCell, bool) {
	switch name {
	case "ATTR":
		return CellInterface, true
	case "L":
		return CellLstig, true
	case "E":
		return CellEnvironment, true
	}
	return 0, false
}

// decodePACell interprets an ATTR/L/E action's integer arguments. E takes
// (index, value); ATTR and L take (agent, index, value); L additionally
// takes a fourth sender argument attributing the message to another agent
// (spec.md §4.6: "L … <sender> attributes a stigmergic message to another
// agent").
func decodePACell(store StoreCell, args []int, initializing bool) ([]Event, bool) {
	var agent, index, value int
	switch store {
	case CellEnvironment:
		if len(args) != 2 {
			return nil, false
		}
		agent, index, value = -1, args[0], args[1]
	default:
		if len(args) != 3 && len(args) != 4 {
			return nil, false
		}
		agent, index, value = args[0], args[1], args[2]
	}

	if initializing {
		return []Event{InitAssign{Store: store, Agent: agent, Index: index, Value: value}}, true
	}
	assign := Assign{Store: store, Agent: agent, Index: index, Value: value}
	if store == CellLstig && len(args) == 4 {
		return []Event{StigmergyEvent{Kind: Propagate, Agent: args[3], Key: index}, assign}, true
	}
	return []Event{assign}, true
}
