package trace

import (
	"fmt"
	"strings"

	"github.com/labs-lang/sliver/internal/info"
)

// Render renders a neutral event sequence into source-style lines (spec.md
// §4.6 "Rendering"): initialization wrapped in
// <initialization>/<end initialization>, stigmergy events wrapped in
// <agent N: propagate K> ... <end propagate> (or confirm), agent cell
// assignments as "<agent-kind> <id>:  <var> ← <value>", and environment
// cell assignments as "env:  <var> ← <value>".
func Render(events []Event, inf info.Info) string {
	var b strings.Builder
	inInit := false
	var openStig *StigmergyEvent

	closeInit := func() {
		if inInit {
			b.WriteString("<end initialization>\n")
			inInit = false
		}
	}
	closeStig := func() {
		if openStig != nil {
			verb := stigVerb(openStig.Kind)
			fmt.Fprintf(&b, "<end %s>\n", verb)
			openStig = nil
		}
	}

	for _, ev := range events {
		switch v := ev.(type) {
		case InitAssign:
			if !inInit {
				b.WriteString("<initialization>\n")
				inInit = true
			}
			b.WriteString(renderAssign(v.Store, v.Agent, v.Index, v.Value, inf))
		case Step:
			closeInit()
			closeStig()
			fmt.Fprintf(&b, "-- step %d --\n", v.K)
		case Assign:
			closeInit()
			b.WriteString(renderAssign(v.Store, v.Agent, v.Index, v.Value, inf))
		case StigmergyEvent:
			closeInit()
			closeStig()
			if v.Kind != StigmergyEnd {
				fmt.Fprintf(&b, "<agent %d: %s %d>\n", v.Agent, stigVerb(v.Kind), v.Key)
				evCopy := v
				openStig = &evCopy
			}
		case Spurious:
			closeInit()
			closeStig()
			b.WriteString("<spurious>\n")
		case PropertyOutcome:
			closeInit()
			closeStig()
			b.WriteString(renderOutcome(v.Result))
		case Commentary:
			fmt.Fprintf(&b, "; %s\n", v.Text)
		}
	}
	closeInit()
	closeStig()
	return b.String()
}

func stigVerb(kind StigmergyKind) string {
	if kind == Confirm {
		return "confirm"
	}
	return "propagate"
}

func renderOutcome(o Outcome) string {
	switch o {
	case Deadlock:
		return "<deadlock>\n"
	case Satisfied:
		return "<property satisfied>\n"
	default:
		return "<property violated>\n"
	}
}

func renderAssign(store StoreCell, agent, index, value int, inf info.Info) string {
	name, kindLabel := resolveVar(store, agent, index, inf)
	if agent < 0 {
		return fmt.Sprintf("env:  %s ← %d\n", name, value)
	}
	return fmt.Sprintf("%s %d:  %s ← %d\n", kindLabel, agent, name, value)
}

// resolveVar looks up the declared name owning (store, index) and the
// agent-kind name of the owning agent, falling back to the raw index when
// the static info doesn't cover it (e.g. a synthetic trace in a test).
func resolveVar(store StoreCell, agent, index int, inf info.Info) (name, kind string) {
	kind = "agent"
	if k, err := inf.Spawn.KindOf(agent); err == nil {
		kind = k.Name
		var vars []info.Variable
		if store == CellInterface {
			vars = k.Iface
		} else {
			vars = k.Lstig
		}
		if v, err := info.GetVar(vars, index); err == nil {
			return v.Name, kind
		}
	}
	if store == CellEnvironment {
		if v, err := info.GetVar(inf.Env, index); err == nil {
			return v.Name, kind
		}
	}
	return fmt.Sprintf("[%d]", index), kind
}
