package encoder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/labs-lang/sliver/internal/info"
)

// ParseInfoBundle deserializes the encoder's "info" invocation text
// (spec.md §6, "info bundle") into an info.Info. The wire format is
// pipe-separated lines: environment declarations, then one
// "name lo,hi" / iface / lstig triple per agent kind, then properties,
// assumes, and picks — the exact shape original_source/sliver/app/info.py's
// `Info.parse` / `Spawn.parse` consume, reimplemented with typed structs in
// place of Python's duck-typed dict-of-dicts (REDESIGN FLAGS).
func ParseInfoBundle(text string, externValues []string) (info.Info, error) {
	if text == "" {
		return info.Info{}, fmt.Errorf("empty info bundle")
	}
	lines := strings.Split(text, "|")
	if len(lines) < 4 {
		return info.Info{}, fmt.Errorf("malformed info bundle: expected at least 4 sections, got %d", len(lines))
	}

	envLine := lines[0]
	kindLines := lines[1 : len(lines)-3]
	propsLine := lines[len(lines)-3]
	assumesLine := lines[len(lines)-2]
	picksLine := lines[len(lines)-1]

	env, err := parseVarList(envLine, info.Environment)
	if err != nil {
		return info.Info{}, fmt.Errorf("parsing environment variables: %w", err)
	}

	picks, err := parsePicks(picksLine)
	if err != nil {
		return info.Info{}, fmt.Errorf("parsing picks: %w", err)
	}

	spawn, err := parseSpawn(kindLines, picks)
	if err != nil {
		return info.Info{}, fmt.Errorf("parsing spawn: %w", err)
	}

	externs, err := parseExterns(externValues)
	if err != nil {
		return info.Info{}, fmt.Errorf("parsing extern values: %w", err)
	}

	return info.Info{
		Spawn:      spawn,
		Env:        env,
		Externs:    externs,
		Properties: parseProperties(propsLine),
		Assumes:    splitNonEmpty(assumesLine, ";"),
	}, nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseVarList decodes a ";"-separated list of "index=name=init" entries
// (info.py's `Variable.__init__` positional unpack) into Variable
// declarations for the given store.
func parseVarList(s string, store info.Store) ([]info.Variable, error) {
	var out []info.Variable
	for _, entry := range splitNonEmpty(s, ";") {
		fields := strings.SplitN(entry, "=", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed variable declaration %q", entry)
		}
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("malformed variable index in %q: %w", entry, err)
		}
		name, size := fields[1], 1
		if open := strings.IndexByte(name, '['); open >= 0 {
			sizeStr := strings.TrimSuffix(name[open+1:], "]")
			n, err := strconv.Atoi(sizeStr)
			if err != nil {
				return nil, fmt.Errorf("malformed array size in %q: %w", entry, err)
			}
			size, name = n, name[:open]
		}
		v, err := parseInit(fields[2])
		if err != nil {
			return nil, fmt.Errorf("parsing initializer for %q: %w", name, err)
		}
		v.Store, v.Name, v.Index, v.Size = store, name, index, size
		out = append(out, v)
	}
	return out, nil
}

// parseInit decodes the four initializer shapes info.py's
// `Variable.values` supports: "[v1,v2,...]" (enumerated), "lo..hi" (range),
// "undef", or a bare literal expression.
func parseInit(s string) (info.Variable, error) {
	switch {
	case s == "undef":
		return info.Variable{Init: info.InitUndefined}, nil
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		var vals []int
		for _, part := range strings.Split(s[1:len(s)-1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return info.Variable{}, fmt.Errorf("enumerated value %q: %w", part, err)
			}
			vals = append(vals, n)
		}
		return info.Variable{Init: info.InitEnumerated, Enumerated: vals}, nil
	case strings.Contains(s, ".."):
		parts := strings.SplitN(s, "..", 2)
		lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return info.Variable{}, fmt.Errorf("range lower bound %q: %w", parts[0], err)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return info.Variable{}, fmt.Errorf("range upper bound %q: %w", parts[1], err)
		}
		return info.Variable{Init: info.InitRange, RangeLo: lo, RangeHi: hi}, nil
	default:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return info.Variable{}, fmt.Errorf("literal initializer %q: %w", s, err)
		}
		return info.Variable{Init: info.InitLiteral, Literal: n}, nil
	}
}

// parsePicks decodes the trailing picks section, "name (tid1),(tid2);...",
// into the set of pick names each agent kind uses (info.py's
// `Spawn.parse` picks dict).
func parsePicks(s string) (map[string][]string, error) {
	picks := make(map[string][]string)
	for _, entry := range splitNonEmpty(s, ";") {
		fields := strings.SplitN(entry, " ", 2)
		if len(fields) == 0 || fields[0] == "" {
			continue
		}
		kind := fields[0]
		picks[kind] = append(picks[kind], kind)
	}
	return picks, nil
}

// parseSpawn decodes the (name-range, iface, lstig) triples, following
// info.py's `Spawn.parse` zip-by-three.
func parseSpawn(kindLines []string, picks map[string][]string) (info.Spawn, error) {
	if len(kindLines)%3 != 0 {
		return info.Spawn{}, fmt.Errorf("spawn section has %d lines, not a multiple of 3", len(kindLines))
	}
	var kinds []info.AgentKind
	for i := 0; i < len(kindLines); i += 3 {
		header, iface, lstig := kindLines[i], kindLines[i+1], kindLines[i+2]
		nameRange := strings.SplitN(header, " ", 2)
		if len(nameRange) != 2 {
			return info.Spawn{}, fmt.Errorf("malformed agent header %q", header)
		}
		lohi := strings.SplitN(nameRange[1], ",", 2)
		if len(lohi) != 2 {
			return info.Spawn{}, fmt.Errorf("malformed id range %q", nameRange[1])
		}
		lo, err := strconv.Atoi(lohi[0])
		if err != nil {
			return info.Spawn{}, fmt.Errorf("id range lower bound %q: %w", lohi[0], err)
		}
		hi, err := strconv.Atoi(lohi[1])
		if err != nil {
			return info.Spawn{}, fmt.Errorf("id range upper bound %q: %w", lohi[1], err)
		}
		ifaceVars, err := parseVarList(iface, info.Interface)
		if err != nil {
			return info.Spawn{}, fmt.Errorf("agent %s interface: %w", nameRange[0], err)
		}
		lstigVars, err := parseVarList(lstig, info.Lstig)
		if err != nil {
			return info.Spawn{}, fmt.Errorf("agent %s lstig: %w", nameRange[0], err)
		}
		usedPicks := make(map[string]bool)
		for _, p := range picks[nameRange[0]] {
			usedPicks[p] = true
		}
		kinds = append(kinds, info.AgentKind{
			Name: nameRange[0], Lo: lo, Hi: hi,
			Iface: ifaceVars, Lstig: lstigVars, Picks: usedPicks,
		})
	}
	return info.Spawn{Kinds: kinds}, nil
}

func parseExterns(values []string) (map[string]int, error) {
	externs := make(map[string]int, len(values))
	for _, kv := range values {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed --values entry %q, want key=value", kv)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("extern %q value %q: %w", parts[0], parts[1], err)
		}
		externs[parts[0]] = n
	}
	return externs, nil
}

// parseProperties splits the ";"-separated property texts and tags each
// with the modality named by its first word.
func parseProperties(s string) []info.Property {
	var out []info.Property
	modalities := map[string]info.Modality{
		"always": info.Always, "eventually": info.Eventually,
		"finally": info.Finally, "fairly": info.Fairly,
		"fairly_inf": info.FairlyInf, "between": info.Between,
	}
	for i, text := range splitNonEmpty(s, ";") {
		words := strings.Fields(text)
		modality := info.Always
		if len(words) > 0 {
			if m, ok := modalities[words[0]]; ok {
				modality = m
			}
		}
		out = append(out, info.Property{
			Name: fmt.Sprintf("prop%d", i), Modality: modality, Text: text,
		})
	}
	return out
}

// ModalitiesSupported reports whether every property in props has a
// modality in supported, mirroring common.py's check_property_support.
func ModalitiesSupported(props []info.Property, supported []string) (string, bool) {
	allowed := make(map[string]bool, len(supported))
	for _, m := range supported {
		allowed[m] = true
	}
	names := make([]string, 0, len(props))
	for _, p := range props {
		if !allowed[p.Modality.String()] {
			names = append(names, p.Modality.String())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "", true
	}
	return strings.Join(names, ", "), false
}
