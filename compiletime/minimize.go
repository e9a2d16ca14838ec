package compiletime

import (
	"sort"

	"github.com/coregx/scangen/charclass"
)

// minimizedDFA is the output of partition refinement over a dfa: states
// that are behaviorally indistinguishable (same acceptance, same pattern
// label when accepting, and same transition behavior under every class)
// are merged.
type minimizedDFA struct {
	states      []dfaState
	accepting   map[StateID]PatternID
	transitions map[StateID]map[charclass.ID]StateID
	classes     *charclass.Registry
	patterns    []string
}

// minimizeDFA partitions d's states into the coarsest refinement that
// distinguishes acceptance (and, among accepting states, pattern id) and
// transition behavior, in the spirit of Hopcroft's algorithm. There is no
// reference implementation to port here, so this follows the classic
// partition-refinement formulation: start from the initial partition
// (grouped by acceptance label), then repeatedly split groups whose members
// disagree on which group a given class transitions into, stopping when a
// full pass makes no further split.
func minimizeDFA(d *dfa, cfg Config) (*minimizedDFA, error) {
	if cfg.DisableMinimization {
		return &minimizedDFA{
			states:      d.states,
			accepting:   d.accepting,
			transitions: d.transitions,
			classes:     d.classes,
			patterns:    d.patterns,
		}, nil
	}

	numClasses := d.classes.Len()
	groupOf := make([]int, len(d.states))

	// Initial partition: one group per (accepting?, patternID) pair, plus
	// one group for all non-accepting states.
	initialKey := make(map[PatternID]int)
	nonAcceptingGroup := -1
	groups := [][]StateID{}

	for id := range d.states {
		sid := StateID(id)
		if pid, ok := d.accepting[sid]; ok {
			g, exists := initialKey[pid]
			if !exists {
				g = len(groups)
				groups = append(groups, nil)
				initialKey[pid] = g
			}
			groups[g] = append(groups[g], sid)
			groupOf[id] = g
		} else {
			if nonAcceptingGroup == -1 {
				nonAcceptingGroup = len(groups)
				groups = append(groups, nil)
			}
			groups[nonAcceptingGroup] = append(groups[nonAcceptingGroup], sid)
			groupOf[id] = nonAcceptingGroup
		}
	}

	// Iteratively refine until stable.
	for {
		changed := false
		signature := func(sid StateID) string {
			// Encode the group reached (or -1) under every class as a
			// distinguishing key; signatures are compared only within a
			// group, so the state's own group is not encoded.
			var sb []byte
			for c := charclass.ID(0); int(c) < numClasses; c++ {
				target := -1
				if trs, ok := d.transitions[sid]; ok {
					if t, ok := trs[c]; ok {
						target = groupOf[t]
					}
				}
				sb = appendInt(sb, target)
				sb = append(sb, '|')
			}
			return string(sb)
		}

		var newGroups [][]StateID
		newGroupOf := make([]int, len(d.states))

		for _, members := range groups {
			if len(members) == 0 {
				continue
			}
			byKey := make(map[string][]StateID)
			var order []string
			for _, sid := range members {
				key := signature(sid)
				if _, ok := byKey[key]; !ok {
					order = append(order, key)
				}
				byKey[key] = append(byKey[key], sid)
			}
			sort.Strings(order)
			if len(order) > 1 {
				changed = true
			}
			for _, key := range order {
				g := len(newGroups)
				newGroups = append(newGroups, byKey[key])
				for _, sid := range byKey[key] {
					newGroupOf[sid] = g
				}
			}
		}

		groups = newGroups
		groupOf = newGroupOf

		if !changed {
			break
		}
		if len(groups) > cfg.MaxDFAStates {
			return nil, newDfaConstructionError("minimized dfa state count exceeded configured limit")
		}
	}

	// The group containing the original start state (id 0) must become
	// state 0 in the minimized DFA; nothing above guarantees that, since
	// groups are reordered by sorted signature key during refinement.
	startGroup := groupOf[0]
	if startGroup != 0 {
		groups[0], groups[startGroup] = groups[startGroup], groups[0]
		for _, sid := range groups[0] {
			groupOf[sid] = 0
		}
		for _, sid := range groups[startGroup] {
			groupOf[sid] = startGroup
		}
	}

	// Build the minimized DFA: one state per surviving group, representative
	// chosen as the group's first member (stable, since groups preserve
	// relative order of first appearance).
	m := &minimizedDFA{
		accepting:   make(map[StateID]PatternID),
		transitions: make(map[StateID]map[charclass.ID]StateID),
		classes:     d.classes,
		patterns:    d.patterns,
	}
	for range groups {
		m.states = append(m.states, dfaState{})
	}
	for g, members := range groups {
		rep := members[0]
		m.states[g] = d.states[rep]
		if pid, ok := d.accepting[rep]; ok {
			m.accepting[StateID(g)] = pid
		}
		if trs, ok := d.transitions[rep]; ok {
			out := make(map[charclass.ID]StateID, len(trs))
			for c, target := range trs {
				out[c] = StateID(groupOf[target])
			}
			m.transitions[StateID(g)] = out
		}
	}

	return m, nil
}

func appendInt(b []byte, v int) []byte {
	if v < 0 {
		b = append(b, '-')
		v = -v
	}
	if v == 0 {
		return append(b, '0')
	}
	var digits [20]byte
	n := 0
	for v > 0 {
		digits[n] = byte('0' + v%10)
		v /= 10
		n++
	}
	for i := n - 1; i >= 0; i-- {
		b = append(b, digits[i])
	}
	return b
}
