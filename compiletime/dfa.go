package compiletime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coregx/scangen/charclass"
)

// dfaState is one subset-construction DFA state: the sorted, deduplicated
// set of NFA states it represents.
type dfaState struct {
	nfaStates []StateID
}

// dfa is an unminimized subset-construction DFA over a multi-pattern NFA.
type dfa struct {
	states               []dfaState
	accepting            map[StateID]PatternID
	transitions          map[StateID]map[charclass.ID]StateID
	classes              *charclass.Registry
	patterns             []string
	multiAcceptViolation bool
}

// buildDFA runs subset construction (SPEC_FULL.md section 4.D) over b's
// composed multi-pattern NFA, grounded on
// original_source/src/dfa.rs's Dfa::from_nfa. The NFA-state-set key for
// deduplication is rendered as a string, the same trick coregx's
// nfa/composite_dfa.go uses for its subset-construction worklist.
func buildDFA(b *MultiPatternBuilder, cfg Config) (*dfa, error) {
	nfa := b.nfa
	d := &dfa{
		accepting:   make(map[StateID]PatternID),
		transitions: make(map[StateID]map[charclass.ID]StateID),
		classes:     b.classes,
		patterns:    b.patterns,
	}

	byKey := make(map[string]StateID)

	addState := func(nfaStates []StateID) StateID {
		key := stateKey(nfaStates)
		if id, ok := byKey[key]; ok {
			return id
		}
		id := StateID(len(d.states))
		d.states = append(d.states, dfaState{nfaStates: nfaStates})
		byKey[key] = id

		var matched int
		var patternID PatternID
		for _, s := range nfaStates {
			if pid, ok := b.accepting[s]; ok {
				matched++
				patternID = pid
			}
		}
		if matched > 1 {
			// Recorded for the caller to surface as DfaConstructionError;
			// buildDFA itself keeps going and finishes the construction
			// before the violation is reported.
			d.accepting[id] = patternID
			d.multiAcceptViolation = true
		} else if matched == 1 {
			d.accepting[id] = patternID
		}
		return id
	}

	start := nfa.epsilonClosure(0)
	startID := addState(start)

	workList := []StateID{startID}
	for len(workList) > 0 {
		stateID := workList[len(workList)-1]
		workList = workList[:len(workList)-1]

		nfaStates := d.states[stateID].nfaStates
		for classID := charclass.ID(0); int(classID) < b.classes.Len(); classID++ {
			target := nfa.epsilonClosureSet(nfa.move(nfaStates, classID))
			if len(target) == 0 {
				continue
			}
			existedBefore := len(d.states)
			targetID := addState(target)
			if d.transitions[stateID] == nil {
				d.transitions[stateID] = make(map[charclass.ID]StateID)
			}
			d.transitions[stateID][classID] = targetID
			if int(targetID) >= existedBefore {
				workList = append(workList, targetID)
			}
		}

		if len(d.states) > cfg.MaxDFAStates {
			return nil, newDfaConstructionError(fmt.Sprintf("dfa state count exceeded configured limit of %d", cfg.MaxDFAStates))
		}
	}

	if d.multiAcceptViolation {
		return nil, newDfaConstructionError("a subset-construction DFA state accepted more than one pattern")
	}

	return d, nil
}

func stateKey(states []StateID) string {
	var sb strings.Builder
	for i, s := range states {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(s)))
	}
	return sb.String()
}
