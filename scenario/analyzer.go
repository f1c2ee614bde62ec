package scenario

import "fmt"

// slotState is the abstract state of one of the 4 window slots while
// walking a single execution path.
type slotState struct {
	def     int // offset of the defining WSIZE/WSIZW, -1 when none
	special bool
}

// windowPatch remembers where a window's operand fields live in the
// code so the layout pass can rewrite them. -1 means the field is not
// patchable for this window (map dialect with a partial push match).
type windowPatch struct {
	xOff, yOff, wOff, hOff int
}

type windowBinding struct {
	patch   windowPatch
	strings map[int]bool
}

// Analysis accumulates window bindings, ASK references and map-name
// registrations for one script. Bindings are additive sets keyed by
// instruction offset, so results do not depend on the order entries
// are processed in.
type Analysis struct {
	Script string

	code     []byte
	bindings map[int]*windowBinding
	askRefs  map[int]map[int]bool
	mapNames map[int]bool
	visited  map[int]bool

	warnings      []Warning
	warnedUnbound map[int]bool
}

func NewAnalysis(script string, code []byte) *Analysis {
	return &Analysis{
		Script:        script,
		code:          code,
		bindings:      map[int]*windowBinding{},
		askRefs:       map[int]map[int]bool{},
		mapNames:      map[int]bool{},
		visited:       map[int]bool{},
		warnedUnbound: map[int]bool{},
	}
}

func (a *Analysis) Warnings() []Warning { return a.warnings }

func (a *Analysis) warn(k WarnKind, stringID, off int, detail string) {
	a.warnings = append(a.warnings, Warning{
		Kind: k, Script: a.Script, StringID: stringID, Offset: off, Detail: detail,
	})
}

// AnalyzePaths runs the path-sensitive analysis over every entry
// address. Entries already analyzed (actors share scripts) are skipped.
// Path enumeration failures are hard errors; missing window bindings
// are warnings only.
func (a *Analysis) AnalyzePaths(pp PathProvider, base int, entries []int) error {
	g, err := pp.BuildGraph(a.code, base, entries)
	if err != nil {
		return fmt.Errorf("control flow graph: %w", err)
	}
	for _, entry := range entries {
		if a.visited[entry] {
			continue
		}
		a.visited[entry] = true
		paths, err := pp.EnumeratePaths(g, entry)
		if err != nil {
			return fmt.Errorf("path enumeration: %w", err)
		}
		for _, path := range paths {
			a.walkPath(g, path)
		}
	}
	return nil
}

// walkPath threads fresh 4-slot state along one path. State is never
// shared or merged between paths: the same slot may legally hold
// different windows on different branches.
func (a *Analysis) walkPath(g Graph, path []int) {
	var slots [4]slotState
	for i := range slots {
		slots[i].def = -1
	}
	for _, addr := range path {
		b := g[addr]
		if b == nil {
			continue
		}
		for _, off := range b.Instrs {
			if off >= len(a.code) {
				continue
			}
			switch a.code[off] {
			case OP_WSIZE, OP_WSIZW:
				slots[slotOperand(a.code, off)].def = off
			case OP_WSPCL:
				slots[slotOperand(a.code, off)].special = operandU16(a.code, off+2) != 0
			case OP_WREST:
				slots[slotOperand(a.code, off)] = slotState{def: -1}
			case OP_MES:
				a.display(slots[slotOperand(a.code, off)], off, false)
			case OP_ASK:
				a.display(slots[slotOperand(a.code, off)], off, true)
			case OP_MPNAM:
				a.mapNames[operandU16(a.code, off+2)] = true
			}
		}
	}
}

// display records the bindings for one MES/ASK instruction given the
// referenced slot's current state.
func (a *Analysis) display(s slotState, off int, isAsk bool) {
	sid := operandU16(a.code, off+2)
	if isAsk {
		// Needed by the choice validator even when no window is known.
		if a.askRefs[sid] == nil {
			a.askRefs[sid] = map[int]bool{}
		}
		a.askRefs[sid][off] = true
	}
	if s.special {
		// Special windows keep their scripted size.
		return
	}
	if s.def < 0 {
		if !a.warnedUnbound[off] {
			a.warnedUnbound[off] = true
			a.warn(WarnUnbound, sid, off, "no window defined on any path before display")
		}
		return
	}
	a.bind(s.def, windowPatch{
		xOff: s.def + 2, yOff: s.def + 4, wOff: s.def + 6, hOff: s.def + 8,
	}, sid)
}

func (a *Analysis) bind(def int, patch windowPatch, sid int) {
	wb := a.bindings[def]
	if wb == nil {
		wb = &windowBinding{patch: patch, strings: map[int]bool{}}
		a.bindings[def] = wb
	}
	wb.strings[sid] = true
}
