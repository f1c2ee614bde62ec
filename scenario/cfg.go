package scenario

import (
	"fmt"
	"sort"
)

// Block is one basic block of event bytecode. Instrs lists the offsets
// of its instructions in stream order; Succs the addresses of blocks
// control can fall into next.
type Block struct {
	Addr   int
	Instrs []int
	Succs  []int
}

// Graph maps block address to block.
type Graph map[int]*Block

// PathProvider turns raw bytecode into a block graph and enumerates the
// execution paths the binding analyzer walks. The analyzer only depends
// on this interface so tests can feed it hand-built graphs.
type PathProvider interface {
	BuildGraph(code []byte, base int, entries []int) (Graph, error)
	EnumeratePaths(g Graph, entry int) ([][]int, error)
}

// Enumerator is the default PathProvider. Scripts are finite but a
// pathological branch ladder can still blow up combinatorially, so both
// ceilings are hard errors rather than a hang.
type Enumerator struct {
	MaxPaths   int
	MaxPathLen int
}

const (
	defaultMaxPaths   = 4096
	defaultMaxPathLen = 65536
)

func NewEnumerator() *Enumerator {
	return &Enumerator{MaxPaths: defaultMaxPaths, MaxPathLen: defaultMaxPathLen}
}

// BuildGraph splits the instruction stream into basic blocks. Leaders
// are the entry addresses, branch targets, and the instruction after
// any branch or terminator.
func (e *Enumerator) BuildGraph(code []byte, base int, entries []int) (Graph, error) {
	leaders := map[int]bool{}
	for _, en := range entries {
		if en < base || en >= base+len(code) {
			return nil, fmt.Errorf("entry 0x%04X outside code [0x%04X..0x%04X)", en, base, base+len(code))
		}
		leaders[en] = true
	}

	// First scan: find leaders.
	for off := 0; off < len(code); {
		op := code[off]
		size := InstructionSize(op)
		next := off + size
		switch op {
		case OP_JMP, OP_JPF:
			target := operandU16(code, off+2)
			if target < len(code) {
				leaders[base+target] = true
			}
			if next < len(code) {
				leaders[base+next] = true
			}
		case OP_END, OP_RET:
			if next < len(code) {
				leaders[base+next] = true
			}
		}
		off = next
	}

	// Second scan: materialize blocks between leaders.
	g := Graph{}
	var addrs []int
	for a := range leaders {
		addrs = append(addrs, a)
	}
	sort.Ints(addrs)

	for i, addr := range addrs {
		end := base + len(code)
		if i+1 < len(addrs) {
			end = addrs[i+1]
		}
		b := &Block{Addr: addr}
		off := addr - base
		for off < end-base && off < len(code) {
			b.Instrs = append(b.Instrs, off)
			op := code[off]
			next := off + InstructionSize(op)
			switch op {
			case OP_JMP:
				target := operandU16(code, off+2)
				b.Succs = append(b.Succs, base+target)
			case OP_JPF:
				target := operandU16(code, off+2)
				b.Succs = append(b.Succs, base+target)
				if next < len(code) {
					b.Succs = append(b.Succs, base+next)
				}
			case OP_END, OP_RET:
				// terminus, no successors
			default:
				if next >= end-base || next >= len(code) {
					if next < len(code) {
						b.Succs = append(b.Succs, base+next)
					}
				}
				off = next
				continue
			}
			off = next
			break
		}
		g[addr] = b
	}
	return g, nil
}

// EnumeratePaths lists every acyclic block path from entry to a block
// with no (unvisited) successor. Back-edges are skipped: revisiting a
// block already on the current path would loop forever and a window
// redefined inside a loop body is already seen on the first pass.
func (e *Enumerator) EnumeratePaths(g Graph, entry int) ([][]int, error) {
	maxPaths := e.MaxPaths
	if maxPaths <= 0 {
		maxPaths = defaultMaxPaths
	}
	maxLen := e.MaxPathLen
	if maxLen <= 0 {
		maxLen = defaultMaxPathLen
	}

	var paths [][]int
	record := func(cur []int) error {
		if len(paths) >= maxPaths {
			return fmt.Errorf("more than %d paths from entry 0x%04X", maxPaths, entry)
		}
		paths = append(paths, append([]int{}, cur...))
		return nil
	}

	var walk func(addr int, cur []int, onPath map[int]bool) error
	walk = func(addr int, cur []int, onPath map[int]bool) error {
		b, ok := g[addr]
		if !ok {
			// Dangling successor: end the path before it.
			return record(cur)
		}
		if len(cur) >= maxLen {
			return fmt.Errorf("path from entry 0x%04X exceeds %d blocks", entry, maxLen)
		}
		cur = append(cur, addr)
		onPath[addr] = true
		defer delete(onPath, addr)

		progressed := false
		for _, s := range b.Succs {
			if onPath[s] {
				continue
			}
			progressed = true
			if err := walk(s, cur, onPath); err != nil {
				return err
			}
		}
		if !progressed {
			return record(cur)
		}
		return nil
	}

	if err := walk(entry, nil, map[int]bool{}); err != nil {
		return nil, err
	}
	return paths, nil
}
