package scenario

import (
	"strings"
	"testing"
)

func TestGraphSplitsAtBranch(t *testing.T) {
	code := cat(
		iNop(),   // 0
		iJpf(8),  // 1
		iNop(),   // 5: fall-through block
		iNop(),   // 6
		iRet(),   // 7
		iNop(),   // 8: taken block
		iRet(),   // 9
	)
	e := NewEnumerator()
	g, err := e.BuildGraph(code, 0, []int{0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	b0 := g[0]
	if b0 == nil || len(b0.Instrs) != 2 || len(b0.Succs) != 2 {
		t.Fatalf("entry block wrong: %+v", b0)
	}
	if g[5] == nil || g[8] == nil {
		t.Fatalf("missing leader blocks: %v", g)
	}
	if len(g[5].Succs) != 0 || len(g[8].Succs) != 0 {
		t.Fatalf("RET blocks must have no successors")
	}

	paths, err := e.EnumeratePaths(g, 0)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("want 2 paths, got %d: %v", len(paths), paths)
	}
}

// ladder builds n JPF rungs that each double the path count.
func ladder(n int) []byte {
	var code []byte
	for i := 0; i < n; i++ {
		off := len(code)
		code = append(code, iJpf(off+5)...) // jump over the NOP
		code = append(code, iNop()...)
	}
	return append(code, iRet()...)
}

func TestPathDoubling(t *testing.T) {
	g, err := NewEnumerator().BuildGraph(ladder(3), 0, []int{0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	paths, err := NewEnumerator().EnumeratePaths(g, 0)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if len(paths) != 8 {
		t.Fatalf("want 8 paths, got %d", len(paths))
	}
}

func TestPathCeilingIsHardError(t *testing.T) {
	e := &Enumerator{MaxPaths: 4, MaxPathLen: 100}
	g, err := e.BuildGraph(ladder(3), 0, []int{0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := e.EnumeratePaths(g, 0); err == nil {
		t.Fatal("want path ceiling error, got nil")
	} else if !strings.Contains(err.Error(), "more than 4 paths") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoopDoesNotHang(t *testing.T) {
	code := cat(
		iNop(),  // 0
		iJmp(0), // 1: tight loop back to the entry
	)
	e := NewEnumerator()
	g, err := e.BuildGraph(code, 0, []int{0})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	paths, err := e.EnumeratePaths(g, 0)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("want 1 path through the loop body, got %v", paths)
	}
}

func TestEntryOutsideCode(t *testing.T) {
	if _, err := NewEnumerator().BuildGraph(iRet(), 0, []int{5}); err == nil {
		t.Fatal("want error for entry outside code")
	}
}
