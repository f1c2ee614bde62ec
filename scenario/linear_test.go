package scenario

import "testing"

func TestLinearWindowBinding(t *testing.T) {
	code := cat(
		iPushi(10), // 0: x
		iPushi(20), // 4: y
		iPushi(30), // 8: w
		iPushi(40), // 12: h
		iWindow(),  // 16
		iMes(0, 0), // 18
		iRet(),     // 22
	)
	a := NewAnalysis("MAP01", code)
	a.AnalyzeLinear()

	wb := a.bindings[16]
	if wb == nil || !wb.strings[0] {
		t.Fatalf("string 0 not bound to window @16: %+v", a.bindings)
	}
	if wb.patch.wOff != 10 || wb.patch.hOff != 14 || wb.patch.xOff != 2 || wb.patch.yOff != 6 {
		t.Fatalf("wrong patch targets: %+v", wb.patch)
	}

	a.Layout(textMap(map[int]string{0: "Hi"}), fixedMeasure{"Hi": {34, 16}})
	if w := operandU16(code, 10); w != 50 {
		t.Fatalf("width push = %d, want 50", w)
	}
	if h := operandU16(code, 14); h != 25 {
		t.Fatalf("height push = %d, want 25", h)
	}
	// No directive: x/y pushes keep their scripted values.
	if x, y := operandU16(code, 2), operandU16(code, 6); x != 10 || y != 20 {
		t.Fatalf("position pushes changed to (%d,%d)", x, y)
	}
}

func TestLinearPartialPushMatch(t *testing.T) {
	// Only width/height pushes directly before WINDOW: position is
	// not patchable, size still is.
	code := cat(
		iPushi(30), // 0: w
		iPushi(40), // 4: h
		iWindow(),  // 8
		iMes(0, 0), // 10
		iRet(),
	)
	a := NewAnalysis("MAP01", code)
	a.AnalyzeLinear()

	wb := a.bindings[8]
	if wb == nil {
		t.Fatalf("window not detected: %+v", a.bindings)
	}
	if wb.patch.xOff != -1 || wb.patch.yOff != -1 {
		t.Fatalf("partial match must not expose x/y: %+v", wb.patch)
	}

	a.Layout(textMap(map[int]string{0: "{POS c}\nHi"}), fixedMeasure{"Hi": {34, 16}})
	if w := operandU16(code, 2); w != 50 {
		t.Fatalf("width push = %d, want 50", w)
	}
	if h := operandU16(code, 6); h != 25 {
		t.Fatalf("height push = %d, want 25", h)
	}
}

func TestLinearUnboundWarns(t *testing.T) {
	code := cat(
		iMes(0, 3), // 0: no window opened yet
		iRet(),
	)
	a := NewAnalysis("MAP01", code)
	a.AnalyzeLinear()
	if n := countKind(a.Warnings(), WarnUnbound); n != 1 {
		t.Fatalf("want unbound warning, got %v", a.Warnings())
	}
}

func TestLinearAskAndMapName(t *testing.T) {
	code := cat(
		iMpnam(2),        // 0
		iPushi(30),       // 4
		iPushi(40),       // 8
		iWindow(),        // 12
		iAsk(0, 1, 0, 1), // 14
		iRet(),
	)
	a := NewAnalysis("MAP01", code)
	a.AnalyzeLinear()

	if !a.mapNames[2] {
		t.Fatalf("map name not registered: %+v", a.mapNames)
	}
	if refs := a.askRefs[1]; refs == nil || !refs[14] {
		t.Fatalf("ASK not recorded: %+v", a.askRefs)
	}
	if wb := a.bindings[12]; wb == nil || !wb.strings[1] {
		t.Fatalf("ASK string not bound: %+v", a.bindings)
	}
}
