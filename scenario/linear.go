package scenario

// AnalyzeLinear is the single-pass variant used for map scripts, whose
// window use never depends on branching. Instead of 4 slots it tracks
// the most recent PUSHI,PUSHI,WINDOW sequence: the two pushes directly
// before WINDOW carry width and height, and with four consecutive
// pushes the first two carry x and y. WSPCL/WREST do not occur in this
// dialect.
func (a *Analysis) AnalyzeLinear() {
	last := -1                  // offset of the last WINDOW instruction
	lastPatch := windowPatch{}  // immediates of its push arguments
	var pushes []int            // offsets of the current PUSHI run

	for off := 0; off < len(a.code); {
		op := a.code[off]
		switch op {
		case OP_PUSHI:
			pushes = append(pushes, off)
		case OP_WINDOW:
			if n := len(pushes); n >= 2 {
				last = off
				lastPatch = windowPatch{xOff: -1, yOff: -1,
					wOff: pushes[n-2] + 2, hOff: pushes[n-1] + 2}
				if n >= 4 {
					lastPatch.xOff = pushes[n-4] + 2
					lastPatch.yOff = pushes[n-3] + 2
				}
			}
			pushes = nil
		case OP_MES, OP_ASK:
			sid := operandU16(a.code, off+2)
			if op == OP_ASK {
				if a.askRefs[sid] == nil {
					a.askRefs[sid] = map[int]bool{}
				}
				a.askRefs[sid][off] = true
			}
			if last < 0 {
				if !a.warnedUnbound[off] {
					a.warnedUnbound[off] = true
					a.warn(WarnUnbound, sid, off, "no window opened before display")
				}
			} else {
				a.bind(last, lastPatch, sid)
			}
			pushes = nil
		case OP_MPNAM:
			a.mapNames[operandU16(a.code, off+2)] = true
			pushes = nil
		default:
			pushes = nil
		}
		off += InstructionSize(op)
	}
}
