package scenario

import "encoding/binary"

// Tiny assembler for test code streams.

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func u16(v int) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func iNop() []byte { return []byte{OP_NOP} }
func iRet() []byte { return []byte{OP_RET} }
func iEnd() []byte { return []byte{OP_END} }

func iJmp(target int) []byte { return cat([]byte{OP_JMP, 0}, u16(target)) }
func iJpf(target int) []byte { return cat([]byte{OP_JPF, 0}, u16(target)) }

func iPushi(v int) []byte { return cat([]byte{OP_PUSHI, 0}, u16(v)) }
func iWindow() []byte     { return []byte{OP_WINDOW, 0} }

func iWsize(slot, x, y, w, h int) []byte {
	return cat([]byte{OP_WSIZE, byte(slot)}, u16(x), u16(y), u16(w), u16(h))
}

func iWspcl(slot, flag int) []byte { return cat([]byte{OP_WSPCL, byte(slot)}, u16(flag)) }
func iWrest(slot int) []byte       { return []byte{OP_WREST, byte(slot)} }

func iMes(slot, sid int) []byte { return cat([]byte{OP_MES, byte(slot)}, u16(sid)) }

func iAsk(slot, sid, first, last int) []byte {
	return cat([]byte{OP_ASK, byte(slot)}, u16(sid), []byte{byte(first), byte(last)}, u16(0))
}

func iMpnam(sid int) []byte { return cat([]byte{OP_MPNAM, 0}, u16(sid)) }

// fixedMeasure maps exact strings to (width, height) pixel pairs.
type fixedMeasure map[string][2]int

func (m fixedMeasure) TextExtent(s string) (int, int) {
	v := m[s]
	return v[0], v[1]
}

func countKind(ws []Warning, k WarnKind) int {
	n := 0
	for _, w := range ws {
		if w.Kind == k {
			n++
		}
	}
	return n
}
