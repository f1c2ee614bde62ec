package scenario

import "encoding/binary"

// Event bytecode opcodes. Operands are little-endian and follow the
// opcode byte at fixed offsets; see instrSizes for total lengths.
const (
	OP_NOP   byte = 0x00
	OP_END   byte = 0x01
	OP_RET   byte = 0x02
	OP_JMP   byte = 0x04
	OP_JPF   byte = 0x05
	OP_CALL  byte = 0x06
	OP_PUSHI byte = 0x10

	OP_WINDOW byte = 0x30 // map dialect: x,y,w,h come from 4 prior pushes
	OP_WSIZE  byte = 0x31 // slot@+1, x@+2, y@+4, w@+6, h@+8
	OP_WSIZW  byte = 0x32 // WSIZE plus cell width u16@+10
	OP_WSPCL  byte = 0x33 // slot@+1, flag u16@+2
	OP_WREST  byte = 0x34 // slot@+1

	OP_MES   byte = 0x40 // slot@+1, string id u16@+2
	OP_ASK   byte = 0x41 // slot@+1, string id u16@+2, first u8@+4, last u8@+5
	OP_MPNAM byte = 0x42 // string id u16@+2
)

var instrSizes = map[byte]int{
	OP_NOP:    1,
	OP_END:    1,
	OP_RET:    1,
	OP_JMP:    4,
	OP_JPF:    4,
	OP_CALL:   4,
	OP_PUSHI:  4,
	OP_WINDOW: 2,
	OP_WSIZE:  10,
	OP_WSIZW:  12,
	OP_WSPCL:  4,
	OP_WREST:  2,
	OP_MES:    4,
	OP_ASK:    8,
	OP_MPNAM:  4,
}

// InstructionSize reports how many bytes one instruction occupies.
// Unknown opcodes step a single byte so a scan never stalls.
func InstructionSize(opcode byte) int {
	if n, ok := instrSizes[opcode]; ok {
		return n
	}
	return 1
}

func operandU16(code []byte, off int) int {
	if off+2 > len(code) {
		return 0
	}
	return int(binary.LittleEndian.Uint16(code[off:]))
}

func putOperandU16(code []byte, off int, v int) {
	if off < 0 || off+2 > len(code) {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 0xFFFF {
		v = 0xFFFF
	}
	binary.LittleEndian.PutUint16(code[off:], uint16(v))
}

func slotOperand(code []byte, off int) int {
	if off+1 >= len(code) {
		return 0
	}
	return int(code[off+1]) & 3
}
