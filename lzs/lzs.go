// Package lzs implements the LZSS variant the game uses for archived
// files: 4 KiB sliding dictionary, initial write position 0xFEE,
// LSB-first control bytes, matches of 3 to 18 bytes.
package lzs

import "fmt"

const (
	dictSize       = 4096
	maxMatchLength = 18 // 0x0F + 3
	minMatchLength = 3
	initialDictPos = 0xFEE
)

// Decompress expands data to exactly size bytes. The caller supplies
// size from the container header; running out of input first is an
// error.
func Decompress(data []byte, size uint32) ([]byte, error) {
	dict := make([]byte, dictSize)
	dictPos := initialDictPos
	srcPos := 0
	out := make([]byte, 0, size)

	for len(out) < int(size) {
		if srcPos >= len(data) {
			return nil, fmt.Errorf("compressed data ended at %d of %d bytes", len(out), size)
		}
		control := data[srcPos]
		srcPos++

		for i := 0; i < 8 && len(out) < int(size); i++ {
			if (control>>i)&1 == 1 {
				// Literal byte.
				if srcPos >= len(data) {
					return nil, fmt.Errorf("compressed data ended inside a literal")
				}
				b := data[srcPos]
				srcPos++
				out = append(out, b)
				dict[dictPos] = b
				dictPos = (dictPos + 1) & (dictSize - 1)
			} else {
				// Offset/length pair.
				if srcPos+1 >= len(data) {
					return nil, fmt.Errorf("compressed data ended inside a match pair")
				}
				b1, b2 := data[srcPos], data[srcPos+1]
				srcPos += 2
				offset := int(b1) | (int(b2&0xF0) << 4)
				length := int(b2&0x0F) + minMatchLength
				for j := 0; j < length && len(out) < int(size); j++ {
					b := dict[(offset+j)&(dictSize-1)]
					out = append(out, b)
					dict[dictPos] = b
					dictPos = (dictPos + 1) & (dictSize - 1)
				}
			}
		}
	}
	return out, nil
}

// findLongestMatch searches the dictionary for the longest run
// matching the input at srcPos. The decoder overwrites one dictionary
// slot per byte it copies, starting at dictPos, so a candidate stops
// before any slot this match would have rewritten by the time the
// decoder reads it: the byte compared here would no longer be the byte
// read back.
func findLongestMatch(data []byte, srcPos int, dict []byte, dictPos int) (bestOffset, bestLength int) {
	limit := srcPos + maxMatchLength
	if limit > len(data) {
		limit = len(data)
	}
	for cand := 0; cand < dictSize; cand++ {
		length := 0
		for i := 0; i < limit-srcPos; i++ {
			slot := (cand + i) & (dictSize - 1)
			if (slot-dictPos)&(dictSize-1) < i {
				break
			}
			if dict[slot] != data[srcPos+i] {
				break
			}
			length++
		}
		if length > bestLength {
			bestLength = length
			bestOffset = cand
		}
	}
	return
}

// Compress produces a stream Decompress inverts. Output is not
// guaranteed smaller than the input; callers decide whether to keep it.
func Compress(data []byte) []byte {
	dict := make([]byte, dictSize)
	dictPos := initialDictPos
	srcPos := 0
	out := make([]byte, 0, len(data)/2)

	for srcPos < len(data) {
		var control byte
		chunk := make([]byte, 0, 16)

		for i := 0; i < 8 && srcPos < len(data); i++ {
			offset, length := findLongestMatch(data, srcPos, dict, dictPos)
			if length >= minMatchLength {
				chunk = append(chunk,
					byte(offset&0xFF),
					byte(((offset>>4)&0xF0)|(length-minMatchLength)))
				for j := 0; j < length; j++ {
					dict[dictPos] = data[srcPos+j]
					dictPos = (dictPos + 1) & (dictSize - 1)
				}
				srcPos += length
			} else {
				control |= 1 << i
				b := data[srcPos]
				chunk = append(chunk, b)
				dict[dictPos] = b
				dictPos = (dictPos + 1) & (dictSize - 1)
				srcPos++
			}
		}
		out = append(out, control)
		out = append(out, chunk...)
	}
	return out
}
