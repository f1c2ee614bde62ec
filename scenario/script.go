package scenario

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// StringCodec converts between the game's code-page bytes and UTF-8
// with the toolkit's text markers.
type StringCodec interface {
	Encode(s string) ([]byte, error)
	Decode(b []byte) (string, error)
}

const (
	evbMagic      = "EVB\x00"
	evbHeaderSize = 0x28
)

// Script kinds. Map scripts use the linear window dialect.
const (
	KindEvent uint16 = 0
	KindMap   uint16 = 1
)

// Entry is one scripted entry point: the actor it belongs to and its
// code-relative address. Several actors may share an address.
type Entry struct {
	Actor uint16
	Addr  uint16
}

// Script is one parsed EVB event file.
type Script struct {
	Name    string
	Version uint16
	Kind    uint16
	Code    []byte
	Entries []Entry
	Strings []string
}

// ParseScript decodes an EVB file. Any structural problem here is
// fatal: nothing downstream can reason about a broken container.
func ParseScript(data []byte, codec StringCodec) (*Script, error) {
	if len(data) < evbHeaderSize {
		return nil, fmt.Errorf("EVB too small (%d bytes)", len(data))
	}
	if string(data[:4]) != evbMagic {
		return nil, fmt.Errorf("bad EVB magic % X", data[:4])
	}
	sc := &Script{
		Version: binary.LittleEndian.Uint16(data[0x04:]),
		Kind:    binary.LittleEndian.Uint16(data[0x06:]),
		Name:    strings.TrimRight(string(data[0x08:0x10]), "\x00"),
	}

	codeOff := int(binary.LittleEndian.Uint32(data[0x10:]))
	codeSize := int(binary.LittleEndian.Uint32(data[0x14:]))
	entryOff := int(binary.LittleEndian.Uint32(data[0x18:]))
	entryCount := int(binary.LittleEndian.Uint32(data[0x1C:]))
	strOff := int(binary.LittleEndian.Uint32(data[0x20:]))
	strCount := int(binary.LittleEndian.Uint32(data[0x24:]))

	if codeOff < 0 || codeSize < 0 || codeOff+codeSize > len(data) {
		return nil, fmt.Errorf("code section [0x%X+0x%X] outside file", codeOff, codeSize)
	}
	if entryOff < 0 || entryOff+entryCount*4 > len(data) {
		return nil, fmt.Errorf("entry table [0x%X, %d entries] outside file", entryOff, entryCount)
	}
	if strOff < 0 || strOff+strCount*4 > len(data) {
		return nil, fmt.Errorf("string table [0x%X, %d strings] outside file", strOff, strCount)
	}

	sc.Code = append([]byte{}, data[codeOff:codeOff+codeSize]...)

	for i := 0; i < entryCount; i++ {
		off := entryOff + i*4
		e := Entry{
			Actor: binary.LittleEndian.Uint16(data[off:]),
			Addr:  binary.LittleEndian.Uint16(data[off+2:]),
		}
		if int(e.Addr) >= codeSize {
			return nil, fmt.Errorf("entry %d: address 0x%04X outside code", i, e.Addr)
		}
		sc.Entries = append(sc.Entries, e)
	}

	for i := 0; i < strCount; i++ {
		rel := int(binary.LittleEndian.Uint32(data[strOff+i*4:]))
		start := strOff + rel
		if start < 0 || start >= len(data) {
			return nil, fmt.Errorf("string %d: offset 0x%X outside file", i, rel)
		}
		end := bytes.IndexByte(data[start:], 0)
		if end < 0 {
			return nil, fmt.Errorf("string %d: unterminated", i)
		}
		s, err := codec.Decode(data[start : start+end])
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		sc.Strings = append(sc.Strings, s)
	}
	return sc, nil
}

// Build serializes the script back to EVB bytes. The string section is
// rebuilt from scratch (translations change every offset); the code
// section is written as-is, window operands already patched in place.
func (sc *Script) Build(codec StringCodec) ([]byte, error) {
	var encoded [][]byte
	for i, s := range sc.Strings {
		b, err := codec.Encode(s)
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		encoded = append(encoded, b)
	}

	codeOff := evbHeaderSize
	entryOff := codeOff + len(sc.Code)
	strOff := entryOff + len(sc.Entries)*4

	out := make([]byte, strOff+len(encoded)*4)
	copy(out[:4], evbMagic)
	binary.LittleEndian.PutUint16(out[0x04:], sc.Version)
	binary.LittleEndian.PutUint16(out[0x06:], sc.Kind)
	copy(out[0x08:0x10], sc.Name)
	binary.LittleEndian.PutUint32(out[0x10:], uint32(codeOff))
	binary.LittleEndian.PutUint32(out[0x14:], uint32(len(sc.Code)))
	binary.LittleEndian.PutUint32(out[0x18:], uint32(entryOff))
	binary.LittleEndian.PutUint32(out[0x1C:], uint32(len(sc.Entries)))
	binary.LittleEndian.PutUint32(out[0x20:], uint32(strOff))
	binary.LittleEndian.PutUint32(out[0x24:], uint32(len(encoded)))

	copy(out[codeOff:], sc.Code)
	for i, e := range sc.Entries {
		binary.LittleEndian.PutUint16(out[entryOff+i*4:], e.Actor)
		binary.LittleEndian.PutUint16(out[entryOff+i*4+2:], e.Addr)
	}

	rel := len(encoded) * 4
	for i, b := range encoded {
		binary.LittleEndian.PutUint32(out[strOff+i*4:], uint32(rel))
		out = append(out, b...)
		out = append(out, 0)
		rel += len(b) + 1
	}
	return out, nil
}

// EntryAddrs returns the entry addresses in table order. Duplicates
// from shared actor entries are kept; the analyzer dedups by visited
// set.
func (sc *Script) EntryAddrs() []int {
	addrs := make([]int, 0, len(sc.Entries))
	for _, e := range sc.Entries {
		addrs = append(addrs, int(e.Addr))
	}
	return addrs
}
