// Package volume reads and writes the game's VOL disc archives. Entry
// data sits on 0x800-byte CD sector boundaries; entries may be stored
// raw or LZSS-compressed.
package volume

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"avgtool/lzs"
)

const (
	volMagic   = "VOL0"
	sectorSize = 0x800
	nameSize   = 12
	entrySize  = nameSize + 12
)

// Entry is one archive member. RawSize 0 means the data is stored
// uncompressed.
type Entry struct {
	Name       string
	Offset     uint32
	StoredSize uint32
	RawSize    uint32
}

// Metadata is the sidecar written next to extracted files so Pack can
// restore the original member order.
type Metadata struct {
	Files []string `json:"files"`
}

const metadataName = "_volume.json"

// List parses the archive directory.
func List(data []byte) ([]Entry, error) {
	if len(data) < 8 || string(data[:4]) != volMagic {
		return nil, fmt.Errorf("not a VOL archive")
	}
	count := int(binary.LittleEndian.Uint32(data[4:]))
	if 8+count*entrySize > len(data) {
		return nil, fmt.Errorf("directory (%d entries) exceeds file size", count)
	}
	entries := make([]Entry, 0, count)
	for i := 0; i < count; i++ {
		off := 8 + i*entrySize
		e := Entry{
			Name:       strings.TrimRight(string(data[off:off+nameSize]), "\x00"),
			Offset:     binary.LittleEndian.Uint32(data[off+nameSize:]),
			StoredSize: binary.LittleEndian.Uint32(data[off+nameSize+4:]),
			RawSize:    binary.LittleEndian.Uint32(data[off+nameSize+8:]),
		}
		if int64(e.Offset)+int64(e.StoredSize) > int64(len(data)) {
			return nil, fmt.Errorf("entry %s: data [0x%X+0x%X] outside archive", e.Name, e.Offset, e.StoredSize)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Unpack extracts every member into outDir, decompressing as needed,
// and writes the order sidecar.
func Unpack(volPath, outDir string) error {
	data, err := os.ReadFile(volPath)
	if err != nil {
		return err
	}
	entries, err := List(data)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(volPath), err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	meta := Metadata{}
	for _, e := range entries {
		raw := data[e.Offset : e.Offset+e.StoredSize]
		if e.RawSize != 0 {
			raw, err = lzs.Decompress(raw, e.RawSize)
			if err != nil {
				return fmt.Errorf("entry %s: %w", e.Name, err)
			}
		}
		if err := os.WriteFile(filepath.Join(outDir, e.Name), raw, 0644); err != nil {
			return err
		}
		meta.Files = append(meta.Files, e.Name)
		fmt.Printf("  Extracted: %-12s (%d bytes)\n", e.Name, len(raw))
	}

	js, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, metadataName), js, 0644)
}

// Pack rebuilds an archive from a directory. Member order comes from
// the sidecar when present, otherwise from sorted file names. Entries
// are compressed when that actually shrinks them.
func Pack(inDir, outVol string) error {
	names, err := memberNames(inDir)
	if err != nil {
		return err
	}

	dirSize := 8 + len(names)*entrySize
	dataOff := align(dirSize)
	out := make([]byte, dataOff)
	copy(out, volMagic)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(names)))

	for i, name := range names {
		if len(name) > nameSize {
			return fmt.Errorf("file name %q longer than %d bytes", name, nameSize)
		}
		raw, err := os.ReadFile(filepath.Join(inDir, name))
		if err != nil {
			return err
		}
		stored := raw
		rawSize := uint32(0)
		if comp := lzs.Compress(raw); len(comp) < len(raw) {
			stored = comp
			rawSize = uint32(len(raw))
		}

		off := 8 + i*entrySize
		copy(out[off:off+nameSize], name)
		binary.LittleEndian.PutUint32(out[off+nameSize:], uint32(len(out)))
		binary.LittleEndian.PutUint32(out[off+nameSize+4:], uint32(len(stored)))
		binary.LittleEndian.PutUint32(out[off+nameSize+8:], rawSize)

		out = append(out, stored...)
		out = append(out, make([]byte, align(len(out))-len(out))...)
		fmt.Printf("  Packed: %-12s (%d -> %d bytes)\n", name, len(raw), len(stored))
	}
	return os.WriteFile(outVol, out, 0644)
}

func memberNames(inDir string) ([]string, error) {
	js, err := os.ReadFile(filepath.Join(inDir, metadataName))
	if err == nil {
		var meta Metadata
		if err := json.Unmarshal(js, &meta); err != nil {
			return nil, fmt.Errorf("%s: %w", metadataName, err)
		}
		return meta.Files, nil
	}

	files, err := os.ReadDir(inDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, f := range files {
		if f.IsDir() || f.Name() == metadataName {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names, nil
}

func align(n int) int {
	return (n + sectorSize - 1) / sectorSize * sectorSize
}
