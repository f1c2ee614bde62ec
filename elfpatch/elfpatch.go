// Package elfpatch rewrites fixed-length strings inside the game
// executable. Unlike scripted dialog these have no window to re-lay-
// out: the translation simply must fit the original byte span.
package elfpatch

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type textBlock struct {
	number      string
	startOffset int
	endOffset   int
	srcText     string
	trText      string
}

// LoadTable reads a character table CSV (char,hexcode per row) used
// for executables whose font indexes are not a standard code page.
func LoadTable(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open character table: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read character table: %w", err)
	}
	table := make(map[string][]byte)
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		code, err := strconv.ParseUint(row[1], 16, 16)
		if err != nil {
			continue
		}
		if code > 0xFF {
			table[row[0]] = []byte{byte(code >> 8), byte(code)}
		} else {
			table[row[0]] = []byte{byte(code)}
		}
	}
	return table, nil
}

// loadBlocks parses the block-format translation text:
//
//	[0001]{1A2B3C,1A2B60}
//	SRC:original text
//	TR:translated text
func loadBlocks(path string) ([]textBlock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open translation file: %w", err)
	}
	defer f.Close()

	var blocks []textBlock
	var cur *textBlock
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "["):
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			rb := strings.IndexByte(line, ']')
			open := strings.IndexByte(line, '{')
			end := strings.IndexByte(line, '}')
			if rb < 0 || open < 0 || end < open {
				return nil, fmt.Errorf("malformed block header: %s", line)
			}
			offsets := strings.Split(line[open+1:end], ",")
			if len(offsets) != 2 {
				return nil, fmt.Errorf("malformed block offsets: %s", line)
			}
			start, err := strconv.ParseInt(strings.TrimSpace(offsets[0]), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("malformed block offsets: %s", line)
			}
			stop, err := strconv.ParseInt(strings.TrimSpace(offsets[1]), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("malformed block offsets: %s", line)
			}
			cur = &textBlock{
				number:      line[1:rb],
				startOffset: int(start),
				endOffset:   int(stop),
			}
		case strings.HasPrefix(line, "SRC:"):
			if cur != nil {
				cur.srcText = line[4:]
			}
		case strings.HasPrefix(line, "TR:"):
			if cur != nil {
				cur.trText = line[3:]
			}
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks, scanner.Err()
}

// Run patches every translated block into the executable in place,
// zero-padding up to the original length. Blocks that do not fit or
// contain unmapped characters are reported and skipped.
func Run(tblPath, elfPath, trPath string) error {
	table, err := LoadTable(tblPath)
	if err != nil {
		return err
	}
	blocks, err := loadBlocks(trPath)
	if err != nil {
		return err
	}

	elf, err := os.OpenFile(elfPath, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open target file: %w", err)
	}
	defer elf.Close()

	success := 0
	var failed []string
	for _, block := range blocks {
		if block.trText == "" {
			continue
		}

		var encoded []byte
		ok := true
		for _, c := range block.trText {
			b, found := table[string(c)]
			if !found {
				failed = append(failed, fmt.Sprintf("block %s: no encoding for character '%c'", block.number, c))
				ok = false
				break
			}
			encoded = append(encoded, b...)
		}
		if !ok {
			continue
		}

		origLen := block.endOffset - block.startOffset
		if len(encoded) > origLen {
			failed = append(failed, fmt.Sprintf("block %s: translation too long (%d > %d bytes)",
				block.number, len(encoded), origLen))
			continue
		}
		for len(encoded) < origLen {
			encoded = append(encoded, 0)
		}

		if _, err := elf.WriteAt(encoded, int64(block.startOffset)); err != nil {
			return fmt.Errorf("block %s: %w", block.number, err)
		}
		success++
	}

	fmt.Printf("Imported: %d  Failed: %d\n", success, len(failed))
	for _, msg := range failed {
		fmt.Println("  " + msg)
	}
	return nil
}
