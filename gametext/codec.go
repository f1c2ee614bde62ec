// Package gametext converts between the game's code-page byte strings
// and UTF-8 text with the toolkit's inline markers, and measures the
// rendered pixel size of text against a glyph width table.
package gametext

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/japanese"
)

// In-game control bytes. Everything else is code-page text.
const (
	ctrlEnd     = 0x00
	ctrlNewline = 0x0A
	ctrlChoice  = 0x0B // line starts a selectable choice
	ctrlPage    = 0x0C // line ends the current page
)

// Marker spellings used in decoded text.
const (
	MarkChoice = "{CHOICE}"
	MarkNew    = "{NEW}"
)

var posLine = regexp.MustCompile(`^\{POS [lrcmtb]+\}$`)

// Codec converts one script string at a time. Only the Shift-JIS code
// page is in use; the constructor exists so a second code page can be
// added without touching call sites.
type Codec struct{}

func NewCodec(codepage string) (*Codec, error) {
	switch strings.ToLower(codepage) {
	case "", "sjis", "shift-jis", "shift_jis":
		return &Codec{}, nil
	}
	return nil, fmt.Errorf("unsupported codepage %q", codepage)
}

// Encode turns marked-up text into game bytes, without terminator.
// {POS ...} lines are layout directives for the toolkit only and are
// never written to the game.
func (c *Codec) Encode(s string) ([]byte, error) {
	enc := japanese.ShiftJIS.NewEncoder()
	var out []byte

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !posLine.MatchString(strings.TrimSpace(line)) {
			kept = append(kept, line)
		}
	}

	for i, line := range kept {
		if strings.HasPrefix(line, MarkChoice) {
			out = append(out, ctrlChoice)
			line = line[len(MarkChoice):]
		}
		page := false
		if strings.HasSuffix(line, MarkNew) {
			page = true
			line = line[:len(line)-len(MarkNew)]
		}
		b, err := enc.String(line)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %q: %s", offendingRune(line), err)
		}
		out = append(out, b...)
		switch {
		case page:
			out = append(out, ctrlPage)
		case i+1 < len(kept):
			out = append(out, ctrlNewline)
		}
	}
	return out, nil
}

// offendingRune finds the first rune Shift-JIS cannot represent, for a
// usable error message.
func offendingRune(line string) string {
	enc := japanese.ShiftJIS.NewEncoder()
	for _, r := range line {
		if _, err := enc.String(string(r)); err != nil {
			return string(r)
		}
	}
	return line
}

// Decode reverses Encode. A terminator byte, if present, ends the
// string early.
func (c *Codec) Decode(b []byte) (string, error) {
	dec := japanese.ShiftJIS.NewDecoder()
	var sb strings.Builder
	var run []byte

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		s, err := dec.String(string(run))
		if err != nil {
			return fmt.Errorf("bad code-page bytes % X: %s", run, err)
		}
		sb.WriteString(s)
		run = run[:0]
		return nil
	}

	for i := 0; i < len(b); i++ {
		switch b[i] {
		case ctrlEnd:
			if err := flush(); err != nil {
				return "", err
			}
			return sb.String(), nil
		case ctrlNewline:
			if err := flush(); err != nil {
				return "", err
			}
			sb.WriteByte('\n')
		case ctrlChoice:
			if err := flush(); err != nil {
				return "", err
			}
			sb.WriteString(MarkChoice)
		case ctrlPage:
			if err := flush(); err != nil {
				return "", err
			}
			sb.WriteString(MarkNew)
			if i+1 < len(b) && b[i+1] != ctrlEnd {
				sb.WriteByte('\n')
			}
		default:
			run = append(run, b[i])
		}
	}
	if err := flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
