package gametext

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Metrics is one font's glyph width table. Widths are pixels per rune;
// runes missing from the table use Default. Satisfies the scenario
// package's Measurer.
type Metrics struct {
	LineHeight int
	Default    int
	Widths     map[rune]int
}

func DefaultMetrics() *Metrics {
	return &Metrics{LineHeight: 16, Default: 12, Widths: map[rune]int{}}
}

// LoadMetrics reads a width table exported by the font tooling:
//
//	{"line_height":16,"default":12,"widths":{"A":6,"あ":12}}
func LoadMetrics(path string) (*Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: not valid JSON", path)
	}
	root := gjson.ParseBytes(data)
	m := DefaultMetrics()
	if v := root.Get("line_height"); v.Exists() {
		m.LineHeight = int(v.Int())
	}
	if v := root.Get("default"); v.Exists() {
		m.Default = int(v.Int())
	}
	root.Get("widths").ForEach(func(k, v gjson.Result) bool {
		if r := []rune(k.String()); len(r) == 1 {
			m.Widths[r[0]] = int(v.Int())
		}
		return true
	})
	return m, nil
}

// TextExtent reports the rendered pixel size of a string: the widest
// line and the line count times line height. Control markers occupy no
// pixels.
func (m *Metrics) TextExtent(s string) (int, int) {
	lines := strings.Split(s, "\n")
	maxW := 0
	for _, line := range lines {
		line = strings.ReplaceAll(line, MarkChoice, "")
		line = strings.ReplaceAll(line, MarkNew, "")
		w := 0
		for _, r := range line {
			if wd, ok := m.Widths[r]; ok {
				w += wd
			} else {
				w += m.Default
			}
		}
		if w > maxW {
			maxW = w
		}
	}
	return maxW, len(lines) * m.LineHeight
}
