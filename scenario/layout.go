package scenario

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Fixed screen geometry of the target hardware.
const (
	screenWidth  = 320
	screenHeight = 240
	usableHeight = 216 // below the status strip
	maxTextWidth = 296
	borderWidth  = 16
	borderHeight = 9
	maxMapName   = 23
)

// Measurer reports the rendered pixel size of a string, line breaks
// included, window border excluded.
type Measurer interface {
	TextExtent(s string) (w, h int)
}

type hAlign int
type vAlign int

const (
	hNone hAlign = iota
	hLeft
	hCenter
	hRight
)

const (
	vNone vAlign = iota
	vTop
	vMiddle
	vBottom
)

var posMarker = regexp.MustCompile(`^\{POS ([lrcmtb]+)\}$`)

// splitPos strips a leading {POS <flags>} line and returns the
// remaining text plus the alignment it requests. The marker is one
// atomic directive: with several flags for the same axis the last one
// counts, so "{POS lc}" means centered.
func splitPos(s string) (string, hAlign, vAlign) {
	first := s
	rest := ""
	hasRest := false
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		first = s[:nl]
		rest = s[nl+1:]
		hasRest = true
	}
	m := posMarker.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		return s, hNone, vNone
	}
	h, v := hNone, vNone
	for _, c := range m[1] {
		switch c {
		case 'l':
			h = hLeft
		case 'c':
			h = hCenter
		case 'r':
			h = hRight
		case 't':
			v = vTop
		case 'm':
			v = vMiddle
		case 'b':
			v = vBottom
		}
	}
	if !hasRest {
		return "", h, v
	}
	return rest, h, v
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Layout rewrites every bound window's size (and, when a directive asks
// for it, position) from the rendered size of its strings. Windows are
// visited in instruction order and strings in id order so results never
// depend on map iteration; the size itself is a max over the set and is
// order-independent anyway.
func (a *Analysis) Layout(text func(int) string, m Measurer) {
	for _, def := range sortedKeys(a.bindings) {
		wb := a.bindings[def]
		maxW, maxH := 0, 0
		h, v := hNone, vNone
		for _, sid := range sortedKeys(wb.strings) {
			s, hf, vf := splitPos(text(sid))
			if hf != hNone {
				if h == hNone {
					h = hf
				} else if h != hf {
					a.warn(WarnAlignConflict, sid, def, "horizontal directive disagrees, keeping earlier value")
				}
			}
			if vf != vNone {
				if v == vNone {
					v = vf
				} else if v != vf {
					a.warn(WarnAlignConflict, sid, def, "vertical directive disagrees, keeping earlier value")
				}
			}
			w, ht := m.TextExtent(s)
			if w > maxW {
				maxW = w
			}
			if ht > maxH {
				maxH = ht
			}
		}
		if maxW > maxTextWidth {
			a.warn(WarnOversized, -1, def, fmt.Sprintf("text %dpx exceeds %dpx", maxW, maxTextWidth))
		}

		width := maxW + borderWidth
		height := maxH + borderHeight
		putOperandU16(a.code, wb.patch.wOff, width)
		putOperandU16(a.code, wb.patch.hOff, height)

		// Position is only touched when a directive exists.
		if h != hNone && wb.patch.xOff >= 0 {
			x := 0
			switch h {
			case hRight:
				x = screenWidth
			case hCenter:
				x = (screenWidth - width) / 2
				if x < 0 {
					x = 0
				}
			}
			putOperandU16(a.code, wb.patch.xOff, x)
		}
		if v != vNone && wb.patch.yOff >= 0 {
			y := 0
			switch v {
			case vBottom:
				y = screenHeight
			case vMiddle:
				y = (usableHeight - height) / 2
				if y < 0 {
					y = 0
				}
			}
			putOperandU16(a.code, wb.patch.yOff, y)
		}
	}
}

// CheckMapNames warns once for every registered map name that renders
// longer than the fixed map label can hold. Nothing is resized: the map
// label layout is not script-controlled.
func (a *Analysis) CheckMapNames(text func(int) string) {
	for _, sid := range sortedKeys(a.mapNames) {
		s, _, _ := splitPos(text(sid))
		if n := len([]rune(s)); n > maxMapName {
			a.warn(WarnMapName, sid, -1, fmt.Sprintf("%d characters, limit %d", n, maxMapName))
		}
	}
}
