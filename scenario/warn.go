package scenario

import "fmt"

// WarnKind classifies a non-fatal finding. Warnings never stop the
// patching pass; the caller decides what to do with them.
type WarnKind int

const (
	WarnUnbound WarnKind = iota
	WarnAlignConflict
	WarnOversized
	WarnMapName
	WarnNoChoices
	WarnChoiceGap
	WarnChoiceRange
)

func (k WarnKind) String() string {
	switch k {
	case WarnUnbound:
		return "unbound string"
	case WarnAlignConflict:
		return "alignment conflict"
	case WarnOversized:
		return "oversized window"
	case WarnMapName:
		return "map name too long"
	case WarnNoChoices:
		return "no choices defined"
	case WarnChoiceGap:
		return "choice lines not contiguous"
	case WarnChoiceRange:
		return "choice range mismatch"
	}
	return "warning"
}

// Warning is one diagnostic from the analysis/layout pass.
// Offset is the instruction offset it concerns, -1 when not applicable.
type Warning struct {
	Kind     WarnKind
	Script   string
	StringID int
	Offset   int
	Detail   string
}

func (w Warning) String() string {
	s := fmt.Sprintf("[%s] %s", w.Script, w.Kind)
	if w.StringID >= 0 {
		s += fmt.Sprintf(": string %d", w.StringID)
	}
	if w.Offset >= 0 {
		s += fmt.Sprintf(" @0x%04X", w.Offset)
	}
	if w.Detail != "" {
		s += ": " + w.Detail
	}
	return s
}
