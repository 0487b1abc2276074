// Package diagram finds PlantUML diagrams in a Markdown document and groups
// them into snippets, the spans of the document that get replaced by images.
package diagram

import (
	"regexp"
	"strings"
)

// Marker keywords delimiting a diagram. They are compared case-insensitively.
const (
	StartMarker = "@startuml"
	EndMarker   = "@enduml"
)

var (
	// reDiagram matches from a start marker, through the end of its line, up to
	// the first end marker that follows. Markers do not nest.
	reDiagram = regexp.MustCompile(`(?is)` + StartMarker + `[^\n]*\n.*?` + EndMarker)
	reMarker  = regexp.MustCompile(`(?i)` + StartMarker + `|` + EndMarker)
	reTitle   = regexp.MustCompile(`(?i)` + StartMarker + `([^\r\n]*)`)
)

// Diagram is the source of one diagram, markers included.
type Diagram string

// Title returns the text following the start marker on its line, or an empty
// string when the marker stands alone.
func (d Diagram) Title() string {
	subs := reTitle.FindStringSubmatch(string(d))
	if subs == nil {
		return ""
	}

	rest := subs[1]
	if len(rest) == 0 || (rest[0] != ' ' && rest[0] != '\t') {
		return ""
	}

	return strings.TrimSpace(rest)
}

// Wrap turns bare diagram statements into a diagram with no title.
func Wrap(body []byte) Diagram {
	return Diagram(StartMarker + "\n" + string(body) + "\n" + EndMarker + "\n")
}

// Match is a diagram found by [Extract], with its offsets in the searched text.
type Match struct {
	Start   int
	End     int
	Diagram Diagram
}

// Extract returns every diagram of source in document order. Offsets are
// shifted by base so that a caller searching a slice of a larger document gets
// offsets into that document.
func Extract(source []byte, base int) []Match {
	locs := reDiagram.FindAllIndex(source, -1)
	if len(locs) == 0 {
		return nil
	}

	matches := make([]Match, len(locs))
	for i, loc := range locs {
		matches[i] = Match{
			Start:   base + loc[0],
			End:     base + loc[1],
			Diagram: Diagram(source[loc[0]:loc[1]]),
		}
	}

	return matches
}

// HasMarker reports whether source contains a start or end marker anywhere.
func HasMarker(source []byte) bool {
	return reMarker.Match(source)
}
