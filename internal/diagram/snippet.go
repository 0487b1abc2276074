package diagram

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ezerfernandes/mdplantuml/internal/mdcode"
	"github.com/gobwas/glob"
)

// Languages whose fences hold diagram statements even without markers.
var diagramLangs = []glob.Glob{
	glob.MustCompile("plantuml*"),
	glob.MustCompile("uml*"),
}

// IsDiagramLang reports whether a fence info string names diagram source.
func IsDiagramLang(info string) bool {
	info = strings.ToLower(strings.TrimSpace(info))

	for _, g := range diagramLangs {
		if g.Match(info) {
			return true
		}
	}

	return false
}

// Snippet is a span of the document replaced wholesale by the images of its
// diagrams.
type Snippet struct {
	Start    int
	End      int
	Diagrams []Diagram
	// Fence is the enclosing fence, nil for a bare diagram.
	Fence *mdcode.Fence
}

// Build returns the snippets of source sorted by start offset. Fences are
// searched first and claim their whole span; a bare diagram overlapping a
// claimed span is dropped. An empty result means nothing is to be rendered.
func Build(source []byte) ([]Snippet, error) {
	snippets, coverage := fencePass(source)
	snippets = append(snippets, barePass(source, coverage)...)

	sort.SliceStable(snippets, func(i, j int) bool { return snippets[i].Start < snippets[j].Start })

	for i := range snippets {
		if snippets[i].Start >= snippets[i].End {
			return nil, fmt.Errorf("%w: empty snippet at %d", ErrOverlap, snippets[i].Start)
		}

		if i > 0 && snippets[i-1].End > snippets[i].Start {
			return nil, fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlap,
				snippets[i-1].Start, snippets[i-1].End, snippets[i].Start, snippets[i].End)
		}
	}

	return snippets, nil
}

func fencePass(source []byte) ([]Snippet, *Coverage) {
	var snippets []Snippet

	coverage := new(Coverage)
	scanner := mdcode.NewFenceScanner(source)

	for scanner.Scan() {
		fence := scanner.Fence()
		coverage.Claim(fence.Start, fence.End)

		if diagrams := fenceDiagrams(fence); len(diagrams) != 0 {
			snippets = append(snippets, Snippet{Start: fence.Start, End: fence.End, Diagrams: diagrams, Fence: fence})
		}
	}

	return snippets, coverage
}

// fenceDiagrams returns the diagrams delimited inside the fence body. Without
// any, a fence tagged as diagram source is wrapped whole, unless its body holds
// a stray marker.
func fenceDiagrams(fence *mdcode.Fence) []Diagram {
	if matches := Extract(fence.Body, fence.BodyStart); len(matches) != 0 {
		diagrams := make([]Diagram, len(matches))
		for i, m := range matches {
			diagrams[i] = m.Diagram
		}

		return diagrams
	}

	if !IsDiagramLang(fence.Info) || len(strings.TrimSpace(string(fence.Body))) == 0 || HasMarker(fence.Body) {
		return nil
	}

	return []Diagram{Wrap(fence.Body)}
}

func barePass(source []byte, coverage *Coverage) []Snippet {
	var snippets []Snippet

	for _, m := range Extract(source, 0) {
		if coverage.Overlaps(m.Start, m.End) {
			continue
		}

		snippets = append(snippets, Snippet{Start: m.Start, End: m.End, Diagrams: []Diagram{m.Diagram}})
	}

	return snippets
}

// ErrOverlap is returned by [Build] when two snippets would share a span.
var ErrOverlap = errors.New("overlapping snippets")
