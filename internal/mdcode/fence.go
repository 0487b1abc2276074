// Package mdcode locates fenced blocks and rendered images in Markdown text.
//
// Fences are found with a line-oriented scanner rather than a full Markdown
// parser, so the reported spans are exact byte offsets into the source and a
// document that is not valid CommonMark still yields every well-formed fence.
package mdcode

import (
	"bytes"
	"regexp"
)

const (
	fenceBacktick = "```"
	fenceTilde    = "~~~"
)

var (
	reOpening = regexp.MustCompile("(?m)^[ \\t]*(" + fenceBacktick + "|" + fenceTilde + ")[ \\t]*([^\\n]*)\\n")
	reClosing = map[string]*regexp.Regexp{
		fenceBacktick: closing(fenceBacktick),
		fenceTilde:    closing(fenceTilde),
	}
)

// closing builds the closing line pattern for one fence symbol. A closing line
// holds nothing but the symbol and surrounding blanks.
func closing(symbol string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(symbol) + `[ \t]*\r?(?:\n|\z)`)
}

// Fence is a fenced block found by [FenceScanner].
type Fence struct {
	// Start and End delimit the whole fence, marker lines included.
	Start int
	End   int
	// Symbol is the three-character fence marker.
	Symbol string
	// Info is the trimmed text following the opening marker.
	Info string
	// Body is the text between the marker lines.
	Body []byte
	// BodyStart is the offset of Body within the source.
	BodyStart int
}

// Lang returns the first word of the info string.
func (f *Fence) Lang() string {
	lang, _, _ := parseInfo([]byte(f.Info))

	return lang
}

// Meta returns the options following the language word of the info string.
func (f *Fence) Meta() (Meta, error) {
	_, meta, err := parseInfo([]byte(f.Info))

	return meta, err
}

// FenceScanner walks a document fence by fence, in document order.
// The first valid closing line after an opening line ends the fence. An opening
// line with no closing line of the same symbol is ordinary text and scanning
// resumes on the following line.
type FenceScanner struct {
	source []byte
	pos    int
	fence  *Fence
}

// NewFenceScanner returns a scanner positioned at the start of source.
func NewFenceScanner(source []byte) *FenceScanner {
	return &FenceScanner{source: source}
}

// Scan advances to the next fence. It returns false once the source is exhausted.
func (s *FenceScanner) Scan() bool {
	s.fence = nil

	for s.pos < len(s.source) {
		loc := reOpening.FindSubmatchIndex(s.source[s.pos:])
		if loc == nil {
			s.pos = len(s.source)

			return false
		}

		start := s.pos + loc[0]
		bodyStart := s.pos + loc[1]
		symbol := string(s.source[s.pos+loc[2] : s.pos+loc[3]])
		info := s.source[s.pos+loc[4] : s.pos+loc[5]]

		end := reClosing[symbol].FindIndex(s.source[bodyStart:])
		if end == nil {
			s.pos = bodyStart

			continue
		}

		s.fence = &Fence{
			Start:     start,
			End:       bodyStart + end[1],
			Symbol:    symbol,
			Info:      string(bytes.TrimSpace(info)),
			Body:      s.source[bodyStart : bodyStart+end[0]],
			BodyStart: bodyStart,
		}
		s.pos = s.fence.End

		return true
	}

	return false
}

// Fence returns the fence found by the last successful call to [FenceScanner.Scan].
func (s *FenceScanner) Fence() *Fence {
	return s.fence
}

// Fences returns every fence of source in document order.
func Fences(source []byte) []*Fence {
	var fences []*Fence

	scanner := NewFenceScanner(source)
	for scanner.Scan() {
		fences = append(fences, scanner.Fence())
	}

	return fences
}
