package rewrite

import "github.com/ezerfernandes/mdplantuml/internal/diagram"

// Image is a rendered diagram.
type Image struct {
	// Name is the base name shared by the source and the image.
	Name string
	// Source and File are the storage names of the diagram source and its image.
	Source string
	File   string
	// Alt is the alternative text of the image reference.
	Alt string
}

// Outcome is the result of rendering one snippet: either [Completed] or [Reverted].
type Outcome interface {
	span() (int, int)
}

// Completed is a snippet whose diagrams were all rendered.
type Completed struct {
	Snippet diagram.Snippet
	Images  []Image
}

func (c Completed) span() (int, int) { return c.Snippet.Start, c.Snippet.End }

// Reverted is a snippet left as it was because one of its diagrams failed.
// Rendered holds the images produced before the failure; they are not referenced.
type Reverted struct {
	Snippet  diagram.Snippet
	Reason   error
	Rendered []Image
}

func (r Reverted) span() (int, int) { return r.Snippet.Start, r.Snippet.End }
