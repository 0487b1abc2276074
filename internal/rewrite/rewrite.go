// Package rewrite renders the diagrams of a document and substitutes image
// references for them.
//
// Snippets are processed in document order, one diagram at a time. A snippet is
// replaced only when every one of its diagrams rendered; otherwise its original
// text is kept and the run moves on to the next snippet.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ezerfernandes/mdplantuml/internal/diagram"
	"github.com/ezerfernandes/mdplantuml/internal/render"
)

const sourceExt = ".puml"

// Options control naming and linking of the produced artifacts.
type Options struct {
	// Prefix starts every artifact name.
	Prefix string
	// Format selects the image format.
	Format render.Format
	// Link is the slash-separated path from the output document to the storage
	// root. Empty when both live in the same directory.
	Link string
}

// Rewriter holds the state of one run. It is not safe for concurrent use.
type Rewriter struct {
	storage  render.Storage
	renderer render.Renderer
	opts     Options
	logger   *log.Logger
	counter  int
}

// New returns a rewriter whose first diagram is numbered 1.
func New(storage render.Storage, renderer render.Renderer, opts Options, logger *log.Logger) *Rewriter {
	if logger == nil {
		logger = log.Default()
	}

	return &Rewriter{
		storage:  storage,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
		counter:  1,
	}
}

// Result is the rewritten document along with the outcome of every snippet.
type Result struct {
	Output   []byte
	Outcomes []Outcome
}

// Images returns the images referenced by the output.
func (r *Result) Images() []Image {
	var images []Image

	for _, o := range r.Outcomes {
		if c, ok := o.(Completed); ok {
			images = append(images, c.Images...)
		}
	}

	return images
}

// Orphans returns the images rendered for snippets that were reverted.
func (r *Result) Orphans() []Image {
	var images []Image

	for _, o := range r.Outcomes {
		if rv, ok := o.(Reverted); ok {
			images = append(images, rv.Rendered...)
		}
	}

	return images
}

// Rewrite renders every snippet of source and returns the rewritten document.
// Snippets must be sorted and must not overlap, as returned by [diagram.Build].
func (r *Rewriter) Rewrite(ctx context.Context, source []byte, snippets []diagram.Snippet) *Result {
	outcomes := make([]Outcome, len(snippets))
	for i, snippet := range snippets {
		outcomes[i] = r.Snippet(ctx, snippet)
	}

	return &Result{Output: Apply(source, outcomes, r.opts.Link), Outcomes: outcomes}
}

// Snippet renders the diagrams of one snippet in order, stopping at the first failure.
func (r *Rewriter) Snippet(ctx context.Context, snippet diagram.Snippet) Outcome {
	images := make([]Image, 0, len(snippet.Diagrams))

	for _, d := range snippet.Diagrams {
		img, err := r.diagram(ctx, d)
		if err != nil {
			return Reverted{Snippet: snippet, Reason: err, Rendered: images}
		}

		images = append(images, img)
	}

	return Completed{Snippet: snippet, Images: images}
}

func (r *Rewriter) diagram(ctx context.Context, d diagram.Diagram) (Image, error) {
	name := diagram.Name(d, r.counter, r.opts.Prefix)
	r.counter++

	img := Image{
		Name:   name,
		Source: name + sourceExt,
		File:   name + "." + string(r.opts.Format),
		Alt:    d.Title(),
	}

	if len(img.Alt) == 0 {
		img.Alt = name
	}

	if err := render.WriteSource(r.storage, img.Source, []byte(d)); err != nil {
		r.logger.Error("cannot write diagram source", "source", img.Source, "err", err)

		return img, fmt.Errorf("%w %s: %w", ErrWriteSource, img.Source, err)
	}

	output, err := r.renderer.Render(ctx, img.Source, r.opts.Format)
	if err != nil {
		r.logger.Error("render failed", "source", img.Source, "err", err, "output", output)

		return img, fmt.Errorf("%w %s: %w", ErrRender, img.Source, err)
	}

	exists, err := render.Exists(r.storage, img.File)
	if err != nil || !exists {
		r.logger.Error("render produced no image", "source", img.Source, "image", img.File, "output", output)

		return img, fmt.Errorf("%w: %s", ErrMissingImage, img.File)
	}

	r.logger.Info("rendered", "source", img.Source, "image", img.File)

	return img, nil
}

// Target returns the link to img from a document, given the link to the
// storage root.
func Target(img Image, link string) string {
	return path.Join(link, img.File)
}

var (
	altEscaper  = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)
	destEscaper = strings.NewReplacer(`\`, `\\`, "<", `\<`, ">", `\>`)
)

// Reference returns the Markdown image reference for img. Destinations holding
// blanks or parentheses are written between angle brackets.
func Reference(img Image, link string) string {
	dest := Target(img, link)
	if strings.ContainsAny(dest, " \t()<>\\") {
		dest = "<" + destEscaper.Replace(dest) + ">"
	}

	return "![" + altEscaper.Replace(img.Alt) + "](" + dest + ")\n"
}

// Apply splices outcomes into source. Completed snippets are replaced by their
// image references, reverted snippets keep their original text.
func Apply(source []byte, outcomes []Outcome, link string) []byte {
	var (
		b      strings.Builder
		srcIdx int
	)

	b.Grow(len(source))

	for _, o := range outcomes {
		start, end := o.span()

		b.Write(source[srcIdx:start])

		switch o := o.(type) {
		case Completed:
			for _, img := range o.Images {
				b.WriteString(Reference(img, link))
			}
		case Reverted:
			b.Write(source[start:end])
		}

		srcIdx = end
	}

	b.Write(source[srcIdx:])

	return []byte(b.String())
}

var (
	// ErrWriteSource reverts a snippet whose diagram source could not be stored.
	ErrWriteSource = errors.New("cannot write diagram source")
	// ErrRender reverts a snippet whose renderer failed.
	ErrRender = errors.New("cannot render diagram")
	// ErrMissingImage reverts a snippet whose renderer left no image behind.
	ErrMissingImage = errors.New("rendered image missing")
)
