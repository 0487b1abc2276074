package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/ezerfernandes/mdplantuml/internal/diagram"
	"github.com/ezerfernandes/mdplantuml/internal/mdcode"
	"github.com/ezerfernandes/mdplantuml/internal/render"
	"github.com/ezerfernandes/mdplantuml/internal/rewrite"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/render.md
var renderHelp string

func renderCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "render [flags] filename",
		Aliases: []string{"r"},
		Short:   "Render diagrams and replace them with image references",
		Long:    renderHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readDocument(args[0])
			if err != nil {
				return err
			}

			if err := loadOptions(cmd, opts, args[0]); err != nil {
				return err
			}

			return renderRun(cmd, args[0], src, opts)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&opts.renderer, "renderer", "r", "", "path to plantuml.jar")
	cmd.Flags().StringVarP(&opts.format, "format", "f", defaultFormat, "image format: png or svg")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output document (default: input with extension replaced by "+outputSuffix+")")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "directory of generated artifacts (default: directory of the input)")
	cmd.Flags().StringVar(&opts.command, "command", "", "shell command rendering $SOURCE to $FORMAT (default uses java and $PLANTUML_JAR)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "time limit of a single render, 0 for none")
	prefixFlag(cmd, opts)
	configFlag(cmd, opts)

	return cmd
}

func renderRun(cmd *cobra.Command, document string, src []byte, opts *options) error {
	logger := loggerFromContext(cmd.Context())

	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	out := opts.out
	if len(out) == 0 {
		out = outputPath(document)
	}

	snippets, err := diagram.Build(src)
	if err != nil {
		return err
	}

	if len(snippets) == 0 {
		logger.Info("no diagrams found, copying document unchanged")

		if err := os.WriteFile(out, src, fileMode); err != nil {
			return err
		}

		logger.Info("done", "output", out, "images", 0)

		return nil
	}

	jar := opts.renderer
	if len(jar) != 0 {
		// The command runs in the artifact directory, not the current one.
		if jar, err = filepath.Abs(jar); err != nil {
			return err
		}
	}

	renderer := &render.PlantUML{Jar: jar, Command: opts.command, Timeout: opts.timeout}
	if len(opts.command) == 0 {
		if err := renderer.Check(); err != nil {
			return err
		}
	}

	dir := opts.dir
	if len(dir) == 0 {
		dir = filepath.Dir(document)
	}

	renderer.Dir = dir
	link := linkPath(out, dir)

	logger.Debug("rendering", "snippets", len(snippets), "dir", dir, "format", format)

	rewriter := rewrite.New(render.NewDir(dir), renderer, rewrite.Options{
		Prefix: opts.prefix,
		Format: format,
		Link:   link,
	}, logger)

	result := rewriter.Rewrite(cmd.Context(), src, snippets)

	if err := os.WriteFile(out, result.Output, fileMode); err != nil {
		return err
	}

	images := result.Images()
	checkReferences(logger, result.Output, images, link)

	for _, img := range result.Orphans() {
		logger.Warn("image not referenced, its snippet was kept as source", "image", img.File)
	}

	if len(images) == 0 {
		logger.Warn("no image generated")
	}

	logger.Info("done", "output", out, "images", len(images))

	if !opts.quiet {
		printImages(cmd.OutOrStdout(), images)
	}

	return nil
}

// checkReferences warns about images whose reference does not parse as a
// Markdown image, such as a diagram written inside an HTML block.
func checkReferences(logger *log.Logger, output []byte, images []rewrite.Image, link string) {
	dests, err := mdcode.Images(output)
	if err != nil {
		logger.Warn("cannot parse output document", "err", err)

		return
	}

	seen := make(map[string]bool, len(dests))
	for _, d := range dests {
		seen[d] = true
	}

	for _, img := range images {
		if ref := rewrite.Target(img, link); !seen[ref] {
			logger.Warn("image reference is not rendered as an image by Markdown", "image", ref)
		}
	}
}

func printImages(w io.Writer, images []rewrite.Image) {
	if len(images) == 0 {
		return
	}

	tbl := table.New("#", "Source", "Image", "Alt").WithWriter(w)

	for i, img := range images {
		tbl.AddRow(i+1, img.Source, img.File, img.Alt)
	}

	tbl.Print()
	fmt.Fprintln(w)
}
