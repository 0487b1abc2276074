package cmd

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ezerfernandes/mdplantuml/internal/diagram"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] filename",
		Aliases: []string{"ls"},
		Short:   "List the diagrams a render would replace",
		Long:    listHelp,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readDocument(args[0])
			if err != nil {
				return err
			}

			if err := loadOptions(cmd, opts, args[0]); err != nil {
				return err
			}

			snippets, err := diagram.Build(src)
			if err != nil {
				return err
			}

			if len(snippets) == 0 {
				loggerFromContext(cmd.Context()).Info("no diagrams found")

				return nil
			}

			return listRun(cmd, src, snippets, opts.prefix)
		},

		DisableAutoGenTag: true,
	}

	prefixFlag(cmd, opts)
	configFlag(cmd, opts)

	return cmd
}

// listRun prints one row per diagram, named as a render where every diagram
// succeeds would name it.
func listRun(cmd *cobra.Command, src []byte, snippets []diagram.Snippet, prefix string) error {
	logger := loggerFromContext(cmd.Context())
	tbl := table.New("Snippet", "Lines", "Kind", "Lang", "Options", "Name").WithWriter(cmd.OutOrStdout())
	counter := 1

	for i, snippet := range snippets {
		kind, lang, options := "bare", "", ""

		if fence := snippet.Fence; fence != nil {
			kind, lang = "fence", fence.Lang()

			if meta, err := fence.Meta(); err != nil {
				logger.Warn("cannot parse fence options", "snippet", i+1, "info", fence.Info, "err", err)

				options = strings.TrimSpace(strings.TrimPrefix(fence.Info, lang))
			} else {
				options = meta.String()
			}
		}

		lines := fmt.Sprintf("%d-%d", lineAt(src, snippet.Start), lineAt(src, snippet.End-1))

		for _, d := range snippet.Diagrams {
			tbl.AddRow(i+1, lines, kind, lang, options, diagram.Name(d, counter, prefix))
			counter++
		}
	}

	tbl.Print()

	return nil
}

// lineAt returns the 1-based line holding offset.
func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return strings.Count(string(source[:offset]), "\n") + 1
}
