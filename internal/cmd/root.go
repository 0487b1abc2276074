// Package cmd implements the command line interface of mdplantuml.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var version = "dev"

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := new(options)

	root := &cobra.Command{ //nolint:exhaustruct
		Use:           "mdplantuml",
		Short:         "Render PlantUML diagrams embedded in Markdown documents",
		Long:          "mdplantuml renders the PlantUML diagrams of a Markdown document to images and replaces each diagram by a reference to its image.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := newLogger(stderr, logLevel(opts.verbose, opts.quiet))
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},

		DisableAutoGenTag: true,
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only log warnings and errors")

	root.AddCommand(renderCmd(opts), listCmd(opts))

	return root
}

// Execute runs the command line and returns the process exit status.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := rootCmd(stdout, stderr)
	root.SetArgs(args)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)

		return 1
	}

	return 0
}
