package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	fileMode = 0o644

	outputSuffix  = ".rendered.md"
	defaultPrefix = "diagram"
	defaultFormat = "png"
)

var bom = []byte("\xef\xbb\xbf")

type options struct {
	renderer string
	format   string
	out      string
	prefix   string
	dir      string
	command  string
	config   string
	timeout  time.Duration
	verbose  bool
	quiet    bool
}

func prefixFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.prefix, "prefix", "p", defaultPrefix, "file name prefix of generated artifacts")
}

func configFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.config, "config", "", "configuration file (default: nearest "+configName+")")
}

// loadOptions merges the configuration file into opts. An explicit --config must
// exist; otherwise the nearest file above the document is used when present.
func loadOptions(cmd *cobra.Command, opts *options, document string) error {
	path := opts.config

	if len(path) == 0 {
		found, ok, err := findConfig(filepath.Dir(document))
		if err != nil || !ok {
			return err
		}

		path = found
	}

	loggerFromContext(cmd.Context()).Debug("using configuration", "path", path)

	return applyConfig(cmd, opts, path)
}

// readDocument reads the input document, dropping a leading byte order mark.
func readDocument(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return bytes.TrimPrefix(src, bom), nil
}

// outputPath replaces the extension of the input document.
func outputPath(document string) string {
	return strings.TrimSuffix(document, filepath.Ext(document)) + outputSuffix
}

// linkPath returns the slash-separated path from the directory of the output
// document to the artifact directory, empty when they are the same.
func linkPath(output, dir string) string {
	from, err := filepath.Abs(filepath.Dir(output))
	if err != nil {
		return filepath.ToSlash(dir)
	}

	to, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(dir)
	}

	rel, err := filepath.Rel(from, to)
	if err != nil {
		return filepath.ToSlash(to)
	}

	if rel == "." {
		return ""
	}

	return filepath.ToSlash(rel)
}
