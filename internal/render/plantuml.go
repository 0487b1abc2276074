package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Format is the image format produced by the renderer.
type Format string

const (
	// PNG selects raster images.
	PNG Format = "png"
	// SVG selects vector images.
	SVG Format = "svg"
)

// ParseFormat validates an image format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case PNG, SVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrFormat, name, PNG, SVG)
	}
}

// DefaultCommand runs plantuml.jar on a single source file. The renderer writes
// the image next to the source, with the extension replaced by the format.
const DefaultCommand = `java -Djava.awt.headless=true -jar "$PLANTUML_JAR" "-t$FORMAT" "$SOURCE"`

// Renderer turns a stored diagram source into an image stored beside it.
// The returned text is the renderer's diagnostic output, meant for humans.
type Renderer interface {
	Render(ctx context.Context, source string, format Format) (string, error)
}

// PlantUML runs a shell command through an embedded interpreter. The command
// sees PLANTUML_JAR, FORMAT and SOURCE in its environment and runs in Dir.
type PlantUML struct {
	Jar     string
	Dir     string
	Command string
	Timeout time.Duration
}

// Check verifies that the configured jar exists.
func (p *PlantUML) Check() error {
	if len(p.Jar) == 0 {
		return ErrNoJar
	}

	info, err := os.Stat(p.Jar)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoJar, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNoJar, p.Jar)
	}

	return nil
}

// Render runs the command for one source. A non-zero exit status is reported
// as an error wrapping [ErrExit].
func (p *PlantUML) Render(ctx context.Context, source string, format Format) (string, error) {
	command := p.Command
	if len(command) == 0 {
		command = DefaultCommand
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return "", fmt.Errorf("parse render command: %w", err)
	}

	env := append(os.Environ(),
		"PLANTUML_JAR="+p.Jar,
		"FORMAT="+string(format),
		"SOURCE="+source,
	)

	var out bytes.Buffer

	runner, err := interp.New(
		interp.Dir(p.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &out, &out),
	)
	if err != nil {
		return "", err
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	err = runner.Run(ctx, file)
	output := strings.TrimSpace(out.String())

	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return output, fmt.Errorf("%w %d", ErrExit, status)
		}

		return output, err
	}

	return output, nil
}

var (
	// ErrExit is wrapped by the error of a render command exiting non-zero.
	ErrExit = errors.New("render command exited with status")
	// ErrNoJar is returned by [PlantUML.Check] when the jar cannot be used.
	ErrNoJar = errors.New("plantuml.jar not found")
	// ErrFormat is returned by [ParseFormat] for unsupported formats.
	ErrFormat = errors.New("unsupported image format")
)
