package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrToolNotFound means no usable pandoc binary was located. The parse
// cannot proceed without it; there is no degraded fallback.
var ErrToolNotFound = errors.New("document converter (pandoc) not found: install pandoc or set CONVERTER_PATH")

// probePaths is the ordered list of well-known install locations tried when
// no explicit path is configured.
var probePaths = []string{
	"pandoc",
	"/usr/local/bin/pandoc",
	"/usr/bin/pandoc",
	"/opt/homebrew/bin/pandoc",
	"/opt/local/bin/pandoc",
}

// Converter invokes a locally installed pandoc to turn a binary document
// into either a flat markdown stream or a structured block tree.
type Converter struct {
	path    string
	timeout time.Duration
}

// New resolves the converter binary. explicitPath, when non-empty, is used
// as-is and merely verified; otherwise the probe list is walked in order.
func New(explicitPath string, timeout time.Duration) (*Converter, error) {
	if explicitPath != "" {
		if _, err := exec.LookPath(explicitPath); err != nil {
			return nil, fmt.Errorf("%w (CONVERTER_PATH=%s: %v)", ErrToolNotFound, explicitPath, err)
		}
		return &Converter{path: explicitPath, timeout: timeout}, nil
	}
	for _, p := range probePaths {
		if resolved, err := exec.LookPath(p); err == nil {
			return &Converter{path: resolved, timeout: timeout}, nil
		}
	}
	return nil, ErrToolNotFound
}

// Path returns the resolved binary path.
func (c *Converter) Path() string { return c.path }

// Version reports the converter's version line. Parsing is only
// reproducible against a fixed converter version, so callers log this.
func (c *Converter) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// Markdown converts the document at srcPath to a flat markdown stream with
// inline notation markers (~sub~, ^sup^, **bold**), captured from stdout.
func (c *Converter) Markdown(ctx context.Context, srcPath string) (string, error) {
	out, err := c.run(ctx, "-t", "markdown", "--wrap=none", srcPath)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Blocks converts the document at srcPath to a structured block tree via the
// converter's JSON AST output. The intermediate file is written next to the
// source and removed on both success and failure paths.
func (c *Converter) Blocks(ctx context.Context, srcPath string) ([]RawBlock, error) {
	outPath := srcPath + ".ast.json"
	defer os.Remove(outPath)

	if _, err := c.run(ctx, "-t", "json", "-o", outPath, srcPath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read converter output: %w", err)
	}
	return DecodeAST(data)
}

func (c *Converter) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, c.path, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("converter failed: %s", msg)
	}
	return out.Bytes(), nil
}
